// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned by Render while another frame is in flight.
	ErrBusy = errors.New("render: frame in flight")

	// ErrNilSurface is returned by Render for a nil surface.
	ErrNilSurface = errors.New("render: nil surface")
)

// StageError reports the frame state a Render call failed in.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("render: %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
