// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"errors"
	"fmt"
)

// Error causes. Backends wrap them in *Error.
var (
	ErrOutOfMemory       = errors.New("out of memory")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInvalidCommand    = errors.New("invalid command")
	ErrDeviceLost        = errors.New("device lost")
	ErrDestroyed         = errors.New("device destroyed")

	// ErrPresentation reports that the window system rejected or could not
	// provide a drawable.
	ErrPresentation = errors.New("presentation failed")
)

// Error is a device failure. Err keeps the backend-specific cause.
type Error struct {
	Backend string
	Op      string
	Err     error
}

// NewError wraps err for the given backend operation.
func NewError(backend, op string, err error) *Error {
	return &Error{Backend: backend, Op: op, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("device: %s: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf wraps a formatted error for the given backend operation.
// The format may use %w.
func Errorf(backend, op, format string, args ...any) *Error {
	return NewError(backend, op, fmt.Errorf(format, args...))
}
