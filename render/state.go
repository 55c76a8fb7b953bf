// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// State is the lifecycle state of a Renderer.
type State int32

const (
	// StateIdle means no frame is in flight.
	StateIdle State = iota
	// StateSceneReceived means a scene was accepted and the drawable is
	// being acquired.
	StateSceneReceived
	// StateBuilding means the scene is being tessellated.
	StateBuilding
	// StateSubmitted means the command list is being encoded and executed.
	StateSubmitted
	// StatePresented means the drawable is being presented.
	StatePresented
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSceneReceived:
		return "scene received"
	case StateBuilding:
		return "building"
	case StateSubmitted:
		return "submitted"
	case StatePresented:
		return "presented"
	default:
		return "unknown"
	}
}
