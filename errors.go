package canvas

import (
	"errors"

	"github.com/gogpu/canvas/path"
)

var (
	// ErrUnbalancedState is returned by Restore without a matching Save.
	ErrUnbalancedState = errors.New("canvas: restore without matching save")

	// ErrConsumed is returned by every mutating method after IntoScene.
	ErrConsumed = errors.New("canvas: context already converted into a scene")

	// ErrInvalidArgument is returned for nil paths, empty text and
	// non-finite or negative numeric arguments.
	ErrInvalidArgument = errors.New("canvas: invalid argument")

	// ErrNoFontSource is returned by text drawing without a font source.
	ErrNoFontSource = errors.New("canvas: no font source")

	// ErrInvalidPathState is the path builder's call order error.
	ErrInvalidPathState = path.ErrInvalidPathState
)
