// Package geom provides the value types shared by the canvas pipeline:
// Vec2, Rect and the 2x3 affine Transform.
//
// All types are plain values. Methods never mutate their receiver.
package geom
