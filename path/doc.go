// Package path builds immutable vector paths.
//
// A Builder accumulates MoveTo, LineTo, QuadTo, CubicTo and ClosePath
// commands and produces a *Path with Build. Paths never change after
// construction and may be shared freely between goroutines.
//
// Call order rules:
//
//   - LineTo, QuadTo, CubicTo and ClosePath before the first MoveTo fail
//     with ErrInvalidPathState. The error is sticky until Reset.
//   - After ClosePath, a drawing command starts a new contour at the
//     start point of the contour that was just closed.
//   - A second ClosePath in a row is a no-op.
//
// For filling, open contours are implicitly closed (see Path.Closed).
// Stroking keeps them open.
package path
