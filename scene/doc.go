// Package scene holds the backend-independent record of a drawing.
//
// A Scene is an ordered, append-only list of entries. Each Entry is one
// fill or stroke with the geometry, paint, transform and clip that were
// current when it was drawn. Entry order is painter's order: later entries
// composite on top of earlier ones.
//
// Scenes are usually produced by the canvas package. Once handed to a
// builder a Scene must not be modified.
package scene
