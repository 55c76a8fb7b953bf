// Package build turns a scene into render batches.
//
// Every scene entry is an independent work unit: its geometry is moved to
// canvas pixels, flattened into polylines and tessellated into a triangle
// fan for stencil-then-cover rendering. Strokes are expanded into one quad
// per segment with square joins. Clip paths get fans of their own.
//
// Units run on an Executor (Sequential, Pool or Group) and each result is
// stored by entry index, so the output order is painter's order no matter
// how many workers ran. Building never touches a device.
//
// Entries that cannot be built (non-finite coordinates, singular
// transforms, invalid line widths) are skipped and reported as
// EntryError warnings wrapping ErrBuildFailure.
package build
