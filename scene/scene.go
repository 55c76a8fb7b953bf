package scene

import (
	"sync/atomic"

	"github.com/gogpu/canvas/geom"
	"github.com/gogpu/canvas/path"
)

// Op is the operation an entry performs.
type Op uint8

const (
	// OpFill fills the geometry with the nonzero winding rule.
	OpFill Op = iota

	// OpStroke strokes the geometry outline.
	OpStroke
)

// String returns the op name.
func (o Op) String() string {
	if o == OpStroke {
		return "Stroke"
	}
	return "Fill"
}

// ClipPath is one level of a clip stack. The visible region of an entry is
// the intersection of every ClipPath on its Parent chain.
// ClipPaths are shared read-only between entries.
type ClipPath struct {
	Path      *path.Path
	Transform geom.Transform
	Parent    *ClipPath
}

// Depth returns the number of clip levels in the chain.
func (c *ClipPath) Depth() int {
	n := 0
	for ; c != nil; c = c.Parent {
		n++
	}
	return n
}

// Entry is one recorded fill or stroke.
type Entry struct {
	Op        Op
	Geometry  *path.Path
	Paint     Paint
	Transform geom.Transform
	Clip      *ClipPath
}

// Color returns the premultiplied color the entry paints with.
func (e *Entry) Color() [4]float32 {
	if e.Op == OpStroke {
		return ColorFloats(e.Paint.StrokeColor)
	}
	return ColorFloats(e.Paint.FillColor)
}

var nextID atomic.Uint64

// Scene is an ordered list of entries plus the canvas size.
type Scene struct {
	id      uint64
	size    geom.Vec2
	entries []Entry
}

// New creates an empty scene of the given size.
func New(size geom.Vec2) *Scene {
	return &Scene{
		id:   nextID.Add(1),
		size: size,
	}
}

// ID returns a process-unique identifier, usable as a cache key.
func (s *Scene) ID() uint64 {
	return s.id
}

// Size returns the canvas size in pixels.
func (s *Scene) Size() geom.Vec2 {
	return s.size
}

// Push appends an entry.
func (s *Scene) Push(e Entry) {
	s.entries = append(s.entries, e)
}

// Len returns the number of entries.
func (s *Scene) Len() int {
	return len(s.entries)
}

// Entry returns the i-th entry.
func (s *Scene) Entry(i int) Entry {
	return s.entries[i]
}

// Entries returns a copy of the entry list.
func (s *Scene) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Bounds returns the union of all entry bounds in canvas space.
// Stroke bounds are grown by the paint's stroke outset.
func (s *Scene) Bounds() geom.Rect {
	var r geom.Rect
	for i := range s.entries {
		e := &s.entries[i]
		if e.Geometry == nil {
			continue
		}
		b := e.Transform.TransformRect(e.Geometry.Bounds())
		if e.Op == OpStroke {
			b = b.Inset(-e.Paint.StrokeOutset() * e.Transform.MeanScale())
		}
		r = r.Union(b)
	}
	return r
}
