package build

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"
	"slices"
	"time"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/geom"
	"github.com/gogpu/canvas/scene"
)

var (
	// ErrBuildFailure is wrapped by every EntryError.
	ErrBuildFailure = errors.New("build: entry failed")

	// ErrNilScene is returned by Build for a nil scene.
	ErrNilScene = errors.New("build: nil scene")
)

// EntryError reports a scene entry that was skipped.
type EntryError struct {
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("build: entry %d: %v", e.Index, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

func failure(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBuildFailure, fmt.Sprintf(format, args...))
}

// Batch is the tessellated form of one scene entry, in canvas pixels.
type Batch struct {
	// Index is the entry's position in the scene.
	Index int
	Op    scene.Op
	// Color is premultiplied.
	Color [4]float32
	Blend scene.BlendMode

	// Fan is a triangle list. Its nonzero winding is the entry's coverage.
	Fan []geom.Vec2
	// Cover is two triangles spanning Bounds.
	Cover [6]geom.Vec2
	// Clips holds one triangle list per clip level, outermost first.
	Clips [][]geom.Vec2

	// Bounds is the pixel-aligned area the batch can touch.
	Bounds geom.Rect
}

// VertexCount returns the number of vertices the batch encodes to.
func (b *Batch) VertexCount() int {
	n := len(b.Fan) + len(b.Cover)
	for _, c := range b.Clips {
		n += len(c)
	}
	return n
}

// Built is the result of building a scene.
// It holds no device resources and may be rendered any number of times.
type Built struct {
	SceneID    uint64
	Size       geom.Vec2
	Background color.RGBA
	// Clip is the drawable region: the canvas intersected with Options.Clip.
	Clip      geom.Rect
	Antialias AAMode
	Tolerance float64

	// Batches are in painter's order.
	Batches  []Batch
	Warnings []*EntryError
}

// VertexCount returns the number of vertices of all batches.
func (b *Built) VertexCount() int {
	n := 0
	for i := range b.Batches {
		n += b.Batches[i].VertexCount()
	}
	return n
}

// Builder turns scenes into batches on an Executor.
// A Builder is safe for concurrent use if its Executor is.
type Builder struct {
	exec Executor
}

// NewBuilder returns a builder running on exec. A nil exec runs
// sequentially.
func NewBuilder(exec Executor) *Builder {
	if exec == nil {
		exec = Sequential{}
	}
	return &Builder{exec: exec}
}

type unit struct {
	batch *Batch
	err   error
}

// Build tessellates every entry of s.
//
// Entries are independent work units. Each result is stored at its entry
// index, so batch order is painter's order regardless of how the executor
// schedules the units. An entry that cannot be built is skipped and reported
// in Built.Warnings; Build itself fails only for a nil scene or a cancelled
// context.
func (b *Builder) Build(ctx context.Context, s *scene.Scene, opts Options) (*Built, error) {
	if s == nil {
		return nil, ErrNilScene
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	start := time.Now()

	size := s.Size()
	canvasRect := geom.NewRect(0, 0, size.X, size.Y)
	region := canvasRect
	if opts.Clip != nil {
		region = region.Intersect(opts.Clip.Normalize())
	}
	tol := opts.EffectiveTolerance()

	entries := s.Entries()
	units := make([]unit, len(entries))
	err := b.exec.Execute(ctx, len(entries), func(i int) {
		batch, err := buildEntry(&entries[i], canvasRect, region, tol)
		if batch != nil {
			batch.Index = i
		}
		units[i] = unit{batch: batch, err: err}
	})
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	out := &Built{
		SceneID:    s.ID(),
		Size:       size,
		Background: opts.Background,
		Clip:       region,
		Antialias:  opts.Antialias,
		Tolerance:  tol,
	}
	log := canvas.Logger()
	for i, u := range units {
		switch {
		case u.err != nil:
			ee := &EntryError{Index: i, Err: u.err}
			out.Warnings = append(out.Warnings, ee)
			log.Warn("build: entry skipped", "index", i, "err", u.err)
		case u.batch != nil:
			out.Batches = append(out.Batches, *u.batch)
		}
	}
	log.Debug("build: scene built",
		"scene", s.ID(),
		"entries", len(entries),
		"batches", len(out.Batches),
		"warnings", len(out.Warnings),
		"elapsed", time.Since(start))
	return out, nil
}

// buildEntry tessellates one entry. It returns (nil, nil) when the entry
// has no visible geometry inside region.
//
// The cover of an unclipped batch spans every canvas pixel its fan can
// reach, so a stencil pass over the cover leaves no residue. When that
// cover pokes out of region, region becomes the batch's outermost clip.
func buildEntry(e *scene.Entry, canvasRect, region geom.Rect, tol float64) (*Batch, error) {
	if e.Geometry == nil {
		return nil, failure("nil geometry")
	}
	if e.Geometry.IsEmpty() {
		return nil, nil
	}
	m := e.Transform
	if !m.IsFinite() {
		return nil, failure("non-finite transform")
	}
	if !m.IsInvertible() {
		return nil, failure("singular transform")
	}
	col := e.Color()
	if col[3] == 0 && e.Paint.Blend == scene.BlendSourceOver {
		return nil, nil
	}

	var fan []geom.Vec2
	switch e.Op {
	case scene.OpFill:
		fan = appendFan(nil, e.Geometry.Closed().Transform(m).Flatten(tol))
	case scene.OpStroke:
		w := e.Paint.LineWidth
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, failure("invalid line width %v", w)
		}
		if w == 0 {
			return nil, nil
		}
		// Expand in user space so non-uniform scales distort the pen the
		// way they distort the path.
		localTol := tol / m.MeanScale()
		local := strokeExpander(e.Paint, localTol).Expand(nil, e.Geometry.Flatten(localTol))
		fan = make([]geom.Vec2, len(local))
		for i, p := range local {
			fan[i] = m.Apply(p)
		}
	default:
		return nil, failure("unknown op %d", e.Op)
	}
	if !allFinite(fan) {
		return nil, failure("non-finite coordinates")
	}
	bounds, ok := pointBounds(fan)
	if !ok {
		return nil, nil
	}
	cover := snapOut(bounds).Intersect(canvasRect)
	if cover.Intersect(region).IsEmpty() {
		return nil, nil
	}

	var chain []*scene.ClipPath
	for c := e.Clip; c != nil; c = c.Parent {
		chain = append(chain, c)
	}
	slices.Reverse(chain)
	clips := make([][]geom.Vec2, 0, len(chain))
	for level, c := range chain {
		if c.Path == nil {
			return nil, failure("clip level %d: nil path", level)
		}
		if !c.Transform.IsFinite() {
			return nil, failure("clip level %d: non-finite transform", level)
		}
		if !c.Transform.IsInvertible() {
			// A collapsed clip hides everything.
			return nil, nil
		}
		cf := appendFan(nil, c.Path.Closed().Transform(c.Transform).Flatten(tol))
		if !allFinite(cf) {
			return nil, failure("clip level %d: non-finite coordinates", level)
		}
		cb, ok := pointBounds(cf)
		if !ok {
			return nil, nil
		}
		cover = cover.Intersect(snapOut(cb))
		if cover.Intersect(region).IsEmpty() {
			return nil, nil
		}
		clips = append(clips, cf)
	}
	if len(clips) == 0 && !region.ContainsRect(cover) {
		r := rectTriangles(region)
		clips = append(clips, r[:])
	}
	cover = cover.Intersect(region)

	b := &Batch{
		Op:     e.Op,
		Color:  col,
		Blend:  e.Paint.Blend,
		Fan:    fan,
		Cover:  rectTriangles(cover),
		Bounds: cover,
	}
	if len(clips) > 0 {
		b.Clips = clips
	}
	return b, nil
}
