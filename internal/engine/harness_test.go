package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/idgen"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

const tol = 1e-9

// harness plays the role of the console: it owns the state and applies each
// diff to an in-memory snapshot.
type harness struct {
	t      *testing.T
	d      *Dispatcher
	state  State
	shapes *shape.Snapshot
}

func newHarness(t *testing.T, shapes ...shape.Shape) *harness {
	return newHarnessWith(t, BuiltinDefaults(), shapes...)
}

func newHarnessWith(t *testing.T, defaults Defaults, shapes ...shape.Shape) *harness {
	t.Helper()
	return &harness{
		t:      t,
		d:      NewDefaultDispatcher(idgen.NewSequential("n", 0), defaults),
		state:  Idle(),
		shapes: shape.NewSnapshot(shapes...),
	}
}

func (h *harness) start(name string, selected ...shape.ID) Result {
	h.t.Helper()
	var res Result
	h.state, res = h.d.Start(h.state, name, selected, h.shapes)
	h.shapes = applyDiff(h.t, h.shapes, res.Diff)
	return res
}

func (h *harness) send(in Input) Result {
	h.t.Helper()
	var res Result
	h.state, res = h.d.Process(h.state, in, h.shapes)
	h.shapes = applyDiff(h.t, h.shapes, res.Diff)
	return res
}

// must sends in and fails the test unless it succeeds.
func (h *harness) must(in Input) Result {
	h.t.Helper()
	res := h.send(in)
	require.True(h.t, res.Success, "input %#v failed: %s", in, res.Message)
	return res
}

func (h *harness) get(id shape.ID) shape.Shape {
	h.t.Helper()
	s, ok := h.shapes.Lookup(id)
	require.True(h.t, ok, "shape %s not found", id)
	return s
}

func applyDiff(t *testing.T, s *shape.Snapshot, d Diff) *shape.Snapshot {
	t.Helper()
	deleted := make(map[shape.ID]bool, len(d.Delete))
	for _, id := range d.Delete {
		deleted[id] = true
	}
	updates := make(map[shape.ID]shape.Patch, len(d.Update))
	for _, u := range d.Update {
		updates[u.ID] = u.Patch
	}
	var out []shape.Shape
	for _, sh := range s.All() {
		id := sh.Base().ID
		if deleted[id] {
			continue
		}
		if p, ok := updates[id]; ok {
			var err error
			sh, err = shape.Apply(sh, p)
			require.NoError(t, err)
		}
		out = append(out, sh)
	}
	out = append(out, d.Add...)
	return shape.NewSnapshot(out...)
}

func pt(x, y float64) *geom.Point {
	p := geom.Pt(x, y)
	return &p
}

func sel(pick *geom.Point, ids ...shape.ID) Select {
	return Select{IDs: ids, Pick: pick}
}

func assertPoint(t *testing.T, want, got geom.Point) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, "x of %v", got)
	assert.InDelta(t, want.Y, got.Y, tol, "y of %v", got)
}

func line(id shape.ID, x1, y1, x2, y2 float64) shape.Line {
	return shape.Line{Meta: shape.Meta{ID: id}, Start: geom.Pt(x1, y1), End: geom.Pt(x2, y2)}
}

func circle(id shape.ID, x, y, r float64) shape.Circle {
	return shape.Circle{Meta: shape.Meta{ID: id}, Center: geom.Pt(x, y), Radius: r}
}
