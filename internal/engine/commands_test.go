package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

func TestEraseWithPreselectionCompletesImmediately(t *testing.T) {
	t.Parallel()

	h := newHarness(t, line("a", 0, 0, 1, 0), line("b", 0, 1, 1, 1))
	res := h.start("erase", "a", "missing")
	assert.True(t, res.Success)
	assert.Equal(t, []shape.ID{"a"}, res.Diff.Delete)
	assert.False(t, h.state.Active())
	assert.Equal(t, 1, h.shapes.Len())
}

func TestEraseSelection(t *testing.T) {
	t.Parallel()

	locked := line("locked", 0, 5, 1, 5)
	locked.Locked = true
	h := newHarness(t, line("a", 0, 0, 1, 0), line("b", 0, 1, 1, 1), locked)
	h.start("E")

	res := h.send(Enter{})
	assert.False(t, res.Success, "Enter with nothing selected")
	assert.Equal(t, "No objects selected.", res.Message)
	assert.Equal(t, PhaseSelecting, h.state.Phase)

	res = h.send(sel(nil, "locked", "zzz"))
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "1 object is locked")

	res = h.must(sel(nil, "a", "a"))
	assert.Equal(t, "1 found, 1 total", res.Message)
	res = h.send(sel(nil, "a"))
	assert.False(t, res.Success, "duplicates are ignored")

	// pick by point only
	h.must(sel(pt(0.5, 1.1)))
	assert.Equal(t, []shape.ID{"a", "b"}, h.state.Selected)

	res = h.must(Enter{})
	assert.Equal(t, []shape.ID{"a", "b"}, res.Diff.Delete)
	assert.False(t, h.state.Active())
	assert.Equal(t, 1, h.shapes.Len())
}

func TestMove(t *testing.T) {
	t.Parallel()

	h := newHarness(t, line("a", 0, 0, 1, 0), circle("c", 5, 5, 1))
	h.start("m", "a", "c")
	assert.Equal(t, PhaseBasePoint, h.state.Phase)
	h.must(Point{At: geom.Pt(1, 1)})
	res := h.must(Point{At: geom.Pt(4, -1)})

	assert.Empty(t, res.Diff.Add)
	assert.Len(t, res.Diff.Update, 2)
	assert.False(t, h.state.Active())
	a := h.get("a").(shape.Line)
	assertPoint(t, geom.Pt(3, -2), a.Start)
	assertPoint(t, geom.Pt(4, -2), a.End)
	assertPoint(t, geom.Pt(8, 3), h.get("c").(shape.Circle).Center)
}

func TestMoveEnterUsesBasePointAsDisplacement(t *testing.T) {
	t.Parallel()

	h := newHarness(t, line("a", 0, 0, 1, 0))
	h.start("move", "a")
	h.must(Point{At: geom.Pt(2, 3)})
	h.must(Enter{})
	assertPoint(t, geom.Pt(2, 3), h.get("a").(shape.Line).Start)
}

func TestCopyMultipleIsRelativeToOriginal(t *testing.T) {
	t.Parallel()

	h := newHarness(t, line("x", 0, 0, 1, 0))
	h.start("COPY", "x")
	h.must(Point{At: geom.Pt(0, 0)})

	res := h.must(Point{At: geom.Pt(5, 5)})
	require.Len(t, res.Diff.Add, 1)
	assert.True(t, res.Continue)
	first := res.Diff.Add[0].(shape.Line)
	assertPoint(t, geom.Pt(5, 5), first.Start)
	assertPoint(t, geom.Pt(6, 5), first.End)
	assert.Equal(t, PhaseSecondPoint, h.state.Phase)

	res = h.must(Point{At: geom.Pt(10, 0)})
	require.Len(t, res.Diff.Add, 1)
	assert.True(t, res.Continue)
	second := res.Diff.Add[0].(shape.Line)
	assertPoint(t, geom.Pt(10, 0), second.Start)
	assertPoint(t, geom.Pt(11, 0), second.End)
	assert.NotEqual(t, first.ID, second.ID)

	// the original never moved
	assertPoint(t, geom.Pt(0, 0), h.get("x").(shape.Line).Start)

	res = h.must(Option{Text: "u"})
	assert.Equal(t, []shape.ID{second.ID}, res.Diff.Delete)
	assert.True(t, res.Continue)
	assert.True(t, h.state.Active())

	res = h.must(Enter{})
	assert.True(t, res.Diff.Empty())
	assert.False(t, h.state.Active())
	assert.Equal(t, 2, h.shapes.Len())
}

func TestCopySingleMode(t *testing.T) {
	t.Parallel()

	h := newHarness(t, line("x", 0, 0, 1, 0))
	h.start("cp", "x")
	h.must(Option{Text: "MODE"})
	assert.Equal(t, PhaseOption, h.state.Phase)
	h.must(Option{Text: "s"})
	assert.Equal(t, PhaseBasePoint, h.state.Phase)
	assert.Contains(t, h.state.Prompt, "Copy mode = Single")

	h.must(Point{At: geom.Pt(0, 0)})
	res := h.must(Point{At: geom.Pt(0, 3)})
	assert.Len(t, res.Diff.Add, 1)
	assert.False(t, res.Continue)
	assert.False(t, h.state.Active())

	res = h.send(Option{Text: "u"})
	assert.False(t, res.Success)
}

func TestCopyUndoWithNothingToUndo(t *testing.T) {
	t.Parallel()

	h := newHarness(t, line("x", 0, 0, 1, 0))
	h.start("copy", "x")
	h.must(Point{At: geom.Pt(0, 0)})
	res := h.send(Option{Text: "undo"})
	assert.False(t, res.Success)
	assert.Equal(t, "Nothing to undo.", res.Message)
	assert.Equal(t, PhaseSecondPoint, h.state.Phase)
}

func TestRotate(t *testing.T) {
	t.Parallel()

	t.Run("typed angle", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, line("a", 1, 0, 2, 0))
		h.start("ro", "a")
		h.must(Point{At: geom.Pt(0, 0)})
		h.must(Value{Number: 90})
		a := h.get("a").(shape.Line)
		assertPoint(t, geom.Pt(0, 1), a.Start)
		assertPoint(t, geom.Pt(0, 2), a.End)
	})

	t.Run("picked angle uses y-up convention", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, line("a", 1, 0, 2, 0))
		h.start("rotate", "a")
		h.must(Point{At: geom.Pt(0, 0)})
		h.must(Point{At: geom.Pt(0, 5)})
		assertPoint(t, geom.Pt(0, 1), h.get("a").(shape.Line).Start)
	})

	t.Run("reference", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, line("a", 1, 0, 2, 0))
		h.start("rotate", "a")
		h.must(Point{At: geom.Pt(0, 0)})
		h.must(Option{Text: "r"})
		h.must(Point{At: geom.Pt(0, 0)})
		h.must(Point{At: geom.Pt(1, 1)})
		assert.Equal(t, PhaseValue, h.state.Phase)
		h.must(Value{Number: 90})
		// rotated by 90 - 45
		want := geom.Rotate(geom.Pt(1, 0), geom.Pt(0, 0), math.Pi/4)
		assertPoint(t, want, h.get("a").(shape.Line).Start)
	})

	t.Run("copy", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, shape.Rectangle{Meta: shape.Meta{ID: "r"}, Width: 2, Height: 1})
		h.start("rotate", "r")
		h.must(Point{At: geom.Pt(0, 0)})
		res := h.must(Option{Text: "copy"})
		assert.Contains(t, res.Message, "copy")
		res = h.must(Value{Number: 30})
		require.Len(t, res.Diff.Add, 1)
		assert.Empty(t, res.Diff.Update)
		assert.InDelta(t, geom.Radians(30), res.Diff.Add[0].(shape.Rectangle).Rotation, tol)
		assert.Zero(t, h.get("r").(shape.Rectangle).Rotation)
	})

	t.Run("angle point on base point", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, line("a", 1, 0, 2, 0))
		h.start("rotate", "a")
		h.must(Point{At: geom.Pt(3, 3)})
		res := h.send(Point{At: geom.Pt(3, 3)})
		assert.False(t, res.Success)
		assert.Equal(t, PhaseValue, h.state.Phase)
	})
}

func TestScale(t *testing.T) {
	t.Parallel()

	t.Run("zero rejected before any diff", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, circle("c", 1, 1, 2))
		h.start("sc", "c")
		h.must(Point{At: geom.Pt(0, 0)})
		res := h.send(Value{Number: 0})
		assert.False(t, res.Success)
		assert.True(t, res.Diff.Empty())
		assert.Equal(t, "Scale factor must be non-zero.", res.Message)
		assert.Equal(t, PhaseValue, h.state.Phase, "base point is kept for a retry")

		h.must(Value{Number: 2})
		c := h.get("c").(shape.Circle)
		assertPoint(t, geom.Pt(2, 2), c.Center)
		assert.InDelta(t, 4, c.Radius, tol)
	})

	t.Run("picked factor", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, line("a", 1, 0, 2, 0))
		h.start("scale", "a")
		h.must(Point{At: geom.Pt(0, 0)})
		h.must(Point{At: geom.Pt(0, 3)})
		assertPoint(t, geom.Pt(6, 0), h.get("a").(shape.Line).End)
	})

	t.Run("reference", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, line("a", 1, 0, 2, 0))
		h.start("scale", "a")
		h.must(Point{At: geom.Pt(0, 0)})
		h.must(Option{Text: "r"})
		res := h.send(Value{Number: 0})
		assert.False(t, res.Success)
		h.must(Value{Number: 2})
		h.must(Value{Number: 6})
		assertPoint(t, geom.Pt(6, 0), h.get("a").(shape.Line).End)
	})
}

func TestMirror(t *testing.T) {
	t.Parallel()

	h := newHarness(t, line("a", 1, 0, 2, 0))
	h.start("mi", "a")
	h.must(Point{At: geom.Pt(0, 0)})

	res := h.send(Point{At: geom.Pt(0, 0)})
	assert.False(t, res.Success, "coincident mirror points")
	assert.Equal(t, PhaseSecondPoint, h.state.Phase)

	h.must(Point{At: geom.Pt(0, 1)})
	assert.Equal(t, PhaseOption, h.state.Phase)
	assert.Len(t, h.d.Preview(h.state, geom.Pt(0, 0), h.shapes), 1)

	res = h.must(Option{Text: "y"})
	require.Len(t, res.Diff.Add, 1)
	assert.Equal(t, []shape.ID{"a"}, res.Diff.Delete)
	m := res.Diff.Add[0].(shape.Line)
	assertPoint(t, geom.Pt(-1, 0), m.Start)
	assertPoint(t, geom.Pt(-2, 0), m.End)
	assert.Equal(t, 1, h.shapes.Len())
}

func TestMirrorKeepsSourceByDefault(t *testing.T) {
	t.Parallel()

	h := newHarness(t, line("a", 1, 0, 2, 0))
	h.start("mirror", "a")
	h.must(Point{At: geom.Pt(0, 0)})
	h.must(Point{At: geom.Pt(1, 0)})
	res := h.must(Enter{})
	assert.Len(t, res.Diff.Add, 1)
	assert.Empty(t, res.Diff.Delete)
	assert.Equal(t, 2, h.shapes.Len())
}

func TestOffsetCircleOutward(t *testing.T) {
	t.Parallel()

	h := newHarness(t, circle("c", 0, 0, 5))
	h.start("O")
	h.must(Value{Number: 2})
	assert.Equal(t, PhaseSelecting, h.state.Phase)
	h.must(sel(nil, "c"))
	assert.Equal(t, PhaseSide, h.state.Phase)

	res := h.must(Point{At: geom.Pt(8, 0)})
	require.Len(t, res.Diff.Add, 1)
	assert.True(t, res.Continue)
	c := res.Diff.Add[0].(shape.Circle)
	assertPoint(t, geom.Pt(0, 0), c.Center)
	assert.InDelta(t, 7, c.Radius, tol)
	assert.NotEqual(t, shape.ID("c"), c.ID)
	assert.Equal(t, PhaseSelecting, h.state.Phase, "loops back for the next object")
}

func TestOffsetInwardTooFar(t *testing.T) {
	t.Parallel()

	h := newHarness(t, circle("c", 0, 0, 5))
	h.start("offset")
	h.must(Value{Number: 5})
	h.must(sel(nil, "c"))
	res := h.send(Point{At: geom.Pt(1, 0)})
	assert.False(t, res.Success)
	assert.Equal(t, "Resulting radius would not be positive.", res.Message)
	assert.Equal(t, PhaseSide, h.state.Phase)
}

func TestOffsetLineSides(t *testing.T) {
	t.Parallel()

	h := newHarness(t, line("l", 0, 0, 10, 0))
	h.start("offset")
	h.must(Value{Number: 1.5})
	h.must(sel(nil, "l"))
	res := h.must(Point{At: geom.Pt(3, -7)})
	below := res.Diff.Add[0].(shape.Line)
	assertPoint(t, geom.Pt(0, -1.5), below.Start)

	h.must(sel(nil, "l"))
	res = h.must(Point{At: geom.Pt(3, 7)})
	assertPoint(t, geom.Pt(10, 1.5), res.Diff.Add[0].(shape.Line).End)
}

func TestOffsetThroughUndoAndErase(t *testing.T) {
	t.Parallel()

	h := newHarness(t, circle("c", 0, 0, 5), shape.Rectangle{Meta: shape.Meta{ID: "r"}, Width: 1, Height: 1})
	h.start("offset")

	res := h.send(Value{Number: -1})
	assert.False(t, res.Success)

	h.must(Option{Text: "t"})
	res = h.send(sel(nil, "r"))
	assert.False(t, res.Success)
	assert.Equal(t, "Cannot offset a rectangle.", res.Message)

	h.must(sel(nil, "c"))
	assert.Equal(t, offsetThroughPrompt, h.state.Prompt)
	preview := h.d.Preview(h.state, geom.Pt(0, 9), h.shapes)
	require.Len(t, preview, 1)
	assert.InDelta(t, 9, preview[0].(shape.Circle).Radius, tol)

	res = h.must(Point{At: geom.Pt(0, 9)})
	created := res.Diff.Add[0].Base().ID
	assert.InDelta(t, 9, res.Diff.Add[0].(shape.Circle).Radius, tol)

	res = h.must(Option{Text: "undo"})
	assert.Equal(t, []shape.ID{created}, res.Diff.Delete)
	res = h.send(Option{Text: "undo"})
	assert.False(t, res.Success, "only one step of undo")

	h.must(Option{Text: "exit"})
	assert.False(t, h.state.Active())

	// erase mode deletes the source, and undo restores it
	h.start("offset")
	h.must(Option{Text: "e"})
	h.must(Option{Text: "yes"})
	h.must(Value{Number: 1})
	h.must(sel(nil, "c"))
	res = h.must(Point{At: geom.Pt(0, 3)})
	assert.Equal(t, []shape.ID{"c"}, res.Diff.Delete)
	assert.InDelta(t, 4, res.Diff.Add[0].(shape.Circle).Radius, tol)
	_, ok := h.shapes.Lookup("c")
	assert.False(t, ok)

	res = h.must(Option{Text: "u"})
	require.Len(t, res.Diff.Add, 1)
	assert.Equal(t, shape.ID("c"), res.Diff.Add[0].Base().ID)
	assert.InDelta(t, 5, h.get("c").(shape.Circle).Radius, tol)
}

func TestOffsetThroughPointOnObject(t *testing.T) {
	t.Parallel()

	e := shape.Ellipse{Meta: shape.Meta{ID: "e"}, Center: geom.Pt(0, 20), RadiusX: 3, RadiusY: 1}
	h := newHarness(t, line("l", 0, 0, 10, 0), e)
	h.start("offset")
	h.must(Option{Text: "t"})
	res := h.send(sel(nil, "e"))
	assert.Equal(t, "Cannot offset an ellipse.", res.Message)
	h.must(sel(nil, "l"))

	res = h.send(Point{At: geom.Pt(5, 0)})
	assert.False(t, res.Success)
	assert.Equal(t, "Through point lies on the object.", res.Message)
	assert.Empty(t, res.Diff.Add)
	assert.Equal(t, offsetThroughPrompt, h.state.Prompt)

	res = h.must(Point{At: geom.Pt(5, 2)})
	assertPoint(t, geom.Pt(0, 2), res.Diff.Add[0].(shape.Line).Start)
}

func TestFilletScenario(t *testing.T) {
	t.Parallel()

	h := newHarness(t, line("A", 0, 0, 10, 0), line("B", 10, 0, 10, 10))
	h.start("fillet")
	h.must(Option{Text: "r"})
	h.must(Value{Number: 2})
	h.must(sel(pt(0.5, 0), "A"))
	assert.Equal(t, PhaseSelectingSecond, h.state.Phase)

	preview := h.d.Preview(h.state, geom.Pt(10, 9.8), h.shapes)
	require.Len(t, preview, 1)

	res := h.must(sel(pt(10, 9.5), "B"))
	require.Len(t, res.Diff.Add, 1)
	arc := res.Diff.Add[0].(shape.Arc)
	assert.Equal(t, 2.0, arc.Radius)
	assertPoint(t, geom.Pt(8, 2), arc.Center)
	assertPoint(t, preview[0].(shape.Arc).Center, arc.Center)

	require.Len(t, res.Diff.Update, 2)
	assert.Equal(t, shape.ID("A"), res.Diff.Update[0].ID)
	require.NotNil(t, res.Diff.Update[0].Patch.End)
	assert.Nil(t, res.Diff.Update[0].Patch.Start)
	assertPoint(t, geom.Pt(8, 0), *res.Diff.Update[0].Patch.End)
	assert.Equal(t, shape.ID("B"), res.Diff.Update[1].ID)
	require.NotNil(t, res.Diff.Update[1].Patch.Start)
	assertPoint(t, geom.Pt(10, 2), *res.Diff.Update[1].Patch.Start)

	// both tangent points lie on the arc
	assertPoint(t, geom.Pt(8, 0), arc.PointAt(arc.StartAngle))
	assertPoint(t, geom.Pt(10, 2), arc.PointAt(arc.EndAngle))
	assert.False(t, h.state.Active())
}

func TestFilletZeroRadiusMakesCorner(t *testing.T) {
	t.Parallel()

	h := newHarness(t, line("A", 0, 0, 8, 0), line("B", 10, 2, 10, 10))
	h.start("f")
	h.must(sel(pt(1, 0), "A"))
	res := h.must(sel(pt(10, 9), "B"))
	assert.Empty(t, res.Diff.Add)
	assertPoint(t, geom.Pt(10, 0), h.get("A").(shape.Line).End)
	assertPoint(t, geom.Pt(10, 0), h.get("B").(shape.Line).Start)
}

func TestFilletFailuresKeepProgress(t *testing.T) {
	t.Parallel()

	h := newHarness(t, line("A", 0, 0, 10, 0), line("P", 0, 5, 10, 5), circle("C", 20, 20, 1))
	h.start("fillet")

	res := h.send(sel(nil, "C"))
	assert.False(t, res.Success)
	assert.Equal(t, "FILLET requires lines, arcs or polylines, not a circle.", res.Message)
	assert.Equal(t, PhaseValue, h.state.Phase)

	h.must(sel(pt(1, 0), "A"))
	res = h.send(sel(pt(1, 5), "P"))
	assert.False(t, res.Success)
	assert.Equal(t, "Lines are parallel.", res.Message)
	assert.True(t, res.Diff.Empty())
	assert.Equal(t, PhaseSelectingSecond, h.state.Phase)

	res = h.send(sel(pt(2, 0), "A"))
	assert.False(t, res.Success)
	assert.Equal(t, "Cannot fillet an object with itself.", res.Message)

	res = h.send(Option{Text: "r"})
	assert.False(t, res.Success)
}

func TestFilletNegativeRadiusRejected(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.start("fillet")
	h.must(Option{Text: "radius"})
	res := h.send(Value{Number: -1})
	assert.False(t, res.Success)
	assert.Equal(t, PhaseRadius, h.state.Phase)
}

func TestFilletMultipleAndNoTrim(t *testing.T) {
	t.Parallel()

	h := newHarness(t,
		line("A", 0, 0, 10, 0), line("B", 10, 0, 10, 10),
		line("C", 20, 0, 30, 0), line("D", 30, 0, 30, 10),
	)
	h.start("fillet")
	h.must(Option{Text: "m"})
	h.must(Option{Text: "t"})
	h.must(Option{Text: "n"})
	h.must(Option{Text: "r"})
	h.must(Value{Number: 1})
	assert.Contains(t, h.state.Prompt, "Mode = NOTRIM")

	h.must(sel(pt(1, 0), "A"))
	res := h.must(sel(pt(10, 9), "B"))
	assert.True(t, res.Continue)
	assert.Len(t, res.Diff.Add, 1)
	assert.Empty(t, res.Diff.Update, "no trim")
	assert.Equal(t, PhaseValue, h.state.Phase)

	h.must(sel(pt(21, 0), "C"))
	res = h.must(sel(pt(30, 9), "D"))
	assert.True(t, res.Continue)
	assert.Len(t, res.Diff.Add, 1)

	h.must(Enter{})
	assert.False(t, h.state.Active())
}

func TestFilletPolylineVertex(t *testing.T) {
	t.Parallel()

	pl := shape.Polyline{Meta: shape.Meta{ID: "p"}, Points: []geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10)}}
	h := newHarness(t, pl)
	h.start("fillet")
	h.must(Option{Text: "r"})
	h.must(Value{Number: 2})
	h.must(sel(pt(5, 0), "p"))
	res := h.must(sel(pt(10, 5), "p"))
	assert.Empty(t, res.Diff.Add, "the arc is written into the polyline")

	got := h.get("p").(shape.Polyline)
	require.Greater(t, len(got.Points), 4)
	n := len(got.Points)
	assertPoint(t, geom.Pt(0, 0), got.Points[0])
	assertPoint(t, geom.Pt(8, 0), got.Points[1])
	assertPoint(t, geom.Pt(10, 2), got.Points[n-2])
	assertPoint(t, geom.Pt(10, 10), got.Points[n-1])
	for _, p := range got.Points[1 : n-1] {
		assert.InDelta(t, 2, p.Dist(geom.Pt(8, 2)), 1e-9)
	}
}

func TestFilletPolylineEndSegmentToLine(t *testing.T) {
	t.Parallel()

	pl := shape.Polyline{Meta: shape.Meta{ID: "p"}, Points: []geom.Point{geom.Pt(0, 5), geom.Pt(0, 0), geom.Pt(8, 0)}}
	h := newHarness(t, pl, line("L", 10, 2, 10, 10), line("H", 2, -2, 5, -2))
	h.start("fillet")

	// the last segment's free end can be extended to the line
	h.must(sel(pt(4, 0), "p"))
	h.must(sel(pt(10, 9), "L"))
	got := h.get("p").(shape.Polyline)
	assertPoint(t, geom.Pt(10, 0), got.Points[2])
	assertPoint(t, geom.Pt(10, 0), h.get("L").(shape.Line).Start)

	// an interior vertex cannot be
	h.start("fillet")
	h.must(sel(pt(0, 3), "p"))
	res := h.send(sel(pt(4, -2), "H"))
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "end segment of an open polyline")
}

func TestChamfer(t *testing.T) {
	t.Parallel()

	h := newHarness(t, line("A", 0, 0, 10, 0), line("B", 10, 0, 10, 10))
	h.start("cha")
	h.must(Option{Text: "d"})
	h.must(Value{Number: 2})
	assert.Contains(t, h.state.Prompt, "<2>", "second distance defaults to the first")
	h.must(Value{Number: 3})
	h.must(sel(pt(1, 0), "A"))
	res := h.must(sel(pt(10, 9), "B"))

	require.Len(t, res.Diff.Add, 1)
	c := res.Diff.Add[0].(shape.Line)
	assertPoint(t, geom.Pt(8, 0), c.Start)
	assertPoint(t, geom.Pt(10, 3), c.End)
	assertPoint(t, geom.Pt(8, 0), h.get("A").(shape.Line).End)
	assertPoint(t, geom.Pt(10, 3), h.get("B").(shape.Line).Start)
	assert.False(t, h.state.Active())
}

func TestChamferPolylineVertexAndZeroDistances(t *testing.T) {
	t.Parallel()

	pl := shape.Polyline{Meta: shape.Meta{ID: "p"}, Points: []geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10)}, Closed: false}
	h := newHarness(t, pl, line("A", 0, 20, 8, 20), line("B", 10, 22, 10, 30))

	h.start("chamfer")
	h.must(Option{Text: "d"})
	h.must(Value{Number: 1})
	h.must(Enter{})
	h.must(sel(pt(10, 5), "p"))
	h.must(sel(pt(5, 0), "p"))
	got := h.get("p").(shape.Polyline)
	require.Len(t, got.Points, 4)
	assertPoint(t, geom.Pt(9, 0), got.Points[1])
	assertPoint(t, geom.Pt(10, 1), got.Points[2])

	// zero distances behave like a zero-radius fillet
	h.start("chamfer")
	h.must(Option{Text: "d"})
	h.must(Value{Number: 0})
	h.must(Value{Number: 0})
	h.must(sel(pt(1, 20), "A"))
	res := h.must(sel(pt(10, 29), "B"))
	assert.Empty(t, res.Diff.Add)
	assertPoint(t, geom.Pt(10, 20), h.get("A").(shape.Line).End)
	assertPoint(t, geom.Pt(10, 20), h.get("B").(shape.Line).Start)
}

func TestPickToleranceFromDefaults(t *testing.T) {
	t.Parallel()

	d := BuiltinDefaults()
	d.PickTolerance = 0.1
	h := newHarnessWith(t, d, line("a", 0, 0, 10, 0))
	h.start("erase")
	res := h.send(sel(pt(5, 0.3)))
	assert.False(t, res.Success, "outside the pick tolerance")
	h.must(sel(pt(5, 0.05)))
}
