package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

// arcStep is the largest angle between vertices when a fillet arc has to be
// written into a polyline, which has no arc segments.
const arcStep = math.Pi / 18

// cornerTarget is one resolved FILLET or CHAMFER pick: a line, one
// segment of a polyline, or (FILLET only) an arc. seg is unset for arcs.
type cornerTarget struct {
	Pick
	shape shape.Shape
	seg   geom.Segment
}

// cornerCut is the geometry FILLET or CHAMFER computed for two targets.
type cornerCut struct {
	trim1, trim2 geom.End
	// p1 and p2 are where the trimmed ends of the first and second target
	// move to.
	p1, p2 geom.Point
	// bridge is the new arc or chamfer line, nil for a sharp corner.
	bridge shape.Shape
	// path runs from p1 to p2 and replaces a polyline vertex shared by both
	// targets.
	path []geom.Point
}

// resolveTarget turns a selection into a corner target. The returned string
// is a failure message.
func resolveTarget(cmd CommandID, in Select, shapes Shapes, tol float64) (cornerTarget, string) {
	ids := resolveSelect(in, shapes, tol)
	if len(ids) == 0 {
		return cornerTarget{}, "No object found."
	}
	s, note := selectable(ids[0], shapes)
	switch {
	case note == "locked":
		return cornerTarget{}, "That object is locked."
	case s == nil:
		return cornerTarget{}, "No object found."
	}
	p := Pick{ID: ids[0], Segment: -1}
	if in.Pick != nil {
		p.At = *in.Pick
	}
	switch v := s.(type) {
	case shape.Line:
		if in.Pick == nil {
			p.At = v.Start.Lerp(v.End, 0.5)
		}
	case shape.Polyline:
		switch {
		case v.SegmentCount() == 0:
			return cornerTarget{}, "The polyline has no segments."
		case in.Pick != nil:
			p.Segment = shape.NearestSegment(v, p.At)
		case v.SegmentCount() == 1:
			p.Segment = 0
			p.At = v.SegmentAt(0).Start.Lerp(v.SegmentAt(0).End, 0.5)
		default:
			return cornerTarget{}, "Pick a segment of the polyline."
		}
	case shape.Arc:
		if cmd != CmdFillet {
			return cornerTarget{}, unsupportedTarget(cmd, s)
		}
		if in.Pick == nil {
			p.At = v.PointAt(v.StartAngle + geom.NormalizeAngle(v.EndAngle-v.StartAngle)/2)
		}
	default:
		return cornerTarget{}, unsupportedTarget(cmd, s)
	}
	return targetFromPick(p, shapes)
}

// targetFromPick re-reads a stored pick against the current shapes.
func targetFromPick(p Pick, shapes Shapes) (cornerTarget, string) {
	s, ok := shapes.Lookup(p.ID)
	if !ok {
		return cornerTarget{}, message(errSelectionGone)
	}
	t := cornerTarget{Pick: p, shape: s}
	switch v := s.(type) {
	case shape.Line:
		t.seg = v.Segment()
	case shape.Polyline:
		if p.Segment < 0 || p.Segment >= v.SegmentCount() {
			return cornerTarget{}, "The polyline has changed."
		}
		t.seg = v.SegmentAt(p.Segment)
	case shape.Arc:
		if v.Radius < geom.Epsilon {
			return cornerTarget{}, message(geom.ErrNonPositiveRadius)
		}
		return t, ""
	default:
		return cornerTarget{}, fmt.Sprintf("Cannot use %s here.", withArticle(s.Kind()))
	}
	if t.seg.Len() < geom.Epsilon {
		return cornerTarget{}, message(geom.ErrZeroLength)
	}
	return t, ""
}

// applyCut builds the diff for a computed cut. With trim unset only the
// bridge is added.
func applyCut(cmd CommandID, t1, t2 cornerTarget, cut cornerCut, trim bool, ids IDGenerator) (Diff, string, bool) {
	var diff Diff
	addBridge := func() {
		b := shape.WithID(cut.bridge, ids.NewID())
		diff.Add = append(diff.Add, withStyle(b, t1.shape.Base().Style))
	}
	if t1.ID == t2.ID {
		pl, ok := t1.shape.(shape.Polyline)
		if !ok {
			return Diff{}, fmt.Sprintf("Cannot %s an object with itself.", verb(cmd)), false
		}
		k, first, ok := sharedVertex(pl, t1.Segment, t2.Segment)
		if !ok {
			return Diff{}, "The segments are not adjacent.", false
		}
		if cut.bridge == nil {
			return Diff{}, "The segments already meet at a vertex.", true
		}
		if !trim {
			addBridge()
			return diff, "", true
		}
		// the bridge becomes polyline vertices instead of a separate object
		path := cut.path
		if !first {
			path = reversed(path)
		}
		pts := make([]geom.Point, 0, len(pl.Points)+len(path))
		pts = append(pts, pl.Points[:k]...)
		pts = append(pts, path...)
		pts = append(pts, pl.Points[k+1:]...)
		diff.Update = []shape.Update{{ID: pl.ID, Patch: shape.Patch{Points: pts}}}
		return diff, "", true
	}
	if !trim {
		if cut.bridge == nil {
			return Diff{}, "Nothing to do without trimming.", true
		}
		addBridge()
		return diff, "", true
	}
	for _, e := range []struct {
		t    cornerTarget
		end  geom.End
		move geom.Point
	}{{t1, cut.trim1, cut.p1}, {t2, cut.trim2, cut.p2}} {
		u, msg := trimTarget(cmd, e.t, e.end, e.move)
		if msg != "" {
			return Diff{}, msg, false
		}
		diff.Update = append(diff.Update, u)
	}
	if cut.bridge != nil {
		addBridge()
	}
	return diff, "", true
}

func trimTarget(cmd CommandID, t cornerTarget, end geom.End, to geom.Point) (shape.Update, string) {
	switch v := t.shape.(type) {
	case shape.Line:
		p := shape.Patch{Start: shape.Ptr(to)}
		if end == geom.EndEnd {
			p = shape.Patch{End: shape.Ptr(to)}
		}
		return shape.Update{ID: v.ID, Patch: p}, ""
	case shape.Polyline:
		last := len(v.Points) - 1
		var k int
		switch {
		case v.Closed && len(v.Points) > 2:
			k = -1
		case t.Segment == 0 && end == geom.StartEnd:
			k = 0
		case t.Segment == v.SegmentCount()-1 && end == geom.EndEnd:
			k = last
		default:
			k = -1
		}
		if k < 0 {
			return shape.Update{}, fmt.Sprintf("Only an end segment of an open polyline can be %s to another object.", pastTense(cmd))
		}
		pts := append([]geom.Point(nil), v.Points...)
		pts[k] = to
		return shape.Update{ID: v.ID, Patch: shape.Patch{Points: pts}}, ""
	case shape.Arc:
		a := to.Sub(v.Center).Angle()
		if end == geom.EndEnd {
			return shape.Update{ID: v.ID, Patch: shape.Patch{EndAngle: shape.Ptr(a)}}, ""
		}
		return shape.Update{ID: v.ID, Patch: shape.Patch{StartAngle: shape.Ptr(a)}}, ""
	}
	return shape.Update{}, fmt.Sprintf("Cannot use %s here.", withArticle(t.shape.Kind()))
}

// sharedVertex finds the vertex joining segments i and j of pl. first
// reports whether segment i comes before the vertex in point order.
func sharedVertex(pl shape.Polyline, i, j int) (k int, first bool, ok bool) {
	n := pl.SegmentCount()
	if i == j || n < 2 {
		return 0, false, false
	}
	closed := pl.Closed && len(pl.Points) > 2
	switch {
	case j == i+1 || (closed && i == n-1 && j == 0):
		return (i + 1) % len(pl.Points), true, true
	case i == j+1 || (closed && j == n-1 && i == 0):
		return (j + 1) % len(pl.Points), false, true
	}
	return 0, false, false
}

// arcPath samples a fillet arc from p1 to p2.
func arcPath(r geom.FilletResult) []geom.Point {
	sweep := geom.NormalizeAngle(r.EndAngle - r.StartAngle)
	steps := max(2, int(math.Ceil(sweep/arcStep)))
	pts := make([]geom.Point, steps+1)
	for i := range pts {
		pts[i] = r.Center.Polar(r.Radius, r.StartAngle+sweep*float64(i)/float64(steps))
	}
	if pts[0].Dist(r.Tangent1) > pts[steps].Dist(r.Tangent1) {
		pts = reversed(pts)
	}
	pts[0], pts[steps] = r.Tangent1, r.Tangent2
	return pts
}

func reversed(in []geom.Point) []geom.Point {
	out := make([]geom.Point, len(in))
	for i, p := range in {
		out[len(in)-1-i] = p
	}
	return out
}

func withStyle(s shape.Shape, st shape.Style) shape.Shape {
	switch v := s.(type) {
	case shape.Line:
		v.Style = st
		return v
	case shape.Arc:
		v.Style = st
		return v
	}
	return s
}

func unsupportedTarget(cmd CommandID, s shape.Shape) string {
	kinds := "lines or polylines"
	if cmd == CmdFillet {
		kinds = "lines, arcs or polylines"
	}
	return fmt.Sprintf("%s requires %s, not %s.", cmd, kinds, withArticle(s.Kind()))
}

func withArticle(k shape.Kind) string {
	if strings.ContainsAny(string(k[:1]), "aeiou") {
		return "an " + string(k)
	}
	return "a " + string(k)
}

func verb(cmd CommandID) string {
	if cmd == CmdChamfer {
		return "chamfer"
	}
	return "fillet"
}

func pastTense(cmd CommandID) string { return verb(cmd) + "ed" }

// cornerPreview computes the bridge shape for the object under the cursor,
// when the shapes support hit-testing.
func cornerPreview(cmd CommandID, first Pick, cursor geom.Point, shapes Shapes, tol float64, cut func(t1, t2 cornerTarget) (cornerCut, error)) []shape.Shape {
	if _, ok := shapes.(Picker); !ok {
		return nil
	}
	t1, msg := targetFromPick(first, shapes)
	if msg != "" {
		return nil
	}
	t2, msg := resolveTarget(cmd, Select{Pick: &cursor}, shapes, tol)
	if msg != "" {
		return nil
	}
	c, err := cut(t1, t2)
	if err != nil || c.bridge == nil {
		return nil
	}
	return []shape.Shape{c.bridge}
}
