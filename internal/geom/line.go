package geom

import "math"

// End names one endpoint of a segment.
type End int

const (
	StartEnd End = iota
	EndEnd
)

func (e End) String() string {
	if e == EndEnd {
		return "end"
	}
	return "start"
}

// Other returns the opposite endpoint.
func (e End) Other() End {
	if e == StartEnd {
		return EndEnd
	}
	return StartEnd
}

// Segment is a directed line segment.
type Segment struct {
	Start, End Point
}

// Seg is shorthand for Segment{Start: a, End: b}.
func Seg(a, b Point) Segment { return Segment{Start: a, End: b} }

// Vector returns End - Start.
func (s Segment) Vector() Point { return s.End.Sub(s.Start) }

// Len returns the segment length.
func (s Segment) Len() float64 { return s.Vector().Len() }

// Point returns the requested endpoint.
func (s Segment) Point(e End) Point {
	if e == EndEnd {
		return s.End
	}
	return s.Start
}

// With returns a copy of s with endpoint e moved to p.
func (s Segment) With(e End, p Point) Segment {
	if e == EndEnd {
		s.End = p
	} else {
		s.Start = p
	}
	return s
}

// LineIntersection intersects the infinite lines through a1-a2 and b1-b2.
// The returned point may lie outside either segment. ok is false when the
// lines are parallel or collinear.
func LineIntersection(a1, a2, b1, b2 Point) (p Point, ok bool) {
	d1 := a2.Sub(a1)
	d2 := b2.Sub(b1)
	det := d1.Cross(d2)
	if math.Abs(det) < Epsilon {
		return Point{}, false
	}
	t := b1.Sub(a1).Cross(d2) / det
	return a1.Add(d1.Scale(t)), true
}

// Intersect is LineIntersection over two segments.
func Intersect(a, b Segment) (Point, bool) {
	return LineIntersection(a.Start, a.End, b.Start, b.End)
}

// CloserEnd returns whichever endpoint of the segment start-end is nearer to
// ref. Ties resolve to StartEnd.
func CloserEnd(start, end, ref Point) End {
	if ref.Dist(end) < ref.Dist(start) {
		return EndEnd
	}
	return StartEnd
}

// ProjectParam returns the parameter t of the projection of p onto the line
// through s, where t=0 is Start and t=1 is End. Zero-length segments give 0.
func ProjectParam(s Segment, p Point) float64 {
	d := s.Vector()
	l2 := d.Dot(d)
	if l2 < Epsilon*Epsilon {
		return 0
	}
	return p.Sub(s.Start).Dot(d) / l2
}

// PointSegmentDistance is the distance from p to the closest point of s,
// with the projection parameter clamped to the segment.
func PointSegmentDistance(p Point, s Segment) float64 {
	t := math.Max(0, math.Min(1, ProjectParam(s, p)))
	return p.Dist(s.Start.Lerp(s.End, t))
}

// PointLineDistance is the perpendicular distance from p to the infinite line
// through s.
func PointLineDistance(p Point, s Segment) float64 {
	return p.Dist(s.Start.Lerp(s.End, ProjectParam(s, p)))
}
