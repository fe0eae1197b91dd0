package shape

import (
	"math"

	"github.com/joeycumines/one-shot-cad/internal/geom"
)

// ellipseSamples is the number of chords used to approximate an ellipse when
// measuring distance to it.
const ellipseSamples = 96

// Distance returns the distance from p to the outline of s. It is used to
// resolve pick points into selections.
func Distance(s Shape, p geom.Point) float64 {
	switch v := s.(type) {
	case Line:
		return geom.PointSegmentDistance(p, v.Segment())
	case Rectangle:
		c := v.Corners()
		return minSegmentDistance(p, c[:], true)
	case Circle:
		return geom.CircleDistance(p, v.Center, v.Radius)
	case Arc:
		if geom.AngleInSweep(p.Sub(v.Center).Angle(), v.StartAngle, v.EndAngle) {
			return geom.CircleDistance(p, v.Center, v.Radius)
		}
		return math.Min(p.Dist(v.StartPoint()), p.Dist(v.EndPoint()))
	case Ellipse:
		pts := make([]geom.Point, ellipseSamples)
		for i := range pts {
			t := 2 * math.Pi * float64(i) / ellipseSamples
			local := geom.Pt(v.RadiusX*math.Cos(t), v.RadiusY*math.Sin(t))
			pts[i] = geom.Rotate(v.Center.Add(local), v.Center, v.Rotation)
		}
		return minSegmentDistance(p, pts, true)
	case Polyline:
		if len(v.Points) == 1 {
			return p.Dist(v.Points[0])
		}
		return minSegmentDistance(p, v.Points, v.Closed)
	case Other:
		d := math.Inf(1)
		for _, q := range v.Points {
			d = math.Min(d, p.Dist(q))
		}
		return d
	}
	return math.Inf(1)
}

// NearestSegment returns the index of the polyline segment closest to p, or
// -1 when the polyline has no segments.
func NearestSegment(pl Polyline, p geom.Point) int {
	best, bestDist := -1, math.Inf(1)
	for i := 0; i < pl.SegmentCount(); i++ {
		if d := geom.PointSegmentDistance(p, pl.SegmentAt(i)); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func minSegmentDistance(p geom.Point, pts []geom.Point, closed bool) float64 {
	d := math.Inf(1)
	for i := 0; i+1 < len(pts); i++ {
		d = math.Min(d, geom.PointSegmentDistance(p, geom.Seg(pts[i], pts[i+1])))
	}
	if closed && len(pts) > 2 {
		d = math.Min(d, geom.PointSegmentDistance(p, geom.Seg(pts[len(pts)-1], pts[0])))
	}
	return d
}
