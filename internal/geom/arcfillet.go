package geom

import (
	"errors"
	"math"
)

// ErrNoFillet is returned when no circle of the requested radius touches
// both objects.
var ErrNoFillet = errors.New("no fillet of that radius fits between the objects")

// FilletLineArc constructs a fillet of the given radius between the line l
// and the arc of radius arcRadius about center, sweeping counter-clockwise
// from start to end.
//
// The result is a FilletResult in which the second object is the arc:
// Tangent2 is the point on the arc circle the arc is trimmed or extended to,
// and Trim2 names the arc angle that moves there (StartEnd for the start
// angle, EndEnd for the end angle).
//
// The fillet sits on the side of the line holding pickArc, outside the arc
// circle when pickLine is outside it and inside otherwise. Of the candidate
// centres, the one nearest the two picks wins.
func FilletLineArc(l Segment, center Point, arcRadius, start, end, radius float64, pickLine, pickArc Point) (FilletResult, error) {
	if radius < 0 {
		return FilletResult{}, ErrNegative
	}
	if arcRadius < Epsilon {
		return FilletResult{}, ErrNonPositiveRadius
	}
	dir, err := l.Vector().Unit()
	if err != nil {
		return FilletResult{}, err
	}
	nearPicks := func(p Point) float64 { return p.Dist(pickLine) + p.Dist(pickArc) }

	var res FilletResult
	if radius < Epsilon {
		ip, ok := nearestOf(lineCircle(l.Start, dir, center, arcRadius), nearPicks)
		if !ok {
			return FilletResult{}, ErrNoFillet
		}
		res.Corner = true
		res.Intersection = ip
		res.Tangent1, res.Tangent2 = ip, ip
	} else {
		normal := dir.Perp()
		side := sideOf(normal.Dot(pickArc.Sub(l.Start)))
		if side == 0 {
			side = sideOf(normal.Dot(center.Sub(l.Start)))
		}
		if side == 0 {
			side = 1
		}
		ring := arcRadius + radius
		if pickLine.Dist(center) < arcRadius {
			ring = arcRadius - radius
			if ring < Epsilon {
				return FilletResult{}, ErrNonPositiveRadius
			}
		}
		shift := normal.Scale(side * radius)
		c, ok := nearestOf(lineCircle(l.Start.Add(shift), dir, center, ring), nearPicks)
		if !ok {
			return FilletResult{}, ErrNoFillet
		}
		u, err := c.Sub(center).Unit()
		if err != nil {
			return FilletResult{}, err
		}
		res.Radius = radius
		res.Center = c
		res.Tangent1 = c.Sub(shift)
		res.Tangent2 = center.Add(u.Scale(arcRadius))
		res.Intersection = res.Tangent1

		a1 := res.Tangent1.Sub(c).Angle()
		a2 := res.Tangent2.Sub(c).Angle()
		if NormalizeAngle(a2-a1) <= math.Pi {
			res.StartAngle, res.EndAngle = a1, a2
		} else {
			res.StartAngle, res.EndAngle = a2, a1
		}
	}

	_, trim, err := keptSide(l, res.Tangent1, pickLine)
	if err != nil {
		return FilletResult{}, err
	}
	res.Trim1 = trim
	res.Trim2 = arcTrimEnd(res.Tangent2.Sub(center).Angle(), start, end, pickArc.Sub(center).Angle())
	return res, nil
}

// arcTrimEnd picks the arc end that moves to angle a. When a splits the
// sweep, the part holding the pick survives; otherwise the nearer end
// extends.
func arcTrimEnd(a, start, end, pick float64) End {
	if AngleInSweep(a, start, end) {
		if AngleInSweep(pick, start, a) {
			return EndEnd
		}
		return StartEnd
	}
	if NormalizeAngle(a-end) <= NormalizeAngle(start-a) {
		return EndEnd
	}
	return StartEnd
}

// lineCircle intersects the infinite line through origin along the unit
// vector dir with a circle.
func lineCircle(origin, dir, center Point, radius float64) []Point {
	w := origin.Sub(center)
	b := dir.Dot(w)
	disc := b*b - (w.Dot(w) - radius*radius)
	switch {
	case disc < -Epsilon:
		return nil
	case disc <= Epsilon:
		return []Point{origin.Add(dir.Scale(-b))}
	}
	root := math.Sqrt(disc)
	return []Point{origin.Add(dir.Scale(-b - root)), origin.Add(dir.Scale(-b + root))}
}

func nearestOf(pts []Point, cost func(Point) float64) (Point, bool) {
	if len(pts) == 0 {
		return Point{}, false
	}
	best := pts[0]
	for _, p := range pts[1:] {
		if cost(p) < cost(best) {
			best = p
		}
	}
	return best, true
}

func sideOf(v float64) float64 {
	switch {
	case v > Epsilon:
		return 1
	case v < -Epsilon:
		return -1
	}
	return 0
}
