package geom

import "math"

// NormalizeAngle maps a into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Reflect mirrors p across the infinite line through a and b: p is projected
// onto the line and the result is 2*projection - p.
func Reflect(p, a, b Point) (Point, error) {
	u, err := b.Sub(a).Unit()
	if err != nil {
		return Point{}, err
	}
	proj := a.Add(u.Scale(p.Sub(a).Dot(u)))
	return proj.Scale(2).Sub(p), nil
}

// ReflectAngle mirrors a direction angle across a line whose direction angle
// is axis.
func ReflectAngle(theta, axis float64) float64 {
	return 2*axis - theta
}

// Rotate turns p about center by angle radians, counter-clockwise.
func Rotate(p, center Point, angle float64) Point {
	sin, cos := math.Sincos(angle)
	d := p.Sub(center)
	return Point{
		X: center.X + d.X*cos - d.Y*sin,
		Y: center.Y + d.X*sin + d.Y*cos,
	}
}

// ScaleAbout scales p uniformly by f from center.
func ScaleAbout(p, center Point, f float64) Point {
	return center.Add(p.Sub(center).Scale(f))
}

// OffsetSide classifies pick against the directed line s: +1 when the 2D
// cross product of the line direction with (pick - start) is >= 0, else -1.
func OffsetSide(s Segment, pick Point) float64 {
	if s.Vector().Cross(pick.Sub(s.Start)) >= 0 {
		return 1
	}
	return -1
}

// OffsetSegment moves s along its unit normal (-dy, dx)/len by dist*side.
func OffsetSegment(s Segment, dist, side float64) (Segment, error) {
	u, err := s.Vector().Unit()
	if err != nil {
		return Segment{}, err
	}
	n := u.Perp().Scale(dist * side)
	return Segment{Start: s.Start.Add(n), End: s.End.Add(n)}, nil
}

// CircleSide is +1 when pick lies outside the circle, -1 otherwise.
func CircleSide(center Point, radius float64, pick Point) float64 {
	if pick.Dist(center) > radius {
		return 1
	}
	return -1
}

// OffsetRadius returns radius + dist*side, failing when the result is not
// positive.
func OffsetRadius(radius, dist, side float64) (float64, error) {
	r := radius + dist*side
	if r <= Epsilon {
		return 0, ErrNonPositiveRadius
	}
	return r, nil
}

// CircleDistance is the distance from p to the circumference of a circle.
func CircleDistance(p, center Point, radius float64) float64 {
	return math.Abs(p.Dist(center) - radius)
}

// AngleInSweep reports whether angle a lies on the counter-clockwise sweep
// from start to end.
func AngleInSweep(a, start, end float64) bool {
	sweep := NormalizeAngle(end - start)
	if sweep < Epsilon {
		sweep = 2 * math.Pi
	}
	return NormalizeAngle(a-start) <= sweep+Epsilon
}
