package geom

import "math"

// FilletResult describes a fillet between two lines.
//
// When Corner is set the radius was zero: no arc exists and both trimmed ends
// move onto Intersection. Otherwise Center/Radius/StartAngle/EndAngle describe
// a counter-clockwise arc from Tangent-at-StartAngle to Tangent-at-EndAngle,
// and Tangent1/Tangent2 are the points the trimmed ends of the first and
// second line move to.
type FilletResult struct {
	Corner       bool
	Intersection Point
	Center       Point
	Radius       float64
	StartAngle   float64
	EndAngle     float64
	Tangent1     Point
	Tangent2     Point
	Trim1        End
	Trim2        End
}

// ChamferResult describes a chamfer between two lines. P1 and P2 are the
// chamfer points on the first and second line; when Corner is set both equal
// Intersection and no chamfer segment should be created.
type ChamferResult struct {
	Corner       bool
	Intersection Point
	P1, P2       Point
	Trim1, Trim2 End
}

// keptSide works out, for one picked line meeting the corner point, the unit
// direction from the corner toward the part of the line that survives, and
// the endpoint that gets trimmed or extended onto the corner.
//
// The trimmed end is the end closer to the corner. If the corner lies
// strictly inside the segment (crossing lines) the pick point chooses the
// surviving side instead.
func keptSide(s Segment, corner, pick Point) (Point, End, error) {
	const inside = 1e-9
	trim := CloserEnd(s.Start, s.End, corner)
	if t := ProjectParam(s, corner); t > inside && t < 1-inside {
		switch tp := ProjectParam(s, pick); {
		case tp > t:
			trim = StartEnd
		case tp < t:
			trim = EndEnd
		}
	}
	dir, err := s.Point(trim.Other()).Sub(corner).Unit()
	if err != nil {
		return Point{}, trim, err
	}
	return dir, trim, nil
}

// Fillet constructs a fillet of the given radius between the lines l1 and l2,
// using their extended intersection. pick1 and pick2 are the points the
// lines were selected with.
func Fillet(l1, l2 Segment, radius float64, pick1, pick2 Point) (FilletResult, error) {
	if radius < 0 {
		return FilletResult{}, ErrNegative
	}
	ip, ok := Intersect(l1, l2)
	if !ok {
		return FilletResult{}, ErrParallel
	}
	d1, trim1, err := keptSide(l1, ip, pick1)
	if err != nil {
		return FilletResult{}, err
	}
	d2, trim2, err := keptSide(l2, ip, pick2)
	if err != nil {
		return FilletResult{}, err
	}

	res := FilletResult{
		Intersection: ip,
		Trim1:        trim1,
		Trim2:        trim2,
	}
	if radius < Epsilon {
		res.Corner = true
		res.Tangent1 = ip
		res.Tangent2 = ip
		return res, nil
	}

	half := math.Acos(clamp(d1.Dot(d2), -1, 1)) / 2
	if math.Abs(half) < Epsilon || math.Abs(half-math.Pi/2) < Epsilon {
		return FilletResult{}, ErrParallel
	}
	bisector, err := d1.Add(d2).Unit()
	if err != nil {
		return FilletResult{}, ErrParallel
	}

	centerDist := radius / math.Sin(half)
	tangentDist := radius / math.Tan(half)

	res.Radius = radius
	res.Center = ip.Add(bisector.Scale(centerDist))
	res.Tangent1 = ip.Add(d1.Scale(tangentDist))
	res.Tangent2 = ip.Add(d2.Scale(tangentDist))

	a1 := res.Tangent1.Sub(res.Center).Angle()
	a2 := res.Tangent2.Sub(res.Center).Angle()
	if NormalizeAngle(a2-a1) <= math.Pi {
		res.StartAngle, res.EndAngle = a1, a2
	} else {
		res.StartAngle, res.EndAngle = a2, a1
	}
	return res, nil
}

// Chamfer constructs a chamfer between l1 and l2, cutting dist1 back from the
// intersection along l1 and dist2 along l2.
func Chamfer(l1, l2 Segment, dist1, dist2 float64, pick1, pick2 Point) (ChamferResult, error) {
	if dist1 < 0 || dist2 < 0 {
		return ChamferResult{}, ErrNegative
	}
	ip, ok := Intersect(l1, l2)
	if !ok {
		return ChamferResult{}, ErrParallel
	}
	d1, trim1, err := keptSide(l1, ip, pick1)
	if err != nil {
		return ChamferResult{}, err
	}
	d2, trim2, err := keptSide(l2, ip, pick2)
	if err != nil {
		return ChamferResult{}, err
	}
	res := ChamferResult{
		Intersection: ip,
		P1:           ip.Add(d1.Scale(dist1)),
		P2:           ip.Add(d2.Scale(dist2)),
		Trim1:        trim1,
		Trim2:        trim2,
	}
	if dist1 < Epsilon && dist2 < Epsilon {
		res.Corner = true
		res.P1, res.P2 = ip, ip
	}
	return res, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
