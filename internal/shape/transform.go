package shape

import (
	"errors"
	"fmt"
	"math"

	"github.com/joeycumines/one-shot-cad/internal/geom"
)

var (
	// ErrZeroScale is returned when a scale factor is zero.
	ErrZeroScale = errors.New("scale factor must be non-zero")
	// ErrUnsupported is returned when an operation has no meaning for a kind.
	ErrUnsupported = errors.New("operation not supported for this object type")
)

// Translate moves every defining point of s by d.
func Translate(s Shape, d geom.Point) Shape {
	return mapPoints(s, func(p geom.Point) geom.Point { return p.Add(d) })
}

// Rotate turns s about center by angle radians. Rectangles and ellipses add
// angle to their explicit rotation field rather than re-deriving it from the
// transformed points.
func Rotate(s Shape, center geom.Point, angle float64) Shape {
	out := mapPoints(s, func(p geom.Point) geom.Point { return geom.Rotate(p, center, angle) })
	switch v := out.(type) {
	case Rectangle:
		v.Rotation += angle
		return v
	case Ellipse:
		v.Rotation += angle
		return v
	case Arc:
		v.StartAngle += angle
		v.EndAngle += angle
		return v
	}
	return out
}

// Scale scales s uniformly by f about center. Radii and extents scale by |f|;
// a negative factor is a point reflection through center, which shows up as
// an extra half turn on oriented kinds.
func Scale(s Shape, center geom.Point, f float64) (Shape, error) {
	if math.Abs(f) < geom.Epsilon {
		return nil, ErrZeroScale
	}
	out := mapPoints(s, func(p geom.Point) geom.Point { return geom.ScaleAbout(p, center, f) })
	af := math.Abs(f)
	var turn float64
	if f < 0 {
		turn = math.Pi
	}
	switch v := out.(type) {
	case Rectangle:
		v.Width *= af
		v.Height *= af
		v.Rotation += turn
		return v, nil
	case Circle:
		v.Radius *= af
		return v, nil
	case Arc:
		v.Radius *= af
		v.StartAngle += turn
		v.EndAngle += turn
		return v, nil
	case Ellipse:
		v.RadiusX *= af
		v.RadiusY *= af
		v.Rotation += turn
		return v, nil
	}
	return out, nil
}

// Mirror reflects s across the infinite line through a and b.
//
// Reflection reverses angular sweep, so an arc's new start is the reflection
// of its old end and vice versa. Rectangles are re-anchored on the reflected
// opposite corner so that Width and Height stay positive.
func Mirror(s Shape, a, b geom.Point) (Shape, error) {
	if _, err := b.Sub(a).Unit(); err != nil {
		return nil, err
	}
	axis := b.Sub(a).Angle()
	reflect := func(p geom.Point) geom.Point {
		q, _ := geom.Reflect(p, a, b)
		return q
	}
	switch v := s.(type) {
	case Rectangle:
		v.Corner = reflect(v.Corners()[3])
		v.Rotation = geom.ReflectAngle(v.Rotation, axis)
		return v, nil
	case Arc:
		v.Center = reflect(v.Center)
		v.StartAngle, v.EndAngle = geom.ReflectAngle(v.EndAngle, axis), geom.ReflectAngle(v.StartAngle, axis)
		return v, nil
	case Ellipse:
		v.Center = reflect(v.Center)
		v.Rotation = geom.ReflectAngle(v.Rotation, axis)
		return v, nil
	}
	return mapPoints(s, reflect), nil
}

// Offsettable reports whether Offset supports the kind of s.
func Offsettable(s Shape) bool {
	switch s.(type) {
	case Line, Circle, Arc:
		return true
	}
	return false
}

// Offset returns a copy of s moved dist toward the side of pick. Lines move
// along their normal; circles and arcs change radius.
func Offset(s Shape, dist float64, pick geom.Point) (Shape, error) {
	if dist <= 0 {
		return nil, fmt.Errorf("offset distance must be positive: %w", geom.ErrNegative)
	}
	switch v := s.(type) {
	case Line:
		seg := v.Segment()
		out, err := geom.OffsetSegment(seg, dist, geom.OffsetSide(seg, pick))
		if err != nil {
			return nil, err
		}
		v.Start, v.End = out.Start, out.End
		return v, nil
	case Circle:
		r, err := geom.OffsetRadius(v.Radius, dist, geom.CircleSide(v.Center, v.Radius, pick))
		if err != nil {
			return nil, err
		}
		v.Radius = r
		return v, nil
	case Arc:
		r, err := geom.OffsetRadius(v.Radius, dist, geom.CircleSide(v.Center, v.Radius, pick))
		if err != nil {
			return nil, err
		}
		v.Radius = r
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, s.Kind())
}

// ThroughDistance is the offset distance that makes the offset copy of s pass
// through p.
func ThroughDistance(s Shape, p geom.Point) (float64, error) {
	switch v := s.(type) {
	case Line:
		if v.Segment().Len() < geom.Epsilon {
			return 0, geom.ErrZeroLength
		}
		return geom.PointSegmentDistance(p, v.Segment()), nil
	case Circle:
		return geom.CircleDistance(p, v.Center, v.Radius), nil
	case Arc:
		return geom.CircleDistance(p, v.Center, v.Radius), nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupported, s.Kind())
}

func mapPoints(s Shape, fn func(geom.Point) geom.Point) Shape {
	switch v := s.(type) {
	case Line:
		v.Start, v.End = fn(v.Start), fn(v.End)
		return v
	case Rectangle:
		v.Corner = fn(v.Corner)
		return v
	case Circle:
		v.Center = fn(v.Center)
		return v
	case Arc:
		v.Center = fn(v.Center)
		return v
	case Ellipse:
		v.Center = fn(v.Center)
		return v
	case Polyline:
		v.Points = mapSlice(v.Points, fn)
		return v
	case Other:
		v.Points = mapSlice(v.Points, fn)
		return v
	}
	panic(fmt.Sprintf("shape: unhandled kind %T", s))
}

func mapSlice(in []geom.Point, fn func(geom.Point) geom.Point) []geom.Point {
	if in == nil {
		return nil
	}
	out := make([]geom.Point, len(in))
	for i, p := range in {
		out[i] = fn(p)
	}
	return out
}
