// Package geom is the geometry kernel used by the modify commands: point and
// vector arithmetic, line intersection, fillet and chamfer construction,
// offset side resolution, and the reflect/rotate/scale transforms.
//
// Everything here is a pure function of its arguments. Degenerate
// configurations (parallel lines, zero-length vectors, non-positive radii)
// are reported as sentinel errors, never panics.
package geom

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is the tolerance used for degeneracy checks (determinants, vector
// lengths, half angles). It is a kernel parameter, not a behavioral contract.
const Epsilon = 1e-10

var (
	// ErrParallel is returned when two lines have no unique intersection.
	ErrParallel = errors.New("lines are parallel")
	// ErrZeroLength is returned when a direction vector has no length.
	ErrZeroLength = errors.New("zero-length vector")
	// ErrNonPositiveRadius is returned when a construction would produce a
	// circle or arc with radius <= 0.
	ErrNonPositiveRadius = errors.New("resulting radius is not positive")
	// ErrNegative is returned for negative radii or distances.
	ErrNegative = errors.New("value must not be negative")
)

// Point is a 2D point or vector in world coordinates (y up).
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }
func (p Point) Dot(q Point) float64   { return p.X*q.X + p.Y*q.Y }
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }
func (p Point) Len() float64          { return math.Hypot(p.X, p.Y) }
func (p Point) Dist(q Point) float64  { return p.Sub(q).Len() }
func (p Point) Perp() Point           { return Point{-p.Y, p.X} }
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Angle returns the direction of p as a vector, atan2(y, x).
func (p Point) Angle() float64 { return math.Atan2(p.Y, p.X) }

// Unit returns p scaled to length 1, or ErrZeroLength.
func (p Point) Unit() (Point, error) {
	l := p.Len()
	if l < Epsilon {
		return Point{}, ErrZeroLength
	}
	return Point{p.X / l, p.Y / l}, nil
}

// Near reports whether p and q are within tol of each other on both axes.
func (p Point) Near(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// String formats the point the way the command line accepts it back.
func (p Point) String() string {
	return fmt.Sprintf("%s,%s", FormatNumber(p.X), FormatNumber(p.Y))
}

// Polar returns the point at distance d and angle a (radians) from p.
func (p Point) Polar(d, a float64) Point {
	return Point{p.X + d*math.Cos(a), p.Y + d*math.Sin(a)}
}

// FormatNumber prints v with up to four decimals, trimming trailing zeros.
func FormatNumber(v float64) string {
	if math.Abs(v) < 5e-5 {
		v = 0
	}
	s := fmt.Sprintf("%.4f", v)
	for len(s) > 1 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
