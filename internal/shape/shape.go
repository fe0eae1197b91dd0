// Package shape defines the drawing entities the modify commands operate on.
//
// Shape is a closed sum type: the unexported seal method means only the
// variants declared here implement it, and every transform in this package
// is an exhaustive type switch over them. Adding a kind means extending the
// switches in transform.go, patch.go, hit.go and record.go.
//
// Shapes are values. Commands never mutate a shape in place; they produce a
// new value, or a Patch describing the changed fields, for the store to apply.
package shape

import (
	"fmt"

	"github.com/joeycumines/one-shot-cad/internal/geom"
)

// ID identifies a shape for its whole lifetime. IDs are never reused.
type ID string

// Kind is the variant tag of a shape.
type Kind string

const (
	KindLine      Kind = "line"
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindArc       Kind = "arc"
	KindEllipse   Kind = "ellipse"
	KindPolyline  Kind = "polyline"
	KindOther     Kind = "other"
)

// Style is the presentation record carried with a shape. The engine copies it
// onto derived shapes and never interprets it.
type Style struct {
	Stroke string  `json:"stroke,omitempty" yaml:"stroke,omitempty"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Dash   string  `json:"dash,omitempty" yaml:"dash,omitempty"`
	Layer  string  `json:"layer,omitempty" yaml:"layer,omitempty"`
}

// Meta holds the non-geometric fields shared by every variant.
type Meta struct {
	ID     ID
	Style  Style
	Hidden bool
	Locked bool
}

// Base returns the shared fields. Promoted to every variant.
func (m Meta) Base() Meta { return m }

// Shape is implemented by Line, Rectangle, Circle, Arc, Ellipse, Polyline and
// Other.
type Shape interface {
	Kind() Kind
	Base() Meta
	sealed()
}

type Line struct {
	Meta
	Start, End geom.Point
}

// Rectangle is anchored at Corner, extends Width along the direction
// Rotation (radians) and Height perpendicular to it.
type Rectangle struct {
	Meta
	Corner        geom.Point
	Width, Height float64
	Rotation      float64
}

type Circle struct {
	Meta
	Center geom.Point
	Radius float64
}

// Arc sweeps counter-clockwise from StartAngle to EndAngle (radians).
type Arc struct {
	Meta
	Center               geom.Point
	Radius               float64
	StartAngle, EndAngle float64
}

type Ellipse struct {
	Meta
	Center           geom.Point
	RadiusX, RadiusY float64
	Rotation         float64
}

type Polyline struct {
	Meta
	Points []geom.Point
	Closed bool
}

// Other is any entity the engine has no dedicated geometry for (text,
// dimensions, hatches, ...). Only its defining points take part in
// transforms; Type preserves the original tag.
type Other struct {
	Meta
	Type   string
	Points []geom.Point
}

func (Line) Kind() Kind      { return KindLine }
func (Rectangle) Kind() Kind { return KindRectangle }
func (Circle) Kind() Kind    { return KindCircle }
func (Arc) Kind() Kind       { return KindArc }
func (Ellipse) Kind() Kind   { return KindEllipse }
func (Polyline) Kind() Kind  { return KindPolyline }
func (Other) Kind() Kind     { return KindOther }

func (Line) sealed()      {}
func (Rectangle) sealed() {}
func (Circle) sealed()    {}
func (Arc) sealed()       {}
func (Ellipse) sealed()   {}
func (Polyline) sealed()  {}
func (Other) sealed()     {}

// Segment returns the line as a geom.Segment.
func (l Line) Segment() geom.Segment { return geom.Seg(l.Start, l.End) }

// Corners returns the four corners of the rectangle, counter-clockwise from
// Corner for positive extents.
func (r Rectangle) Corners() [4]geom.Point {
	return [4]geom.Point{
		r.Corner,
		geom.Rotate(r.Corner.Add(geom.Pt(r.Width, 0)), r.Corner, r.Rotation),
		geom.Rotate(r.Corner.Add(geom.Pt(r.Width, r.Height)), r.Corner, r.Rotation),
		geom.Rotate(r.Corner.Add(geom.Pt(0, r.Height)), r.Corner, r.Rotation),
	}
}

// PointAt returns the point on the arc at angle a.
func (a Arc) PointAt(angle float64) geom.Point { return a.Center.Polar(a.Radius, angle) }

// StartPoint and EndPoint are the arc's endpoints.
func (a Arc) StartPoint() geom.Point { return a.PointAt(a.StartAngle) }
func (a Arc) EndPoint() geom.Point   { return a.PointAt(a.EndAngle) }

// SegmentCount is the number of straight segments in the polyline.
func (p Polyline) SegmentCount() int {
	n := len(p.Points)
	if n < 2 {
		return 0
	}
	if p.Closed && n > 2 {
		return n
	}
	return n - 1
}

// SegmentAt returns segment i, from vertex i to vertex i+1 (wrapping when
// closed).
func (p Polyline) SegmentAt(i int) geom.Segment {
	return geom.Seg(p.Points[i], p.Points[(i+1)%len(p.Points)])
}

// WithID returns a copy of s carrying a new identifier. Used when a command
// derives a new shape (copy, mirror, offset) from an existing one.
func WithID(s Shape, id ID) Shape {
	switch v := s.(type) {
	case Line:
		v.ID = id
		return v
	case Rectangle:
		v.ID = id
		return v
	case Circle:
		v.ID = id
		return v
	case Arc:
		v.ID = id
		return v
	case Ellipse:
		v.ID = id
		return v
	case Polyline:
		v.Points = clonePoints(v.Points)
		v.ID = id
		return v
	case Other:
		v.Points = clonePoints(v.Points)
		v.ID = id
		return v
	}
	panic(fmt.Sprintf("shape: unhandled kind %T", s))
}

// Describe is a one-line human readable summary, used by listings and log
// attributes.
func Describe(s Shape) string {
	switch v := s.(type) {
	case Line:
		return fmt.Sprintf("line %s %s", v.Start, v.End)
	case Rectangle:
		return fmt.Sprintf("rectangle %s w=%s h=%s rot=%s", v.Corner, geom.FormatNumber(v.Width), geom.FormatNumber(v.Height), geom.FormatNumber(geom.Degrees(v.Rotation)))
	case Circle:
		return fmt.Sprintf("circle %s r=%s", v.Center, geom.FormatNumber(v.Radius))
	case Arc:
		return fmt.Sprintf("arc %s r=%s %s..%s", v.Center, geom.FormatNumber(v.Radius), geom.FormatNumber(geom.Degrees(v.StartAngle)), geom.FormatNumber(geom.Degrees(v.EndAngle)))
	case Ellipse:
		return fmt.Sprintf("ellipse %s rx=%s ry=%s rot=%s", v.Center, geom.FormatNumber(v.RadiusX), geom.FormatNumber(v.RadiusY), geom.FormatNumber(geom.Degrees(v.Rotation)))
	case Polyline:
		kind := "polyline"
		if v.Closed {
			kind = "closed polyline"
		}
		return fmt.Sprintf("%s (%d points)", kind, len(v.Points))
	case Other:
		return fmt.Sprintf("%s (%d points)", v.Type, len(v.Points))
	}
	return fmt.Sprintf("%T", s)
}

func clonePoints(p []geom.Point) []geom.Point {
	if p == nil {
		return nil
	}
	out := make([]geom.Point, len(p))
	copy(out, p)
	return out
}
