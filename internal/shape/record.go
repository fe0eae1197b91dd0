package shape

import (
	"fmt"

	"github.com/joeycumines/one-shot-cad/internal/geom"
)

// Record is the flat, serializable form of a shape. Only the fields relevant
// to Type are populated; the rest are omitted on encode.
type Record struct {
	Type       string       `json:"type" yaml:"type"`
	ID         ID           `json:"id" yaml:"id"`
	OtherType  string       `json:"otherType,omitempty" yaml:"otherType,omitempty"`
	Start      *geom.Point  `json:"start,omitempty" yaml:"start,omitempty"`
	End        *geom.Point  `json:"end,omitempty" yaml:"end,omitempty"`
	Corner     *geom.Point  `json:"corner,omitempty" yaml:"corner,omitempty"`
	Center     *geom.Point  `json:"center,omitempty" yaml:"center,omitempty"`
	Width      float64      `json:"width,omitempty" yaml:"width,omitempty"`
	Height     float64      `json:"height,omitempty" yaml:"height,omitempty"`
	Rotation   float64      `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Radius     float64      `json:"radius,omitempty" yaml:"radius,omitempty"`
	RadiusX    float64      `json:"radiusX,omitempty" yaml:"radiusX,omitempty"`
	RadiusY    float64      `json:"radiusY,omitempty" yaml:"radiusY,omitempty"`
	StartAngle float64      `json:"startAngle,omitempty" yaml:"startAngle,omitempty"`
	EndAngle   float64      `json:"endAngle,omitempty" yaml:"endAngle,omitempty"`
	Points     []geom.Point `json:"points,omitempty" yaml:"points,omitempty"`
	Closed     bool         `json:"closed,omitempty" yaml:"closed,omitempty"`
	Style      *Style       `json:"style,omitempty" yaml:"style,omitempty"`
	Hidden     bool         `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Locked     bool         `json:"locked,omitempty" yaml:"locked,omitempty"`
}

// ToRecord flattens s.
func ToRecord(s Shape) Record {
	m := s.Base()
	r := Record{Type: string(s.Kind()), ID: m.ID, Hidden: m.Hidden, Locked: m.Locked}
	if m.Style != (Style{}) {
		st := m.Style
		r.Style = &st
	}
	switch v := s.(type) {
	case Line:
		r.Start, r.End = Ptr(v.Start), Ptr(v.End)
	case Rectangle:
		r.Corner = Ptr(v.Corner)
		r.Width, r.Height, r.Rotation = v.Width, v.Height, v.Rotation
	case Circle:
		r.Center = Ptr(v.Center)
		r.Radius = v.Radius
	case Arc:
		r.Center = Ptr(v.Center)
		r.Radius, r.StartAngle, r.EndAngle = v.Radius, v.StartAngle, v.EndAngle
	case Ellipse:
		r.Center = Ptr(v.Center)
		r.RadiusX, r.RadiusY, r.Rotation = v.RadiusX, v.RadiusY, v.Rotation
	case Polyline:
		r.Points = clonePoints(v.Points)
		r.Closed = v.Closed
	case Other:
		r.OtherType = v.Type
		r.Points = clonePoints(v.Points)
	}
	return r
}

// FromRecord rebuilds a shape. Records with a type this package does not
// model decode to Other, keeping the type string and any points. Missing
// required points are an error.
func FromRecord(r Record) (Shape, error) {
	if r.ID == "" {
		return nil, fmt.Errorf("shape record of type %q has no id", r.Type)
	}
	m := Meta{ID: r.ID, Hidden: r.Hidden, Locked: r.Locked}
	if r.Style != nil {
		m.Style = *r.Style
	}
	need := func(name string, p *geom.Point) (geom.Point, error) {
		if p == nil {
			return geom.Point{}, fmt.Errorf("shape %s (%s): missing %s", r.ID, r.Type, name)
		}
		return *p, nil
	}
	switch Kind(r.Type) {
	case KindLine:
		start, err := need("start", r.Start)
		if err != nil {
			return nil, err
		}
		end, err := need("end", r.End)
		if err != nil {
			return nil, err
		}
		return Line{Meta: m, Start: start, End: end}, nil
	case KindRectangle:
		corner, err := need("corner", r.Corner)
		if err != nil {
			return nil, err
		}
		return Rectangle{Meta: m, Corner: corner, Width: r.Width, Height: r.Height, Rotation: r.Rotation}, nil
	case KindCircle:
		center, err := need("center", r.Center)
		if err != nil {
			return nil, err
		}
		return Circle{Meta: m, Center: center, Radius: r.Radius}, nil
	case KindArc:
		center, err := need("center", r.Center)
		if err != nil {
			return nil, err
		}
		return Arc{Meta: m, Center: center, Radius: r.Radius, StartAngle: r.StartAngle, EndAngle: r.EndAngle}, nil
	case KindEllipse:
		center, err := need("center", r.Center)
		if err != nil {
			return nil, err
		}
		return Ellipse{Meta: m, Center: center, RadiusX: r.RadiusX, RadiusY: r.RadiusY, Rotation: r.Rotation}, nil
	case KindPolyline:
		return Polyline{Meta: m, Points: clonePoints(r.Points), Closed: r.Closed}, nil
	case KindOther:
		return Other{Meta: m, Type: r.OtherType, Points: clonePoints(r.Points)}, nil
	}
	pts := clonePoints(r.Points)
	for _, p := range []*geom.Point{r.Start, r.End, r.Corner, r.Center} {
		if p != nil {
			pts = append(pts, *p)
		}
	}
	return Other{Meta: m, Type: r.Type, Points: pts}, nil
}
