package shape

import (
	"errors"
	"fmt"

	"github.com/joeycumines/one-shot-cad/internal/geom"
)

// ErrFieldMismatch is returned by Apply when a patch sets a field the target
// variant does not have.
var ErrFieldMismatch = errors.New("patch field does not apply to shape kind")

// Patch is a partial update of a shape's geometry. Nil fields are left
// unchanged. Which fields are legal depends on the target kind:
//
//	line       Start End
//	rectangle  Corner Width Height Rotation
//	circle     Center Radius
//	arc        Center Radius StartAngle EndAngle
//	ellipse    Center RadiusX RadiusY Rotation
//	polyline   Points Closed
//	other      Points
type Patch struct {
	Start      *geom.Point  `json:"start,omitempty" yaml:"start,omitempty"`
	End        *geom.Point  `json:"end,omitempty" yaml:"end,omitempty"`
	Corner     *geom.Point  `json:"corner,omitempty" yaml:"corner,omitempty"`
	Center     *geom.Point  `json:"center,omitempty" yaml:"center,omitempty"`
	Width      *float64     `json:"width,omitempty" yaml:"width,omitempty"`
	Height     *float64     `json:"height,omitempty" yaml:"height,omitempty"`
	Rotation   *float64     `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Radius     *float64     `json:"radius,omitempty" yaml:"radius,omitempty"`
	RadiusX    *float64     `json:"radiusX,omitempty" yaml:"radiusX,omitempty"`
	RadiusY    *float64     `json:"radiusY,omitempty" yaml:"radiusY,omitempty"`
	StartAngle *float64     `json:"startAngle,omitempty" yaml:"startAngle,omitempty"`
	EndAngle   *float64     `json:"endAngle,omitempty" yaml:"endAngle,omitempty"`
	Points     []geom.Point `json:"points,omitempty" yaml:"points,omitempty"`
	Closed     *bool        `json:"closed,omitempty" yaml:"closed,omitempty"`
}

// Update pairs a shape identifier with the fields to change.
type Update struct {
	ID    ID
	Patch Patch
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.Start == nil && p.End == nil && p.Corner == nil && p.Center == nil &&
		p.Width == nil && p.Height == nil && p.Rotation == nil && p.Radius == nil &&
		p.RadiusX == nil && p.RadiusY == nil && p.StartAngle == nil &&
		p.EndAngle == nil && p.Points == nil && p.Closed == nil
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T { return &v }

// Apply returns s with the patch applied. The input value is not modified.
func Apply(s Shape, p Patch) (Shape, error) {
	mismatch := func(field string) error {
		return fmt.Errorf("%w: %s has no %s", ErrFieldMismatch, s.Kind(), field)
	}
	switch v := s.(type) {
	case Line:
		if err := forbid(mismatch, p, "corner", "center", "width", "height", "rotation", "radius", "radiusX", "radiusY", "startAngle", "endAngle", "points", "closed"); err != nil {
			return nil, err
		}
		setPoint(&v.Start, p.Start)
		setPoint(&v.End, p.End)
		return v, nil
	case Rectangle:
		if err := forbid(mismatch, p, "start", "end", "center", "radius", "radiusX", "radiusY", "startAngle", "endAngle", "points", "closed"); err != nil {
			return nil, err
		}
		setPoint(&v.Corner, p.Corner)
		setFloat(&v.Width, p.Width)
		setFloat(&v.Height, p.Height)
		setFloat(&v.Rotation, p.Rotation)
		return v, nil
	case Circle:
		if err := forbid(mismatch, p, "start", "end", "corner", "width", "height", "rotation", "radiusX", "radiusY", "startAngle", "endAngle", "points", "closed"); err != nil {
			return nil, err
		}
		setPoint(&v.Center, p.Center)
		setFloat(&v.Radius, p.Radius)
		return v, nil
	case Arc:
		if err := forbid(mismatch, p, "start", "end", "corner", "width", "height", "rotation", "radiusX", "radiusY", "points", "closed"); err != nil {
			return nil, err
		}
		setPoint(&v.Center, p.Center)
		setFloat(&v.Radius, p.Radius)
		setFloat(&v.StartAngle, p.StartAngle)
		setFloat(&v.EndAngle, p.EndAngle)
		return v, nil
	case Ellipse:
		if err := forbid(mismatch, p, "start", "end", "corner", "width", "height", "radius", "startAngle", "endAngle", "points", "closed"); err != nil {
			return nil, err
		}
		setPoint(&v.Center, p.Center)
		setFloat(&v.RadiusX, p.RadiusX)
		setFloat(&v.RadiusY, p.RadiusY)
		setFloat(&v.Rotation, p.Rotation)
		return v, nil
	case Polyline:
		if err := forbid(mismatch, p, "start", "end", "corner", "center", "width", "height", "rotation", "radius", "radiusX", "radiusY", "startAngle", "endAngle"); err != nil {
			return nil, err
		}
		if p.Points != nil {
			v.Points = clonePoints(p.Points)
		}
		if p.Closed != nil {
			v.Closed = *p.Closed
		}
		return v, nil
	case Other:
		if err := forbid(mismatch, p, "start", "end", "corner", "center", "width", "height", "rotation", "radius", "radiusX", "radiusY", "startAngle", "endAngle", "closed"); err != nil {
			return nil, err
		}
		if p.Points != nil {
			v.Points = clonePoints(p.Points)
		}
		return v, nil
	}
	return nil, fmt.Errorf("shape: unhandled kind %T", s)
}

// Geometry returns a patch carrying every geometric field of s. Applying it
// to any shape of the same kind makes that shape's geometry equal to s.
func Geometry(s Shape) Patch {
	switch v := s.(type) {
	case Line:
		return Patch{Start: Ptr(v.Start), End: Ptr(v.End)}
	case Rectangle:
		return Patch{Corner: Ptr(v.Corner), Width: Ptr(v.Width), Height: Ptr(v.Height), Rotation: Ptr(v.Rotation)}
	case Circle:
		return Patch{Center: Ptr(v.Center), Radius: Ptr(v.Radius)}
	case Arc:
		return Patch{Center: Ptr(v.Center), Radius: Ptr(v.Radius), StartAngle: Ptr(v.StartAngle), EndAngle: Ptr(v.EndAngle)}
	case Ellipse:
		return Patch{Center: Ptr(v.Center), RadiusX: Ptr(v.RadiusX), RadiusY: Ptr(v.RadiusY), Rotation: Ptr(v.Rotation)}
	case Polyline:
		return Patch{Points: clonePoints(v.Points), Closed: Ptr(v.Closed)}
	case Other:
		return Patch{Points: clonePoints(v.Points)}
	}
	return Patch{}
}

func forbid(mismatch func(string) error, p Patch, fields ...string) error {
	for _, f := range fields {
		if p.has(f) {
			return mismatch(f)
		}
	}
	return nil
}

func (p Patch) has(field string) bool {
	switch field {
	case "start":
		return p.Start != nil
	case "end":
		return p.End != nil
	case "corner":
		return p.Corner != nil
	case "center":
		return p.Center != nil
	case "width":
		return p.Width != nil
	case "height":
		return p.Height != nil
	case "rotation":
		return p.Rotation != nil
	case "radius":
		return p.Radius != nil
	case "radiusX":
		return p.RadiusX != nil
	case "radiusY":
		return p.RadiusY != nil
	case "startAngle":
		return p.StartAngle != nil
	case "endAngle":
		return p.EndAngle != nil
	case "points":
		return p.Points != nil
	case "closed":
		return p.Closed != nil
	}
	return false
}

func setPoint(dst *geom.Point, src *geom.Point) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
