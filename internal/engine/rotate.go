package engine

import (
	"errors"
	"fmt"

	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

// Rotate turns the selection about a base point. Angles are measured
// counter-clockwise with y up, whether typed in degrees or taken from a
// picked point.
type Rotate struct {
	cancelOnly
	IDs           IDGenerator
	PickTolerance float64
}

const (
	rotatePrompt    = "Specify rotation angle or [Copy/Reference]:"
	rotateRefPrompt = "Specify the reference angle <0>:"
	rotateNewPrompt = "Specify the new angle:"
)

func (h *Rotate) Start(_ State, selected []shape.ID, shapes Shapes) State {
	st := State{Command: CmdRotate, Phase: PhaseSelecting, Prompt: selectPrompt, Data: &RotateData{}}
	if sel := preselect(selected, shapes); len(sel) > 0 {
		st.Selected = sel
		st.SelectionComplete = true
		return st.with(PhaseBasePoint, "Specify base point:")
	}
	return st
}

func (h *Rotate) HandleInput(state State, in Input, shapes Shapes) Result {
	if _, ok := in.(Escape); ok {
		return cancelled()
	}
	d := state.Data.(*RotateData)
	switch state.Phase {
	case PhaseSelecting:
		return selectingPhase(state, in, shapes, h.PickTolerance, func(n State) Result {
			n = n.with(PhaseBasePoint, "Specify base point:")
			return moveTo(n, n.Prompt)
		})

	case PhaseBasePoint:
		if v, ok := in.(Point); ok {
			n := state.with(PhaseValue, rotatePrompt, "Copy", "Reference")
			n.BasePoint = &v.At
			return moveTo(n, n.Prompt)
		}

	case PhaseValue:
		switch v := in.(type) {
		case Value:
			return h.apply(state, geom.Radians(v.Number), shapes)
		case Point:
			a, err := v.At.Sub(*state.BasePoint).Unit()
			if err != nil {
				return fail("The angle point must differ from the base point.")
			}
			return h.apply(state, a.Angle(), shapes)
		case Option:
			o, ok := matchOption(v.Text, "Copy", "Reference")
			if !ok {
				return invalid(state)
			}
			n := state.clone()
			nd := n.Data.(*RotateData)
			if o == "Copy" {
				nd.Copy = !nd.Copy
				msg := "Rotating the selected objects."
				if nd.Copy {
					msg = "Rotating a copy of the selected objects."
				}
				return moveTo(n, msg)
			}
			nd.Reference = false
			nd.RefPoint = nil
			n = n.with(PhaseReference, rotateRefPrompt)
			return moveTo(n, n.Prompt)
		}

	case PhaseReference:
		n := state.clone()
		nd := n.Data.(*RotateData)
		switch v := in.(type) {
		case Value:
			nd.RefAngle = geom.Radians(v.Number)
		case Enter:
			nd.RefAngle = 0
		case Point:
			if d.RefPoint == nil {
				nd.RefPoint = &v.At
				n.Prompt = "Specify second point:"
				return moveTo(n, n.Prompt)
			}
			dir, err := v.At.Sub(*d.RefPoint).Unit()
			if err != nil {
				return fail("The reference points must be distinct.")
			}
			nd.RefAngle = dir.Angle()
			nd.RefPoint = nil
		default:
			return invalid(state)
		}
		nd.Reference = true
		n = n.with(PhaseValue, rotateNewPrompt)
		return moveTo(n, n.Prompt)
	}
	return invalid(state)
}

func (h *Rotate) angle(d *RotateData, a float64) float64 {
	if d.Reference {
		return a - d.RefAngle
	}
	return a
}

func (h *Rotate) apply(state State, a float64, shapes Shapes) Result {
	d := state.Data.(*RotateData)
	a = h.angle(d, a)
	base := *state.BasePoint
	diff, n, err := transformSelection(state, shapes, d.Copy, h.IDs, func(s shape.Shape) (shape.Shape, error) {
		return shape.Rotate(s, base, a), nil
	})
	if err != nil {
		return fail(message(err))
	}
	return done(fmt.Sprintf("%d object(s) rotated by %s degrees.", n, geom.FormatNumber(geom.Degrees(a))), diff)
}

func (h *Rotate) Preview(state State, cursor geom.Point, shapes Shapes) []shape.Shape {
	if state.Phase != PhaseValue || state.BasePoint == nil {
		return nil
	}
	dir, err := cursor.Sub(*state.BasePoint).Unit()
	if err != nil {
		return nil
	}
	a := h.angle(state.Data.(*RotateData), dir.Angle())
	return previewSelection(state, shapes, func(s shape.Shape) (shape.Shape, error) {
		return shape.Rotate(s, *state.BasePoint, a), nil
	})
}

var errSelectionGone = errors.New("selected objects no longer exist")

// transformSelection maps every selected shape through fn. With asCopy set the
// results are added under new IDs; otherwise they update the sources.
func transformSelection(state State, shapes Shapes, asCopy bool, ids IDGenerator, fn func(shape.Shape) (shape.Shape, error)) (Diff, int, error) {
	src := selection(state, shapes)
	if len(src) == 0 {
		return Diff{}, 0, errSelectionGone
	}
	var diff Diff
	for _, s := range src {
		out, err := fn(s)
		if err != nil {
			return Diff{}, 0, err
		}
		if asCopy {
			diff.Add = append(diff.Add, shape.WithID(out, ids.NewID()))
		} else {
			diff.Update = append(diff.Update, shape.Update{ID: s.Base().ID, Patch: shape.Geometry(out)})
		}
	}
	return diff, len(src), nil
}

func previewSelection(state State, shapes Shapes, fn func(shape.Shape) (shape.Shape, error)) []shape.Shape {
	var out []shape.Shape
	for _, s := range selection(state, shapes) {
		if t, err := fn(s); err == nil {
			out = append(out, t)
		}
	}
	return out
}
