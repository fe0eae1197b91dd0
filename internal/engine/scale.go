package engine

import (
	"fmt"
	"math"

	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

// Scale resizes the selection about a base point. A picked point gives the
// factor as its distance from the base point.
type Scale struct {
	cancelOnly
	IDs           IDGenerator
	PickTolerance float64
}

const (
	scalePrompt    = "Specify scale factor or [Copy/Reference]:"
	scaleRefPrompt = "Specify reference length <1>:"
	scaleNewPrompt = "Specify new length:"
)

func (h *Scale) Start(_ State, selected []shape.ID, shapes Shapes) State {
	st := State{Command: CmdScale, Phase: PhaseSelecting, Prompt: selectPrompt, Data: &ScaleData{}}
	if sel := preselect(selected, shapes); len(sel) > 0 {
		st.Selected = sel
		st.SelectionComplete = true
		return st.with(PhaseBasePoint, "Specify base point:")
	}
	return st
}

func (h *Scale) HandleInput(state State, in Input, shapes Shapes) Result {
	if _, ok := in.(Escape); ok {
		return cancelled()
	}
	d := state.Data.(*ScaleData)
	switch state.Phase {
	case PhaseSelecting:
		return selectingPhase(state, in, shapes, h.PickTolerance, func(n State) Result {
			n = n.with(PhaseBasePoint, "Specify base point:")
			return moveTo(n, n.Prompt)
		})

	case PhaseBasePoint:
		if v, ok := in.(Point); ok {
			n := state.with(PhaseValue, scalePrompt, "Copy", "Reference")
			n.BasePoint = &v.At
			return moveTo(n, n.Prompt)
		}

	case PhaseValue:
		switch v := in.(type) {
		case Value:
			return h.apply(state, v.Number, shapes)
		case Point:
			return h.apply(state, v.At.Dist(*state.BasePoint), shapes)
		case Option:
			o, ok := matchOption(v.Text, "Copy", "Reference")
			if !ok {
				return invalid(state)
			}
			n := state.clone()
			nd := n.Data.(*ScaleData)
			if o == "Copy" {
				nd.Copy = !nd.Copy
				msg := "Scaling the selected objects."
				if nd.Copy {
					msg = "Scaling a copy of the selected objects."
				}
				return moveTo(n, msg)
			}
			nd.Reference = false
			nd.RefPoint = nil
			n = n.with(PhaseReference, scaleRefPrompt)
			return moveTo(n, n.Prompt)
		}

	case PhaseReference:
		n := state.clone()
		nd := n.Data.(*ScaleData)
		switch v := in.(type) {
		case Value:
			nd.RefLength = v.Number
		case Enter:
			nd.RefLength = 1
		case Point:
			if d.RefPoint == nil {
				nd.RefPoint = &v.At
				n.Prompt = "Specify second point:"
				return moveTo(n, n.Prompt)
			}
			nd.RefLength = v.At.Dist(*d.RefPoint)
			nd.RefPoint = nil
		default:
			return invalid(state)
		}
		if math.Abs(nd.RefLength) < geom.Epsilon {
			return fail("Reference length must be non-zero.")
		}
		nd.Reference = true
		n = n.with(PhaseValue, scaleNewPrompt)
		return moveTo(n, n.Prompt)
	}
	return invalid(state)
}

func (h *Scale) factor(d *ScaleData, v float64) float64 {
	if d.Reference {
		return v / d.RefLength
	}
	return v
}

func (h *Scale) apply(state State, v float64, shapes Shapes) Result {
	d := state.Data.(*ScaleData)
	f := h.factor(d, v)
	if math.Abs(f) < geom.Epsilon {
		return fail(message(shape.ErrZeroScale))
	}
	base := *state.BasePoint
	diff, n, err := transformSelection(state, shapes, d.Copy, h.IDs, func(s shape.Shape) (shape.Shape, error) {
		return shape.Scale(s, base, f)
	})
	if err != nil {
		return fail(message(err))
	}
	return done(fmt.Sprintf("%d object(s) scaled by %s.", n, geom.FormatNumber(f)), diff)
}

func (h *Scale) Preview(state State, cursor geom.Point, shapes Shapes) []shape.Shape {
	if state.Phase != PhaseValue || state.BasePoint == nil {
		return nil
	}
	f := h.factor(state.Data.(*ScaleData), cursor.Dist(*state.BasePoint))
	return previewSelection(state, shapes, func(s shape.Shape) (shape.Shape, error) {
		return shape.Scale(s, *state.BasePoint, f)
	})
}
