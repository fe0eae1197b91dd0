package engine

import (
	"fmt"

	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

// Mirror reflects the selection across a line given by two points. The
// mirrored shapes are always new objects; answering Yes at the final prompt
// deletes the sources in the same diff.
type Mirror struct {
	cancelOnly
	IDs           IDGenerator
	PickTolerance float64
}

const mirrorErasePrompt = "Erase source objects? [Yes/No] <No>:"

func (h *Mirror) Start(_ State, selected []shape.ID, shapes Shapes) State {
	st := State{Command: CmdMirror, Phase: PhaseSelecting, Prompt: selectPrompt, Data: &MirrorData{}}
	if sel := preselect(selected, shapes); len(sel) > 0 {
		st.Selected = sel
		st.SelectionComplete = true
		return st.with(PhaseBasePoint, "Specify first point of mirror line:")
	}
	return st
}

func (h *Mirror) HandleInput(state State, in Input, shapes Shapes) Result {
	if _, ok := in.(Escape); ok {
		return cancelled()
	}
	switch state.Phase {
	case PhaseSelecting:
		return selectingPhase(state, in, shapes, h.PickTolerance, func(n State) Result {
			n = n.with(PhaseBasePoint, "Specify first point of mirror line:")
			return moveTo(n, n.Prompt)
		})

	case PhaseBasePoint:
		if v, ok := in.(Point); ok {
			n := state.with(PhaseSecondPoint, "Specify second point of mirror line:")
			n.BasePoint = &v.At
			return moveTo(n, n.Prompt)
		}

	case PhaseSecondPoint:
		if v, ok := in.(Point); ok {
			if v.At.Near(*state.BasePoint, geom.Epsilon) {
				return fail("The mirror line points must be distinct.")
			}
			n := state.with(PhaseOption, mirrorErasePrompt, "Yes", "No")
			n.SecondPoint = &v.At
			return moveTo(n, n.Prompt)
		}

	case PhaseOption:
		erase := state.Data.(*MirrorData).EraseSource
		switch v := in.(type) {
		case Option:
			yes, ok := yesNo(v.Text)
			if !ok {
				return invalid(state)
			}
			erase = yes
		case Enter:
		default:
			return invalid(state)
		}
		return h.apply(state, erase, shapes)
	}
	return invalid(state)
}

func (h *Mirror) apply(state State, erase bool, shapes Shapes) Result {
	a, b := *state.BasePoint, *state.SecondPoint
	diff, n, err := transformSelection(state, shapes, true, h.IDs, func(s shape.Shape) (shape.Shape, error) {
		return shape.Mirror(s, a, b)
	})
	if err != nil {
		return fail(message(err))
	}
	if erase {
		for _, s := range selection(state, shapes) {
			diff.Delete = append(diff.Delete, s.Base().ID)
		}
	}
	return done(fmt.Sprintf("%d object(s) mirrored.", n), diff)
}

func (h *Mirror) Preview(state State, cursor geom.Point, shapes Shapes) []shape.Shape {
	var a, b geom.Point
	switch {
	case state.Phase == PhaseSecondPoint && state.BasePoint != nil:
		a, b = *state.BasePoint, cursor
	case state.Phase == PhaseOption && state.BasePoint != nil && state.SecondPoint != nil:
		a, b = *state.BasePoint, *state.SecondPoint
	default:
		return nil
	}
	return previewSelection(state, shapes, func(s shape.Shape) (shape.Shape, error) {
		return shape.Mirror(s, a, b)
	})
}
