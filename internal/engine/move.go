package engine

import (
	"fmt"
	"slices"

	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

// Move implements MOVE and, with Copy set, COPY. Copies are always
// translated from the original selection, so repeated copies in Multiple
// mode do not accumulate.
type Move struct {
	cancelOnly
	Copy bool
	// Multiple is the initial COPY mode.
	Multiple      bool
	IDs           IDGenerator
	PickTolerance float64
}

func (h *Move) id() CommandID {
	if h.Copy {
		return CmdCopy
	}
	return CmdMove
}

func (h *Move) basePrompt(d *MoveData) State {
	st := State{Phase: PhaseBasePoint, Prompt: "Specify base point:"}
	if h.Copy {
		mode := "Single"
		if d.Multiple {
			mode = "Multiple"
		}
		st.Prompt = fmt.Sprintf("Current settings: Copy mode = %s. Specify base point or [Mode]:", mode)
		st.Options = []string{"Mode"}
	}
	return st
}

func (h *Move) Start(_ State, selected []shape.ID, shapes Shapes) State {
	d := &MoveData{Copy: h.Copy, Multiple: h.Copy && h.Multiple}
	st := State{Command: h.id(), Phase: PhaseSelecting, Prompt: selectPrompt, Data: d}
	if sel := preselect(selected, shapes); len(sel) > 0 {
		st.Selected = sel
		st.SelectionComplete = true
		return h.toBase(st)
	}
	return st
}

func (h *Move) toBase(st State) State {
	p := h.basePrompt(st.Data.(*MoveData))
	return st.with(p.Phase, p.Prompt, p.Options...)
}

func (h *Move) HandleInput(state State, in Input, shapes Shapes) Result {
	if _, ok := in.(Escape); ok {
		return cancelled()
	}
	d := state.Data.(*MoveData)
	switch state.Phase {
	case PhaseSelecting:
		return selectingPhase(state, in, shapes, h.PickTolerance, func(n State) Result {
			n = h.toBase(n)
			return moveTo(n, n.Prompt)
		})

	case PhaseBasePoint:
		switch v := in.(type) {
		case Point:
			n := state.with(PhaseSecondPoint, "Specify second point or <use first point as displacement>:")
			n.BasePoint = &v.At
			if h.Copy {
				n.Options = []string{"Exit", "Undo"}
			}
			return moveTo(n, n.Prompt)
		case Option:
			if _, ok := matchOption(v.Text, "Mode"); !ok || !h.Copy {
				return invalid(state)
			}
			n := state.with(PhaseOption, "Enter a copy mode option [Single/Multiple]:", "Single", "Multiple")
			n.Data.(*MoveData).Asking = true
			return moveTo(n, n.Prompt)
		}

	case PhaseOption:
		var multiple bool
		switch v := in.(type) {
		case Option:
			o, ok := matchOption(v.Text, "Single", "Multiple")
			if !ok {
				return invalid(state)
			}
			multiple = o == "Multiple"
		case Enter:
			multiple = d.Multiple
		default:
			return invalid(state)
		}
		n := state.clone()
		nd := n.Data.(*MoveData)
		nd.Multiple = multiple
		nd.Asking = false
		n = h.toBase(n)
		return moveTo(n, n.Prompt)

	case PhaseSecondPoint:
		switch v := in.(type) {
		case Point:
			return h.apply(state, v.At.Sub(*state.BasePoint), &v.At, shapes)
		case Enter:
			if len(d.Batches) > 0 {
				return done("", Diff{})
			}
			// the base point is read as a displacement from the origin
			return h.apply(state, *state.BasePoint, nil, shapes)
		case Option:
			if !h.Copy {
				return invalid(state)
			}
			o, ok := matchOption(v.Text, "Exit", "Undo")
			if !ok {
				return invalid(state)
			}
			if o == "Exit" {
				return done("", Diff{})
			}
			if len(d.Batches) == 0 {
				return fail("Nothing to undo.")
			}
			n := state.clone()
			nd := n.Data.(*MoveData)
			last := nd.Batches[len(nd.Batches)-1]
			nd.Batches = nd.Batches[:len(nd.Batches)-1]
			return Result{
				Success:  true,
				Message:  fmt.Sprintf("%d copied object(s) removed.", len(last)),
				State:    &n,
				Diff:     Diff{Delete: slices.Clone(last)},
				Continue: true,
			}
		}
	}
	return invalid(state)
}

func (h *Move) apply(state State, delta geom.Point, second *geom.Point, shapes Shapes) Result {
	src := selection(state, shapes)
	if len(src) == 0 {
		return fail("Selected objects no longer exist.")
	}
	d := state.Data.(*MoveData)
	var diff Diff
	for _, s := range src {
		moved := shape.Translate(s, delta)
		if h.Copy {
			diff.Add = append(diff.Add, shape.WithID(moved, h.IDs.NewID()))
		} else {
			diff.Update = append(diff.Update, shape.Update{ID: s.Base().ID, Patch: shape.Geometry(moved)})
		}
	}
	if !h.Copy {
		return done(fmt.Sprintf("%d object(s) moved.", len(src)), diff)
	}
	msg := fmt.Sprintf("%d object(s) copied.", len(src))
	if !d.Multiple {
		return done(msg, diff)
	}
	n := state.clone()
	n.SecondPoint = second
	nd := n.Data.(*MoveData)
	batch := make([]shape.ID, len(diff.Add))
	for i, s := range diff.Add {
		batch[i] = s.Base().ID
	}
	nd.Batches = append(nd.Batches, batch)
	n.Prompt = "Specify second point or [Exit/Undo] <Exit>:"
	return Result{Success: true, Message: msg, State: &n, Diff: diff, Continue: true}
}

func (h *Move) Preview(state State, cursor geom.Point, shapes Shapes) []shape.Shape {
	if state.Phase != PhaseSecondPoint || state.BasePoint == nil {
		return nil
	}
	delta := cursor.Sub(*state.BasePoint)
	var out []shape.Shape
	for _, s := range selection(state, shapes) {
		out = append(out, shape.Translate(s, delta))
	}
	return out
}
