package engine

import (
	"fmt"

	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

// Erase deletes the selected objects.
type Erase struct {
	cancelOnly
	PickTolerance float64
}

func (h *Erase) Start(_ State, selected []shape.ID, shapes Shapes) State {
	st := State{Command: CmdErase, Phase: PhaseSelecting, Prompt: selectPrompt}
	if sel := preselect(selected, shapes); len(sel) > 0 {
		st.Selected = sel
		st.SelectionComplete = true
	}
	return st
}

func (h *Erase) Complete(state State, shapes Shapes) (Result, bool) {
	if !state.SelectionComplete || len(state.Selected) == 0 {
		return Result{}, false
	}
	return h.erase(state, shapes), true
}

func (h *Erase) HandleInput(state State, in Input, shapes Shapes) Result {
	return selectingPhase(state, in, shapes, h.PickTolerance, func(n State) Result {
		return h.erase(n, shapes)
	})
}

func (h *Erase) erase(state State, shapes Shapes) Result {
	var diff Diff
	for _, s := range selection(state, shapes) {
		diff.Delete = append(diff.Delete, s.Base().ID)
	}
	if len(diff.Delete) == 0 {
		return fail("Selected objects no longer exist.")
	}
	return done(fmt.Sprintf("%d object(s) erased.", len(diff.Delete)), diff)
}

func (h *Erase) Preview(State, geom.Point, Shapes) []shape.Shape { return nil }
