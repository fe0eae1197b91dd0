package engine

import (
	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

// HistoryStep implements UNDO and REDO. Both finish during Start and only
// ask the external history to step; they never produce a diff.
type HistoryStep struct {
	cancelOnly
	Redo bool
}

func (h *HistoryStep) id() CommandID {
	if h.Redo {
		return CmdRedo
	}
	return CmdUndo
}

func (h *HistoryStep) Start(State, []shape.ID, Shapes) State {
	return State{Command: h.id(), Phase: PhaseValue}
}

func (h *HistoryStep) Complete(State, Shapes) (Result, bool) {
	res := done(string(h.id()), Diff{})
	res.History = HistoryUndo
	if h.Redo {
		res.History = HistoryRedo
	}
	return res, true
}

func (h *HistoryStep) HandleInput(state State, in Input, _ Shapes) Result {
	if _, ok := in.(Escape); ok {
		return cancelled()
	}
	return invalid(state)
}

func (h *HistoryStep) Preview(State, geom.Point, Shapes) []shape.Shape { return nil }
