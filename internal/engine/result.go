package engine

import (
	"errors"
	"strings"
	"unicode"

	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

// CancelMessage is the message of every Escape result.
const CancelMessage = "*Cancel*"

// History is a request for the external undo/redo history.
type History int

const (
	HistoryNone History = iota
	HistoryUndo
	HistoryRedo
)

// Diff is the batch of changes a command asks the shape store to apply
// atomically.
type Diff struct {
	Add    []shape.Shape
	Update []shape.Update
	Delete []shape.ID
}

// Empty reports whether the diff changes nothing.
func (d Diff) Empty() bool {
	return len(d.Add) == 0 && len(d.Update) == 0 && len(d.Delete) == 0
}

// Result is the outcome of one input.
type Result struct {
	Success bool
	Message string
	// State replaces the current state when non-nil. Failures leave it nil so
	// the command stays exactly where it was.
	State *State
	Diff  Diff
	// Continue is set when the command stays active after the diff is
	// applied (COPY Multiple, the OFFSET loop, FILLET/CHAMFER Multiple).
	Continue bool
	// Cancelled distinguishes an Escape from an ordinary failure.
	Cancelled bool
	History   History
}

func fail(msg string) Result {
	return Result{Message: msg}
}

func cancelled() Result {
	idle := Idle()
	return Result{Message: CancelMessage, State: &idle, Cancelled: true}
}

func moveTo(state State, msg string) Result {
	return Result{Success: true, Message: msg, State: &state}
}

func done(msg string, diff Diff) Result {
	idle := Idle()
	return Result{Success: true, Message: msg, State: &idle, Diff: diff}
}

func invalid(state State) Result {
	return fail("Invalid input. " + state.Prompt)
}

// message turns a kernel or shape error into a prompt-line message.
func message(err error) string {
	switch {
	case errors.Is(err, geom.ErrParallel):
		return "Lines are parallel."
	case errors.Is(err, geom.ErrZeroLength):
		return "Zero-length geometry."
	case errors.Is(err, geom.ErrNonPositiveRadius):
		return "Resulting radius would not be positive."
	case errors.Is(err, shape.ErrZeroScale):
		return "Scale factor must be non-zero."
	case errors.Is(err, errSelectionGone):
		return "Selected objects no longer exist."
	}
	s := err.Error()
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	if !strings.HasSuffix(s, ".") {
		r = append(r, '.')
	}
	return string(r)
}
