package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

// Handler is implemented by every command.
type Handler interface {
	// Start initializes a new state for the command. A non-empty selection
	// made before the command was invoked skips the selection phase, for
	// commands that have one.
	Start(state State, selected []shape.ID, shapes Shapes) State
	// HandleInput is the only way a command progresses. Escape is accepted in
	// every phase; input a phase does not understand fails without a state
	// change.
	HandleInput(state State, in Input, shapes Shapes) Result
	// Preview returns ephemeral shapes for the cursor position. It must not
	// modify anything and returns nil when nothing applies.
	Preview(state State, cursor geom.Point, shapes Shapes) []shape.Shape
	// Cancel forces the command to idle.
	Cancel(state State) State
}

// Immediate is implemented by handlers that may finish during Start, such as
// ERASE with a pre-selection. Complete is called with the state Start
// returned; ok false means the command continues interactively.
type Immediate interface {
	Complete(state State, shapes Shapes) (res Result, ok bool)
}

// cancelOnly provides the Cancel method shared by all handlers.
type cancelOnly struct{}

func (cancelOnly) Cancel(State) State { return Idle() }

// matchOption resolves text against the legal options, case-insensitively,
// accepting any unique prefix. Options may contain spaces ("No trim"); the
// comparison ignores them.
func matchOption(text string, options ...string) (string, bool) {
	norm := func(s string) string { return strings.ToLower(strings.ReplaceAll(s, " ", "")) }
	t := norm(text)
	if t == "" {
		return "", false
	}
	var found string
	for _, o := range options {
		n := norm(o)
		if n == t {
			return o, true
		}
		if strings.HasPrefix(n, t) {
			if found != "" {
				return "", false
			}
			found = o
		}
	}
	return found, found != ""
}

func yesNo(text string) (yes bool, ok bool) {
	o, ok := matchOption(text, "Yes", "No")
	return o == "Yes", ok
}

// selectable reports whether id names a shape a command may act on. The
// returned note explains rejections.
func selectable(id shape.ID, shapes Shapes) (shape.Shape, string) {
	s, ok := shapes.Lookup(id)
	switch {
	case !ok:
		return nil, "not found"
	case s.Base().Locked:
		return nil, "locked"
	}
	return s, ""
}

// resolveSelect turns a Select input into shape IDs, hit-testing the pick
// point when no IDs were given.
func resolveSelect(in Select, shapes Shapes, tol float64) []shape.ID {
	if len(in.IDs) > 0 || in.Pick == nil {
		return in.IDs
	}
	if p, ok := shapes.(Picker); ok {
		if s, ok := p.Pick(*in.Pick, tol); ok {
			return []shape.ID{s.Base().ID}
		}
	}
	return nil
}

// gather adds ids to the state's selection, dropping unknown, locked and
// duplicate IDs. It returns the number added and a message such as
// "2 found, 3 total, 1 object is locked".
func gather(state *State, ids []shape.ID, shapes Shapes) (int, string) {
	var added, locked int
	for _, id := range ids {
		s, note := selectable(id, shapes)
		if note == "locked" {
			locked++
			continue
		}
		if s == nil || slices.Contains(state.Selected, id) {
			continue
		}
		state.Selected = append(state.Selected, id)
		added++
	}
	msg := fmt.Sprintf("%d found, %d total", added, len(state.Selected))
	switch locked {
	case 0:
	case 1:
		msg += ", 1 object is locked"
	default:
		msg += fmt.Sprintf(", %d objects are locked", locked)
	}
	return added, msg
}

// selection returns the shapes currently selected and still present, in
// selection order.
func selection(state State, shapes Shapes) []shape.Shape {
	out := make([]shape.Shape, 0, len(state.Selected))
	for _, id := range state.Selected {
		if s, ok := shapes.Lookup(id); ok {
			out = append(out, s)
		}
	}
	return out
}

// preselect filters a selection made before a command started.
func preselect(selected []shape.ID, shapes Shapes) []shape.ID {
	var st State
	gather(&st, selected, shapes)
	return st.Selected
}

// selectingPhase implements the shared object-selection phase. next is
// called with the completed selection once the user presses Enter.
func selectingPhase(state State, in Input, shapes Shapes, tol float64, next func(State) Result) Result {
	switch v := in.(type) {
	case Select:
		n := state.clone()
		added, msg := gather(&n, resolveSelect(v, shapes, tol), shapes)
		if added == 0 {
			return fail(msg)
		}
		return moveTo(n, msg)
	case Enter:
		if len(state.Selected) == 0 {
			return fail("No objects selected.")
		}
		n := state.clone()
		n.SelectionComplete = true
		return next(n)
	case Escape:
		return cancelled()
	}
	return invalid(state)
}

const selectPrompt = "Select objects:"
