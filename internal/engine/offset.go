package engine

import (
	"errors"
	"fmt"

	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

// Offset creates parallel copies of lines, circles and arcs. It asks for the
// distance first, then loops: pick an object, pick a side, repeat.
//
// A selection made before OFFSET started is ignored; every offset needs its
// own pick.
type Offset struct {
	cancelOnly
	IDs           IDGenerator
	Distance      float64
	PickTolerance float64
}

const (
	offsetSelectPrompt  = "Select object to offset or [Exit/Undo] <Exit>:"
	offsetSidePrompt    = "Specify point on side to offset:"
	offsetThroughPrompt = "Specify through point:"
	offsetErasePrompt   = "Erase source object after offsetting? [Yes/No] <No>:"
)

func (h *Offset) valuePrompt(d *OffsetData) string {
	def := geom.FormatNumber(d.Distance)
	if d.Through {
		def = "Through"
	}
	return fmt.Sprintf("Specify offset distance or [Through/Erase] <%s>:", def)
}

func (h *Offset) Start(State, []shape.ID, Shapes) State {
	d := &OffsetData{Distance: h.Distance}
	return State{
		Command: CmdOffset,
		Phase:   PhaseValue,
		Prompt:  h.valuePrompt(d),
		Options: []string{"Through", "Erase"},
		Data:    d,
	}
}

func (h *Offset) HandleInput(state State, in Input, shapes Shapes) Result {
	if _, ok := in.(Escape); ok {
		return cancelled()
	}
	d := state.Data.(*OffsetData)
	switch state.Phase {
	case PhaseValue:
		switch v := in.(type) {
		case Value:
			if v.Number <= 0 {
				return fail("Offset distance must be positive.")
			}
			n := h.toSelecting(state)
			nd := n.Data.(*OffsetData)
			nd.Distance = v.Number
			nd.Through = false
			return moveTo(n, n.Prompt)
		case Enter:
			if !d.Through && d.Distance <= 0 {
				return fail("Offset distance must be positive.")
			}
			n := h.toSelecting(state)
			return moveTo(n, n.Prompt)
		case Option:
			o, ok := matchOption(v.Text, "Through", "Erase")
			if !ok {
				return invalid(state)
			}
			if o == "Through" {
				n := h.toSelecting(state)
				n.Data.(*OffsetData).Through = true
				return moveTo(n, n.Prompt)
			}
			n := state.with(PhaseOption, offsetErasePrompt, "Yes", "No")
			n.Data.(*OffsetData).Asking = true
			return moveTo(n, n.Prompt)
		}

	case PhaseOption:
		erase := d.Erase
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
		n := state.clone()
		nd := n.Data.(*OffsetData)
		nd.Erase = erase
		nd.Asking = false
		n = n.with(PhaseValue, h.valuePrompt(nd), "Through", "Erase")
		return moveTo(n, n.Prompt)

	case PhaseSelecting:
		switch v := in.(type) {
		case Select:
			return h.pick(state, v, shapes)
		case Enter:
			return done("", Diff{})
		case Option:
			o, ok := matchOption(v.Text, "Exit", "Undo")
			if !ok {
				return invalid(state)
			}
			if o == "Exit" {
				return done("", Diff{})
			}
			return h.undo(state)
		}

	case PhaseSide:
		switch v := in.(type) {
		case Point:
			return h.apply(state, v.At, shapes)
		case Enter:
			return done("", Diff{})
		case Option:
			if _, ok := matchOption(v.Text, "Exit"); ok {
				return done("", Diff{})
			}
		}
	}
	return invalid(state)
}

func (h *Offset) toSelecting(state State) State {
	n := state.with(PhaseSelecting, offsetSelectPrompt, "Exit", "Undo")
	n.Selected = nil
	n.SelectionComplete = false
	n.Data.(*OffsetData).Source = ""
	return n
}

func (h *Offset) pick(state State, in Select, shapes Shapes) Result {
	ids := resolveSelect(in, shapes, h.PickTolerance)
	if len(ids) == 0 {
		return fail("No object found.")
	}
	s, note := selectable(ids[0], shapes)
	switch {
	case note == "locked":
		return fail("That object is locked.")
	case s == nil:
		return fail("No object found.")
	case !shape.Offsettable(s):
		return fail(fmt.Sprintf("Cannot offset %s.", withArticle(s.Kind())))
	}
	prompt := offsetSidePrompt
	if state.Data.(*OffsetData).Through {
		prompt = offsetThroughPrompt
	}
	n := state.with(PhaseSide, prompt, "Exit")
	n.Selected = []shape.ID{ids[0]}
	n.SelectionComplete = true
	n.Data.(*OffsetData).Source = ids[0]
	return moveTo(n, n.Prompt)
}

var errThroughOnObject = errors.New("through point lies on the object")

func (h *Offset) offset(d *OffsetData, s shape.Shape, at geom.Point) (shape.Shape, error) {
	dist := d.Distance
	if d.Through {
		var err error
		if dist, err = shape.ThroughDistance(s, at); err != nil {
			return nil, err
		}
		if dist < geom.Epsilon {
			return nil, errThroughOnObject
		}
	}
	return shape.Offset(s, dist, at)
}

func (h *Offset) apply(state State, at geom.Point, shapes Shapes) Result {
	d := state.Data.(*OffsetData)
	src, ok := shapes.Lookup(d.Source)
	if !ok {
		return fail(message(errSelectionGone))
	}
	out, err := h.offset(d, src, at)
	if err != nil {
		return fail(message(err))
	}
	created := shape.WithID(out, h.IDs.NewID())
	diff := Diff{Add: []shape.Shape{created}}

	n := h.toSelecting(state)
	nd := n.Data.(*OffsetData)
	nd.LastCreated = created.Base().ID
	nd.LastErased = nil
	if d.Erase {
		diff.Delete = []shape.ID{src.Base().ID}
		nd.LastErased = src
	}
	return Result{Success: true, Message: n.Prompt, State: &n, Diff: diff, Continue: true}
}

func (h *Offset) undo(state State) Result {
	d := state.Data.(*OffsetData)
	if d.LastCreated == "" {
		return fail("Nothing to undo.")
	}
	diff := Diff{Delete: []shape.ID{d.LastCreated}}
	if d.LastErased != nil {
		diff.Add = []shape.Shape{d.LastErased}
	}
	n := state.clone()
	nd := n.Data.(*OffsetData)
	nd.LastCreated = ""
	nd.LastErased = nil
	return Result{Success: true, Message: "Last offset removed.", State: &n, Diff: diff, Continue: true}
}

func (h *Offset) Preview(state State, cursor geom.Point, shapes Shapes) []shape.Shape {
	if state.Phase != PhaseSide {
		return nil
	}
	d := state.Data.(*OffsetData)
	src, ok := shapes.Lookup(d.Source)
	if !ok {
		return nil
	}
	out, err := h.offset(d, src, cursor)
	if err != nil {
		return nil
	}
	return []shape.Shape{out}
}
