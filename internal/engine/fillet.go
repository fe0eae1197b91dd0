package engine

import (
	"errors"
	"fmt"

	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

// Fillet rounds the corner between two lines, two segments of a polyline,
// or a line and an arc, with an arc of the current radius. A zero radius
// extends or trims both objects to meet at a sharp corner.
type Fillet struct {
	cancelOnly
	IDs           IDGenerator
	Radius        float64
	Trim          bool
	Multiple      bool
	PickTolerance float64
}

func (h *Fillet) firstPrompt(d *FilletData) State {
	mode := "TRIM"
	if !d.Trim {
		mode = "NOTRIM"
	}
	return State{
		Phase:   PhaseValue,
		Prompt:  fmt.Sprintf("Current settings: Mode = %s, Radius = %s. Select first object or [Radius/Trim/Multiple]:", mode, geom.FormatNumber(d.Radius)),
		Options: []string{"Radius", "Trim", "Multiple"},
	}
}

func (h *Fillet) toFirst(state State) State {
	p := h.firstPrompt(state.Data.(*FilletData))
	n := state.with(p.Phase, p.Prompt, p.Options...)
	n.Selected = nil
	n.SelectionComplete = false
	n.Data.(*FilletData).First = nil
	return n
}

func (h *Fillet) Start(State, []shape.ID, Shapes) State {
	st := State{
		Command: CmdFillet,
		Data:    &FilletData{Radius: h.Radius, Trim: h.Trim, Multiple: h.Multiple},
	}
	return h.toFirst(st)
}

func (h *Fillet) HandleInput(state State, in Input, shapes Shapes) Result {
	if _, ok := in.(Escape); ok {
		return cancelled()
	}
	d := state.Data.(*FilletData)
	switch state.Phase {
	case PhaseValue:
		switch v := in.(type) {
		case Select:
			t, msg := resolveTarget(CmdFillet, v, shapes, h.PickTolerance)
			if msg != "" {
				return fail(msg)
			}
			n := state.with(PhaseSelectingSecond, "Select second object:")
			n.Selected = []shape.ID{t.ID}
			n.Data.(*FilletData).First = &t.Pick
			return moveTo(n, n.Prompt)
		case Option:
			o, ok := matchOption(v.Text, "Radius", "Trim", "Multiple")
			if !ok {
				return invalid(state)
			}
			switch o {
			case "Radius":
				n := state.with(PhaseRadius, fmt.Sprintf("Specify fillet radius <%s>:", geom.FormatNumber(d.Radius)))
				return moveTo(n, n.Prompt)
			case "Trim":
				n := state.with(PhaseOption, "Enter Trim mode option [Trim/No trim] <Trim>:", "Trim", "No trim")
				return moveTo(n, n.Prompt)
			}
			n := state.clone()
			n.Data.(*FilletData).Multiple = true
			return moveTo(n, "Multiple mode on.")
		case Enter:
			return done("", Diff{})
		}

	case PhaseRadius:
		r := d.Radius
		switch v := in.(type) {
		case Value:
			if v.Number < 0 {
				return fail("Radius must not be negative.")
			}
			r = v.Number
		case Enter:
		default:
			return invalid(state)
		}
		n := state.clone()
		n.Data.(*FilletData).Radius = r
		n = h.toFirst(n)
		return moveTo(n, n.Prompt)

	case PhaseOption:
		trim := d.Trim
		switch v := in.(type) {
		case Option:
			o, ok := matchOption(v.Text, "Trim", "No trim")
			if !ok {
				return invalid(state)
			}
			trim = o == "Trim"
		case Enter:
		default:
			return invalid(state)
		}
		n := state.clone()
		n.Data.(*FilletData).Trim = trim
		n = h.toFirst(n)
		return moveTo(n, n.Prompt)

	case PhaseSelectingSecond:
		switch v := in.(type) {
		case Select:
			return h.apply(state, v, shapes)
		case Enter:
			return done("", Diff{})
		}
	}
	return invalid(state)
}

func (h *Fillet) cut(radius float64) func(t1, t2 cornerTarget) (cornerCut, error) {
	return func(t1, t2 cornerTarget) (cornerCut, error) {
		r, err := filletTargets(t1, t2, radius)
		if err != nil {
			return cornerCut{}, err
		}
		c := cornerCut{trim1: r.Trim1, trim2: r.Trim2, p1: r.Tangent1, p2: r.Tangent2}
		if !r.Corner {
			c.bridge = shape.Arc{Center: r.Center, Radius: r.Radius, StartAngle: r.StartAngle, EndAngle: r.EndAngle}
			c.path = arcPath(r)
		}
		return c, nil
	}
}

var errArcToArc = errors.New("cannot fillet two arcs")

// filletTargets dispatches on the target kinds. A line or polyline segment
// may meet an arc; two arcs cannot be filleted.
func filletTargets(t1, t2 cornerTarget, radius float64) (geom.FilletResult, error) {
	a1, arc1 := t1.shape.(shape.Arc)
	a2, arc2 := t2.shape.(shape.Arc)
	switch {
	case arc1 && arc2:
		return geom.FilletResult{}, errArcToArc
	case arc2:
		return geom.FilletLineArc(t1.seg, a2.Center, a2.Radius, a2.StartAngle, a2.EndAngle, radius, t1.At, t2.At)
	case arc1:
		r, err := geom.FilletLineArc(t2.seg, a1.Center, a1.Radius, a1.StartAngle, a1.EndAngle, radius, t2.At, t1.At)
		if err != nil {
			return r, err
		}
		r.Tangent1, r.Tangent2 = r.Tangent2, r.Tangent1
		r.Trim1, r.Trim2 = r.Trim2, r.Trim1
		return r, nil
	}
	return geom.Fillet(t1.seg, t2.seg, radius, t1.At, t2.At)
}

func (h *Fillet) apply(state State, in Select, shapes Shapes) Result {
	d := state.Data.(*FilletData)
	t1, msg := targetFromPick(*d.First, shapes)
	if msg != "" {
		return fail(msg)
	}
	t2, msg := resolveTarget(CmdFillet, in, shapes, h.PickTolerance)
	if msg != "" {
		return fail(msg)
	}
	if t1.ID == t2.ID && t1.Segment == t2.Segment {
		return fail("Cannot fillet an object with itself.")
	}
	c, err := h.cut(d.Radius)(t1, t2)
	if err != nil {
		return fail(message(err))
	}
	diff, msg, ok := applyCut(CmdFillet, t1, t2, c, d.Trim, h.IDs)
	if !ok {
		return fail(msg)
	}
	if !d.Multiple {
		return done(msg, diff)
	}
	n := h.toFirst(state)
	if msg == "" {
		msg = n.Prompt
	}
	return Result{Success: true, Message: msg, State: &n, Diff: diff, Continue: true}
}

func (h *Fillet) Preview(state State, cursor geom.Point, shapes Shapes) []shape.Shape {
	if state.Phase != PhaseSelectingSecond {
		return nil
	}
	d := state.Data.(*FilletData)
	return cornerPreview(CmdFillet, *d.First, cursor, shapes, h.PickTolerance, h.cut(d.Radius))
}
