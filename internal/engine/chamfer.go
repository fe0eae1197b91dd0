package engine

import (
	"fmt"

	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

// Chamfer bevels the corner between two lines, or two segments of a
// polyline, cutting Dist1 back along the first and Dist2 along the second.
type Chamfer struct {
	cancelOnly
	IDs           IDGenerator
	Dist1, Dist2  float64
	Trim          bool
	Multiple      bool
	PickTolerance float64
}

func (h *Chamfer) toFirst(state State) State {
	d := state.Data.(*ChamferData)
	mode := "TRIM"
	if !d.Trim {
		mode = "NOTRIM"
	}
	n := state.with(PhaseValue,
		fmt.Sprintf("(%s mode) Current chamfer Dist1 = %s, Dist2 = %s. Select first line or [Distance/Trim/Multiple]:",
			mode, geom.FormatNumber(d.Dist1), geom.FormatNumber(d.Dist2)),
		"Distance", "Trim", "Multiple")
	n.Selected = nil
	n.SelectionComplete = false
	n.Data.(*ChamferData).First = nil
	return n
}

func (h *Chamfer) Start(State, []shape.ID, Shapes) State {
	st := State{
		Command: CmdChamfer,
		Data:    &ChamferData{Dist1: h.Dist1, Dist2: h.Dist2, Trim: h.Trim, Multiple: h.Multiple},
	}
	return h.toFirst(st)
}

func (h *Chamfer) HandleInput(state State, in Input, shapes Shapes) Result {
	if _, ok := in.(Escape); ok {
		return cancelled()
	}
	d := state.Data.(*ChamferData)
	switch state.Phase {
	case PhaseValue:
		switch v := in.(type) {
		case Select:
			t, msg := resolveTarget(CmdChamfer, v, shapes, h.PickTolerance)
			if msg != "" {
				return fail(msg)
			}
			n := state.with(PhaseSelectingSecond, "Select second line:")
			n.Selected = []shape.ID{t.ID}
			n.Data.(*ChamferData).First = &t.Pick
			return moveTo(n, n.Prompt)
		case Option:
			o, ok := matchOption(v.Text, "Distance", "Trim", "Multiple")
			if !ok {
				return invalid(state)
			}
			switch o {
			case "Distance":
				n := state.with(PhaseDist1, fmt.Sprintf("Specify first chamfer distance <%s>:", geom.FormatNumber(d.Dist1)))
				return moveTo(n, n.Prompt)
			case "Trim":
				n := state.with(PhaseOption, "Enter Trim mode option [Trim/No trim] <Trim>:", "Trim", "No trim")
				return moveTo(n, n.Prompt)
			}
			n := state.clone()
			n.Data.(*ChamferData).Multiple = true
			return moveTo(n, "Multiple mode on.")
		case Enter:
			return done("", Diff{})
		}

	case PhaseDist1:
		dist, ok := h.distance(in, d.Dist1)
		if !ok {
			return invalid(state)
		}
		if dist < 0 {
			return fail("Distance must not be negative.")
		}
		n := state.clone()
		nd := n.Data.(*ChamferData)
		nd.Dist1 = dist
		// the second distance defaults to the first, as a symmetric chamfer
		nd.Dist2 = dist
		n = n.with(PhaseDist2, fmt.Sprintf("Specify second chamfer distance <%s>:", geom.FormatNumber(dist)))
		return moveTo(n, n.Prompt)

	case PhaseDist2:
		dist, ok := h.distance(in, d.Dist2)
		if !ok {
			return invalid(state)
		}
		if dist < 0 {
			return fail("Distance must not be negative.")
		}
		n := state.clone()
		n.Data.(*ChamferData).Dist2 = dist
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
		n.Data.(*ChamferData).Trim = trim
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

func (h *Chamfer) distance(in Input, current float64) (float64, bool) {
	switch v := in.(type) {
	case Value:
		return v.Number, true
	case Enter:
		return current, true
	}
	return 0, false
}

func (h *Chamfer) cut(dist1, dist2 float64) func(t1, t2 cornerTarget) (cornerCut, error) {
	return func(t1, t2 cornerTarget) (cornerCut, error) {
		r, err := geom.Chamfer(t1.seg, t2.seg, dist1, dist2, t1.At, t2.At)
		if err != nil {
			return cornerCut{}, err
		}
		c := cornerCut{trim1: r.Trim1, trim2: r.Trim2, p1: r.P1, p2: r.P2}
		if !r.Corner {
			c.bridge = shape.Line{Start: r.P1, End: r.P2}
			c.path = []geom.Point{r.P1, r.P2}
		}
		return c, nil
	}
}

func (h *Chamfer) apply(state State, in Select, shapes Shapes) Result {
	d := state.Data.(*ChamferData)
	t1, msg := targetFromPick(*d.First, shapes)
	if msg != "" {
		return fail(msg)
	}
	t2, msg := resolveTarget(CmdChamfer, in, shapes, h.PickTolerance)
	if msg != "" {
		return fail(msg)
	}
	if t1.ID == t2.ID && t1.Segment == t2.Segment {
		return fail("Cannot chamfer an object with itself.")
	}
	c, err := h.cut(d.Dist1, d.Dist2)(t1, t2)
	if err != nil {
		return fail(message(err))
	}
	diff, msg, ok := applyCut(CmdChamfer, t1, t2, c, d.Trim, h.IDs)
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

func (h *Chamfer) Preview(state State, cursor geom.Point, shapes Shapes) []shape.Shape {
	if state.Phase != PhaseSelectingSecond {
		return nil
	}
	d := state.Data.(*ChamferData)
	return cornerPreview(CmdChamfer, *d.First, cursor, shapes, h.PickTolerance, h.cut(d.Dist1, d.Dist2))
}
