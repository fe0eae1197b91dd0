package engine

import (
	"slices"

	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

// State is the single record threaded through a command's lifetime. It is
// created by Handler.Start, replaced only through Result.State, and discarded
// when Phase returns to PhaseIdle.
type State struct {
	Command CommandID
	Phase   Phase
	// Prompt and Options describe what the command is waiting for. They are
	// informational and never used to validate input.
	Prompt            string
	Options           []string
	Selected          []shape.ID
	SelectionComplete bool
	BasePoint         *geom.Point
	SecondPoint       *geom.Point
	// Data is private to the command named by Command.
	Data    Data
	Preview []shape.Shape
}

// Idle returns the state with no active command.
func Idle() State { return State{Phase: PhaseIdle} }

// Active reports whether a command is in progress.
func (s State) Active() bool { return s.Command != "" && s.Phase != PhaseIdle }

// clone returns a copy of s that shares nothing mutable with it, so handlers
// can build the next state freely.
func (s State) clone() State {
	s.Options = slices.Clone(s.Options)
	s.Selected = slices.Clone(s.Selected)
	s.Preview = nil
	if s.BasePoint != nil {
		p := *s.BasePoint
		s.BasePoint = &p
	}
	if s.SecondPoint != nil {
		p := *s.SecondPoint
		s.SecondPoint = &p
	}
	if s.Data != nil {
		s.Data = s.Data.cloneData()
	}
	return s
}

// with sets the phase, prompt and options of a copy of s.
func (s State) with(phase Phase, prompt string, options ...string) State {
	n := s.clone()
	n.Phase = phase
	n.Prompt = prompt
	n.Options = options
	return n
}

// Data is the command-private scratch space of a State. Exactly one variant
// belongs to each command that needs one.
type Data interface {
	cloneData() Data
}

// MoveData is used by MOVE and COPY.
type MoveData struct {
	Copy     bool
	Multiple bool
	// Batches holds the IDs added by each copy, most recent last, for the
	// in-command Undo option.
	Batches [][]shape.ID
	// Asking is set while COPY waits for a Single/Multiple answer.
	Asking bool
}

// RotateData is used by ROTATE.
type RotateData struct {
	Copy bool
	// Reference is set once a reference angle has been given; the typed or
	// picked angle is then the new absolute angle.
	Reference bool
	RefAngle  float64
	// RefPoint is the first point of a two-point reference.
	RefPoint *geom.Point
}

// ScaleData is used by SCALE.
type ScaleData struct {
	Copy      bool
	Reference bool
	RefLength float64
	RefPoint  *geom.Point
}

// MirrorData is used by MIRROR.
type MirrorData struct {
	// EraseSource is the answer Enter picks at the erase prompt.
	EraseSource bool
}

// OffsetData is used by OFFSET.
type OffsetData struct {
	Distance float64
	Through  bool
	Erase    bool
	// Asking is set while waiting for the Erase Yes/No answer.
	Asking bool
	Source shape.ID
	// LastCreated and LastErased support a single in-command Undo.
	LastCreated shape.ID
	LastErased  shape.Shape
}

// Pick is one object picked for FILLET or CHAMFER.
type Pick struct {
	ID shape.ID
	At geom.Point
	// Segment is the polyline segment index, or -1 for a line.
	Segment int
}

// FilletData is used by FILLET.
type FilletData struct {
	Radius   float64
	Trim     bool
	Multiple bool
	First    *Pick
}

// ChamferData is used by CHAMFER.
type ChamferData struct {
	Dist1    float64
	Dist2    float64
	Trim     bool
	Multiple bool
	First    *Pick
}

func (d *MoveData) cloneData() Data {
	c := *d
	c.Batches = slices.Clone(d.Batches)
	return &c
}

func (d *RotateData) cloneData() Data {
	c := *d
	return &c
}

func (d *ScaleData) cloneData() Data {
	c := *d
	return &c
}

func (d *MirrorData) cloneData() Data {
	c := *d
	return &c
}

func (d *OffsetData) cloneData() Data {
	c := *d
	return &c
}

func (d *FilletData) cloneData() Data {
	c := *d
	return &c
}

func (d *ChamferData) cloneData() Data {
	c := *d
	return &c
}
