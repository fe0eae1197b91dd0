// Package engine implements the interactive modify commands (ERASE, MOVE,
// COPY, ROTATE, SCALE, MIRROR, OFFSET, FILLET, CHAMFER, UNDO and REDO).
//
// Each command is a Handler: a state machine that is a pure function of the
// current State, one Input and a read-only view of the shapes. Handlers never
// touch the shape collection; they return a Result carrying a Diff for an
// external store to apply, and a replacement State. The Dispatcher owns the
// single State between inputs and routes each input to the active handler.
//
// Failures are values: a Result with Success false and a message. Nothing in
// this package returns an error for a user action or panics on degenerate
// geometry.
package engine

import (
	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

// CommandID is the canonical, upper-case name of a command. The zero value
// means no command is active.
type CommandID string

const (
	CmdErase   CommandID = "ERASE"
	CmdMove    CommandID = "MOVE"
	CmdCopy    CommandID = "COPY"
	CmdRotate  CommandID = "ROTATE"
	CmdScale   CommandID = "SCALE"
	CmdMirror  CommandID = "MIRROR"
	CmdOffset  CommandID = "OFFSET"
	CmdFillet  CommandID = "FILLET"
	CmdChamfer CommandID = "CHAMFER"
	CmdUndo    CommandID = "UNDO"
	CmdRedo    CommandID = "REDO"
)

// Phase is a command-specific step. Several commands share phase names; the
// meaning is always relative to State.Command.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseSelecting       Phase = "selecting"
	PhaseBasePoint       Phase = "awaiting_base_point"
	PhaseSecondPoint     Phase = "awaiting_second_point"
	PhaseValue           Phase = "awaiting_value"
	PhaseReference       Phase = "awaiting_reference"
	PhaseOption          Phase = "awaiting_option"
	PhaseSide            Phase = "awaiting_side"
	PhaseRadius          Phase = "awaiting_radius"
	PhaseDist1           Phase = "awaiting_dist1"
	PhaseDist2           Phase = "awaiting_dist2"
	PhaseSelectingSecond Phase = "selecting_second"
)

// Shapes is the read-only view of the drawing a handler works against.
type Shapes interface {
	Lookup(id shape.ID) (shape.Shape, bool)
}

// Picker is optionally implemented by a Shapes value that can hit-test a
// point. Selections that carry only a pick point, and previews that depend
// on the hovered object, use it when available.
type Picker interface {
	Pick(p geom.Point, tol float64) (shape.Shape, bool)
}

// IDGenerator supplies identifiers for shapes the engine creates. It is
// called exactly once per new shape.
type IDGenerator interface {
	NewID() shape.ID
}

// Defaults are the initial option values commands start with.
type Defaults struct {
	FilletRadius    float64
	FilletTrim      bool
	FilletMultiple  bool
	ChamferDist1    float64
	ChamferDist2    float64
	ChamferTrim     bool
	ChamferMultiple bool
	OffsetDistance  float64
	CopyMultiple    bool
	// PickTolerance is the largest distance between a pick point and a shape
	// outline for the pick to hit that shape.
	PickTolerance float64
}

// BuiltinDefaults returns the defaults used when nothing is configured.
func BuiltinDefaults() Defaults {
	return Defaults{
		FilletTrim:     true,
		ChamferTrim:    true,
		OffsetDistance: 1,
		CopyMultiple:   true,
		PickTolerance:  0.5,
	}
}
