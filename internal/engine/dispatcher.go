package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

// Dispatcher maps command names and aliases to handlers and routes input to
// the handler of the active command. It never inspects State.Data.
//
// A Dispatcher holds no command state itself: the caller passes the current
// State in and keeps the one handed back.
type Dispatcher struct {
	handlers map[CommandID]Handler
	aliases  map[string]CommandID
	logger   *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger transitions are reported to.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[CommandID]Handler),
		aliases:  make(map[string]CommandID),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewDefaultDispatcher registers every built-in command with its usual
// aliases.
func NewDefaultDispatcher(ids IDGenerator, defaults Defaults, opts ...DispatcherOption) *Dispatcher {
	d := NewDispatcher(opts...)
	tol := defaults.PickTolerance
	d.Register(CmdErase, &Erase{PickTolerance: tol}, "E", "DEL")
	d.Register(CmdMove, &Move{IDs: ids, PickTolerance: tol}, "M")
	d.Register(CmdCopy, &Move{Copy: true, Multiple: defaults.CopyMultiple, IDs: ids, PickTolerance: tol}, "CO", "CP")
	d.Register(CmdRotate, &Rotate{IDs: ids, PickTolerance: tol}, "RO")
	d.Register(CmdScale, &Scale{IDs: ids, PickTolerance: tol}, "SC")
	d.Register(CmdMirror, &Mirror{IDs: ids, PickTolerance: tol}, "MI")
	d.Register(CmdOffset, &Offset{IDs: ids, Distance: defaults.OffsetDistance, PickTolerance: tol}, "O")
	d.Register(CmdFillet, &Fillet{
		IDs:           ids,
		Radius:        defaults.FilletRadius,
		Trim:          defaults.FilletTrim,
		Multiple:      defaults.FilletMultiple,
		PickTolerance: tol,
	}, "F")
	d.Register(CmdChamfer, &Chamfer{
		IDs:           ids,
		Dist1:         defaults.ChamferDist1,
		Dist2:         defaults.ChamferDist2,
		Trim:          defaults.ChamferTrim,
		Multiple:      defaults.ChamferMultiple,
		PickTolerance: tol,
	}, "CHA")
	d.Register(CmdUndo, &HistoryStep{}, "U")
	d.Register(CmdRedo, &HistoryStep{Redo: true}, "RE")
	return d
}

// Register adds a handler under id and the given aliases. Re-registering an
// id or alias replaces the previous entry.
func (d *Dispatcher) Register(id CommandID, h Handler, aliases ...string) {
	id = CommandID(strings.ToUpper(string(id)))
	d.handlers[id] = h
	for _, a := range aliases {
		d.aliases[strings.ToUpper(a)] = id
	}
}

// Resolve maps a command name or alias to its ID, case-insensitively.
// Aliases take precedence over full names.
func (d *Dispatcher) Resolve(name string) (CommandID, bool) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if id, ok := d.aliases[key]; ok {
		return id, true
	}
	if _, ok := d.handlers[CommandID(key)]; ok {
		return CommandID(key), true
	}
	return "", false
}

// Commands returns the registered command IDs, sorted.
func (d *Dispatcher) Commands() []CommandID {
	ids := make([]CommandID, 0, len(d.handlers))
	for id := range d.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Aliases returns the aliases registered for id, sorted.
func (d *Dispatcher) Aliases(id CommandID) []string {
	var out []string
	for a, target := range d.aliases {
		if target == id {
			out = append(out, a)
		}
	}
	sort.Strings(out)
	return out
}

// Start begins the named command. An active command is cancelled first.
// Commands that complete immediately return their final result with an idle
// state.
func (d *Dispatcher) Start(state State, name string, selected []shape.ID, shapes Shapes) (State, Result) {
	id, ok := d.Resolve(name)
	if !ok {
		return state, fail(fmt.Sprintf("Unknown command %q.", name))
	}
	if state.Active() {
		state = d.Cancel(state)
	}
	h := d.handlers[id]
	next := h.Start(state, selected, shapes)
	if im, ok := h.(Immediate); ok {
		if res, ok := im.Complete(next, shapes); ok {
			return d.adopt(next, res, "start")
		}
	}
	d.logger.Debug("command started", "command", id, "phase", next.Phase)
	return next, moveTo(next, next.Prompt)
}

// Process routes one input to the active command.
func (d *Dispatcher) Process(state State, in Input, shapes Shapes) (State, Result) {
	if !state.Active() {
		return state, fail("No active command.")
	}
	h, ok := d.handlers[state.Command]
	if !ok {
		return Idle(), fail(fmt.Sprintf("Command %s is not registered.", state.Command))
	}
	return d.adopt(state, h.HandleInput(state, in, shapes), "input")
}

// Preview returns the ephemeral shapes of the active command for cursor.
func (d *Dispatcher) Preview(state State, cursor geom.Point, shapes Shapes) []shape.Shape {
	if !state.Active() {
		return nil
	}
	h, ok := d.handlers[state.Command]
	if !ok {
		return nil
	}
	return h.Preview(state, cursor, shapes)
}

// Cancel forces the active command, if any, to idle.
func (d *Dispatcher) Cancel(state State) State {
	if h, ok := d.handlers[state.Command]; ok && state.Active() {
		d.logger.Debug("command cancelled", "command", state.Command, "phase", state.Phase)
		return h.Cancel(state)
	}
	return Idle()
}

func (d *Dispatcher) adopt(state State, res Result, event string) (State, Result) {
	next := state
	if res.State != nil {
		next = *res.State
	}
	if next.Phase == PhaseIdle || next.Command == "" {
		next = Idle()
	}
	d.logger.Debug("command "+event,
		"command", state.Command,
		"phase", next.Phase,
		"success", res.Success,
		"added", len(res.Diff.Add),
		"updated", len(res.Diff.Update),
		"deleted", len(res.Diff.Delete),
	)
	return next, res
}
