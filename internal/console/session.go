// Package console is the text front end of the engine. It turns typed lines
// into engine inputs, owns the single command state, applies the resulting
// diffs to a Store and prints the prompt line.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/joeycumines/one-shot-cad/internal/engine"
	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/shape"
	"github.com/joeycumines/one-shot-cad/internal/storage"
)

// ErrCommandFailed is returned by Exec in strict mode when the engine rejects
// an input.
var ErrCommandFailed = errors.New("command failed")

// Outcome is what one line did.
type Outcome struct {
	Success bool
	Message string
	// Quit is set by the quit verb.
	Quit bool
}

// Session runs console lines against a store.
type Session struct {
	store    Store
	dispatch *engine.Dispatcher
	ids      engine.IDGenerator

	state       engine.State
	preselected []shape.ID
	last        *geom.Point
	lastCommand string
	done        bool

	out       io.Writer
	styles    Styles
	logger    *slog.Logger
	backend   storage.Backend
	name      string
	tolerance float64
	strict    bool
}

// Option configures a Session.
type Option func(*Session)

// WithOutput sets where messages are printed. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		s.out = w
	}
}

func WithStyles(st Styles) Option {
	return func(s *Session) {
		s.styles = st
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithBackend sets the drawing file a bare save writes to.
func WithBackend(b storage.Backend) Option {
	return func(s *Session) {
		s.backend = b
	}
}

// WithName sets the drawing name recorded on save.
func WithName(name string) Option {
	return func(s *Session) {
		s.name = name
	}
}

// WithPickTolerance sets the hit distance for pick while no command is
// active.
func WithPickTolerance(tol float64) Option {
	return func(s *Session) {
		s.tolerance = tol
	}
}

// WithStrict makes Exec return ErrCommandFailed for rejected input and
// malformed lines, for scripts that must not carry on after a mistake.
func WithStrict(strict bool) Option {
	return func(s *Session) {
		s.strict = strict
	}
}

// NewSession creates a session with no active command.
func NewSession(store Store, dispatch *engine.Dispatcher, ids engine.IDGenerator, opts ...Option) *Session {
	s := &Session{
		store:     store,
		dispatch:  dispatch,
		ids:       ids,
		state:     engine.Idle(),
		out:       os.Stdout,
		styles:    PlainStyles(),
		logger:    slog.Default(),
		tolerance: engine.BuiltinDefaults().PickTolerance,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current command state.
func (s *Session) State() engine.State { return s.state }

// Preselected returns the objects selected while no command was active.
func (s *Session) Preselected() []shape.ID { return slices.Clone(s.preselected) }

// Done reports whether quit was entered.
func (s *Session) Done() bool { return s.done }

// Exec runs one line. Problems the user can fix are reported in the Outcome
// and printed. The error is for failures outside the user's control, such as
// the store refusing a diff or a save failing, and for rejected input in
// strict mode.
func (s *Session) Exec(line string) (Outcome, error) {
	a, err := Parse(line, ParseContext{Active: s.state.Active(), Last: s.last})
	if err != nil {
		return s.reject(err.Error())
	}

	switch a := a.(type) {
	case Noop:
		return Outcome{Success: true}, nil
	case Quit:
		s.cancel()
		s.done = true
		return Outcome{Success: true, Quit: true}, nil
	case Help:
		s.help()
		return Outcome{Success: true}, nil
	case List:
		s.list()
		return Outcome{Success: true}, nil
	case Save:
		return s.save(a.Path)
	case Create:
		return s.create(a.Shape)
	case Preview:
		return s.preview(a.At), nil
	case Start:
		return s.start(a.Name)
	case Feed:
		return s.feed(a.Input)
	}
	return s.reject(fmt.Sprintf("unhandled line %q", line))
}

// Run executes every line of r as if typed, echoing each one. Blank lines are
// Enter. It stops at quit, and at the first error.
func (s *Session) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Text()
		s.print(s.styles.Dim, "> "+line)
		o, err := s.Exec(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		if o.Quit {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	return nil
}

func (s *Session) start(name string) (Outcome, error) {
	if id, ok := s.dispatch.Resolve(name); ok {
		s.lastCommand = string(id)
	}
	next, res := s.dispatch.Start(s.state, name, s.preselected, s.store.Snapshot())
	// commands that pick their own objects leave the selection for later
	if res.Success && (next.SelectionComplete || !next.Active()) {
		s.preselected = nil
	}
	return s.adopt(next, res)
}

func (s *Session) feed(in engine.Input) (Outcome, error) {
	if p, ok := in.(engine.Point); ok {
		at := p.At
		s.last = &at
	}
	if s.state.Active() {
		next, res := s.dispatch.Process(s.state, in, s.store.Snapshot())
		return s.adopt(next, res)
	}

	switch in := in.(type) {
	case engine.Select:
		return s.preselect(in)
	case engine.Escape:
		s.preselected = nil
		return s.report(engine.Result{Message: engine.CancelMessage, Cancelled: true})
	case engine.Enter:
		if s.lastCommand != "" {
			return s.start(s.lastCommand)
		}
	case engine.Point:
		return s.report(engine.Result{Success: true, Message: "Point: " + in.At.String()})
	}
	_, res := s.dispatch.Process(s.state, in, s.store.Snapshot())
	return s.report(res)
}

// preselect collects objects before a command, the way a click selects in a
// drawing editor. The selection goes to the next command started.
func (s *Session) preselect(in engine.Select) (Outcome, error) {
	snap := s.store.Snapshot()
	ids := in.IDs
	if len(ids) == 0 && in.Pick != nil {
		sh, ok := snap.Pick(*in.Pick, s.tolerance)
		if !ok {
			return s.report(engine.Result{Message: "No object found."})
		}
		ids = []shape.ID{sh.Base().ID}
	}
	found := 0
	for _, id := range ids {
		if _, ok := snap.Lookup(id); !ok {
			continue
		}
		found++
		if !slices.Contains(s.preselected, id) {
			s.preselected = append(s.preselected, id)
		}
	}
	if found == 0 {
		return s.report(engine.Result{Message: "No object found."})
	}
	return s.report(engine.Result{
		Success: true,
		Message: fmt.Sprintf("%d found, %d total", found, len(s.preselected)),
	})
}

// adopt applies a dispatcher result: the diff goes to the store, a history
// request steps the store, and the state is replaced.
func (s *Session) adopt(next engine.State, res engine.Result) (Outcome, error) {
	if !res.Diff.Empty() {
		if err := s.store.Apply(res.Diff); err != nil {
			s.logger.Error("store rejected diff",
				"command", s.state.Command,
				"error", err,
			)
			s.cancel()
			s.print(s.styles.Error, "Could not apply changes: "+err.Error())
			return Outcome{Message: err.Error()}, fmt.Errorf("applying diff: %w", err)
		}
	}

	switch res.History {
	case engine.HistoryUndo:
		if err := s.store.Undo(); err != nil {
			s.state = next
			return s.report(engine.Result{Message: historyMessage(err)})
		}
	case engine.HistoryRedo:
		if err := s.store.Redo(); err != nil {
			s.state = next
			return s.report(engine.Result{Message: historyMessage(err)})
		}
	}

	s.state = next
	return s.report(res)
}

func historyMessage(err error) string {
	s := err.Error()
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

func (s *Session) create(sh shape.Shape) (Outcome, error) {
	sh = shape.WithID(sh, s.ids.NewID())
	if err := s.store.Apply(engine.Diff{Add: []shape.Shape{sh}}); err != nil {
		s.print(s.styles.Error, "Could not add shape: "+err.Error())
		return Outcome{Message: err.Error()}, fmt.Errorf("adding shape: %w", err)
	}
	return s.report(engine.Result{
		Success: true,
		Message: fmt.Sprintf("Created %s %s.", sh.Base().ID, shape.Describe(sh)),
	})
}

func (s *Session) preview(at geom.Point) Outcome {
	shapes := s.dispatch.Preview(s.state, at, s.store.Snapshot())
	if len(shapes) == 0 {
		s.print(s.styles.Dim, "Nothing to preview.")
		return Outcome{Success: true, Message: "Nothing to preview."}
	}
	for _, sh := range shapes {
		s.print(s.styles.Dim, "  "+shape.Describe(sh))
	}
	return Outcome{Success: true, Message: fmt.Sprintf("%d preview shape(s).", len(shapes))}
}

func (s *Session) save(path string) (Outcome, error) {
	d := storage.NewDrawing(s.name, s.store.Snapshot().All())
	var err error
	switch {
	case path != "":
		err = storage.WriteFile(path, d)
	case s.backend != nil:
		path = s.backend.Path()
		err = s.backend.Save(d)
	default:
		return s.reject("No drawing file; use save <path>.")
	}
	if err != nil {
		s.print(s.styles.Error, "Save failed: "+err.Error())
		return Outcome{Message: err.Error()}, fmt.Errorf("saving %s: %w", path, err)
	}
	s.logger.Info("drawing saved", "path", path, "shapes", len(d.Shapes))
	return s.report(engine.Result{Success: true, Message: fmt.Sprintf("Saved %d object(s) to %s.", len(d.Shapes), path)})
}

func (s *Session) list() {
	all := s.store.Snapshot().All()
	if len(all) == 0 {
		s.print(s.styles.Dim, "Drawing is empty.")
		return
	}
	width := len("ID")
	for _, sh := range all {
		width = max(width, runewidth.StringWidth(string(sh.Base().ID)))
	}
	s.print(s.styles.Header, runewidth.FillRight("ID", width)+"  OBJECT")
	for _, sh := range all {
		line := runewidth.FillRight(string(sh.Base().ID), width) + "  " + shape.Describe(sh)
		var flags []string
		if sh.Base().Locked {
			flags = append(flags, "locked")
		}
		if sh.Base().Hidden {
			flags = append(flags, "hidden")
		}
		if len(flags) > 0 {
			line += " [" + strings.Join(flags, ", ") + "]"
		}
		s.print(s.styles.Success, line)
	}
}

func (s *Session) help() {
	s.print(s.styles.Header, "Commands")
	for _, id := range s.dispatch.Commands() {
		name := string(id)
		if aliases := s.dispatch.Aliases(id); len(aliases) > 0 {
			name += " (" + strings.Join(aliases, ", ") + ")"
		}
		s.print(s.styles.Success, "  "+name)
	}
	s.print(s.styles.Header, "Console")
	for _, v := range Verbs {
		s.print(s.styles.Success, "  "+v.Usage)
	}
}

// cancel drops any active command, as Escape would.
func (s *Session) cancel() {
	if s.state.Active() {
		s.state = s.dispatch.Cancel(s.state)
	}
}

// reject reports a malformed line.
func (s *Session) reject(msg string) (Outcome, error) {
	s.print(s.styles.Error, msg)
	if s.strict {
		return Outcome{Message: msg}, fmt.Errorf("%w: %s", ErrCommandFailed, msg)
	}
	return Outcome{Message: msg}, nil
}

// report prints a result and, when the command goes on, its next prompt.
func (s *Session) report(res engine.Result) (Outcome, error) {
	style := s.styles.Success
	switch {
	case res.Cancelled:
		style = s.styles.Cancel
	case !res.Success:
		style = s.styles.Error
	}
	if res.Message != "" {
		s.print(style, res.Message)
	}
	if s.state.Active() && s.state.Prompt != "" && !strings.HasSuffix(res.Message, s.state.Prompt) {
		s.print(s.styles.Prompt, s.state.Prompt)
	}
	o := Outcome{Success: res.Success || res.Cancelled, Message: res.Message}
	if s.strict && !o.Success {
		return o, fmt.Errorf("%w: %s", ErrCommandFailed, res.Message)
	}
	return o, nil
}

func (s *Session) print(style lipgloss.Style, msg string) {
	s.styles.Fprintln(s.out, style, msg)
}
