package console

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/joeycumines/one-shot-cad/internal/engine"
	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/idgen"
	"github.com/joeycumines/one-shot-cad/internal/shape"
	"github.com/joeycumines/one-shot-cad/internal/storage"
	"github.com/joeycumines/one-shot-cad/internal/store"
)

type harness struct {
	session *Session
	store   *store.Memory
	out     *bytes.Buffer
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	m, err := store.NewMemory(nil)
	require.NoError(t, err)
	ids := idgen.NewSequential("n", 0)
	out := new(bytes.Buffer)
	opts = append([]Option{WithOutput(out)}, opts...)
	return &harness{
		session: NewSession(m, engine.NewDefaultDispatcher(ids, engine.BuiltinDefaults()), ids, opts...),
		store:   m,
		out:     out,
	}
}

// exec runs lines, failing the test on any error.
func (h *harness) exec(t *testing.T, lines ...string) Outcome {
	t.Helper()
	var o Outcome
	for _, line := range lines {
		var err error
		o, err = h.session.Exec(line)
		require.NoError(t, err, "line %q", line)
	}
	return o
}

func (h *harness) shape(t *testing.T, id shape.ID) shape.Shape {
	t.Helper()
	sh, ok := h.store.Snapshot().Lookup(id)
	require.True(t, ok, "shape %s", id)
	return sh
}

func TestSessionCreateAndList(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	o := h.exec(t, "list")
	assert.True(t, o.Success)
	assert.Contains(t, h.out.String(), "Drawing is empty.")

	o = h.exec(t, "line 0,0 10,0")
	assert.True(t, o.Success)
	assert.Equal(t, "Created n1 line 0,0 10,0.", o.Message)
	h.exec(t, "circle 5,5 2")

	h.out.Reset()
	h.exec(t, "list")
	lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID  OBJECT", lines[0])
	assert.Equal(t, "n1  line 0,0 10,0", lines[1])
	assert.Equal(t, "n2  circle 5,5 r=2", lines[2])
}

func TestSessionMove(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.exec(t, "line 0,0 10,0")

	o := h.exec(t, "move")
	assert.Equal(t, "Select objects:", o.Message)
	o = h.exec(t, "select n1")
	assert.Equal(t, "1 found, 1 total", o.Message)
	o = h.exec(t, "")
	assert.Equal(t, "Specify base point:", o.Message)
	h.exec(t, "0,0")
	o = h.exec(t, "@5,5")
	assert.True(t, o.Success)
	assert.Equal(t, "1 object(s) moved.", o.Message)
	assert.False(t, h.session.State().Active())

	line := h.shape(t, "n1").(shape.Line)
	assert.Equal(t, geom.Pt(5, 5), line.Start)
	assert.Equal(t, geom.Pt(15, 5), line.End)
	assert.Contains(t, h.out.String(), "Select objects:\n1 found, 1 total\n")
}

func TestSessionPreselectThenErase(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.exec(t, "line 0,0 10,0", "line 0,5 10,5")

	o := h.exec(t, "pick 5,0")
	assert.Equal(t, "1 found, 1 total", o.Message)
	assert.Equal(t, []shape.ID{"n1"}, h.session.Preselected())

	o = h.exec(t, "erase")
	assert.True(t, o.Success)
	assert.Equal(t, "1 object(s) erased.", o.Message)
	assert.False(t, h.session.State().Active())
	assert.Empty(t, h.session.Preselected())
	assert.Equal(t, 1, h.store.Len())

	o = h.exec(t, "u")
	assert.True(t, o.Success)
	assert.Equal(t, 2, h.store.Len())

	o = h.exec(t, "redo")
	assert.True(t, o.Success)
	assert.Equal(t, 1, h.store.Len())

	o = h.exec(t, "redo")
	assert.False(t, o.Success)
	assert.Equal(t, "Nothing to redo.", o.Message)
}

func TestSessionPickingCommandKeepsPreselection(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"fillet", "offset"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t)
			h.exec(t, "line 0,0 10,0", "line 10,0 10,10")
			h.exec(t, "select n1")

			o := h.exec(t, name)
			assert.True(t, o.Success)
			assert.True(t, h.session.State().Active())
			assert.Equal(t, []shape.ID{"n1"}, h.session.Preselected())

			o = h.exec(t, "esc")
			assert.Equal(t, engine.CancelMessage, o.Message)
			assert.False(t, h.session.State().Active())
			assert.Equal(t, []shape.ID{"n1"}, h.session.Preselected())

			// the next selecting command still gets it
			o = h.exec(t, "erase")
			assert.Equal(t, "1 object(s) erased.", o.Message)
			assert.Empty(t, h.session.Preselected())
		})
	}
}

func TestSessionPickMiss(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.exec(t, "line 0,0 10,0")

	o := h.exec(t, "pick 5,3")
	assert.False(t, o.Success)
	assert.Equal(t, "No object found.", o.Message)
	assert.Empty(t, h.session.Preselected())

	o = h.exec(t, "select n1 nope")
	assert.Equal(t, "1 found, 1 total", o.Message)

	o = h.exec(t, "esc")
	assert.True(t, o.Success)
	assert.Equal(t, engine.CancelMessage, o.Message)
	assert.Empty(t, h.session.Preselected())
}

func TestSessionEnterRepeatsLastCommand(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.exec(t, "line 0,0 10,0")

	o := h.exec(t, "")
	assert.False(t, o.Success)
	assert.Equal(t, "No active command.", o.Message)

	h.exec(t, "erase")
	o = h.exec(t, "esc")
	assert.Equal(t, engine.CancelMessage, o.Message)
	assert.False(t, h.session.State().Active())

	o = h.exec(t, "")
	assert.Equal(t, "Select objects:", o.Message)
	assert.Equal(t, engine.CmdErase, h.session.State().Command)
}

func TestSessionPointAndComment(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	o := h.exec(t, "3,4")
	assert.Equal(t, "Point: 3,4", o.Message)
	o = h.exec(t, "@1,1")
	assert.Equal(t, "Point: 4,5", o.Message)

	h.out.Reset()
	o = h.exec(t, "# nothing happens")
	assert.True(t, o.Success)
	assert.Empty(t, h.out.String())
}

func TestSessionRejectsMalformedLines(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	o := h.exec(t, "circle 0,0 -1")
	assert.False(t, o.Success)
	assert.Equal(t, "radius must be positive", o.Message)

	o = h.exec(t, "frobnicate")
	assert.False(t, o.Success)
	assert.Equal(t, `Unknown command "frobnicate".`, o.Message)

	o = h.exec(t, "save")
	assert.False(t, o.Success)
	assert.Equal(t, "No drawing file; use save <path>.", o.Message)
}

func TestSessionStrict(t *testing.T) {
	t.Parallel()
	h := newHarness(t, WithStrict(true))
	h.exec(t, "line 0,0 10,0")

	_, err := h.session.Exec("pick 50,50")
	require.ErrorIs(t, err, ErrCommandFailed)

	_, err = h.session.Exec("move now")
	require.ErrorIs(t, err, ErrCommandFailed)

	_, err = h.session.Exec("move")
	require.NoError(t, err)
	_, err = h.session.Exec("3")
	require.ErrorIs(t, err, ErrCommandFailed)
	assert.True(t, h.session.State().Active())

	_, err = h.session.Exec("esc")
	require.NoError(t, err)
}

func TestSessionPreview(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.exec(t, "line 0,0 10,0")

	o := h.exec(t, "preview 1,1")
	assert.Equal(t, "Nothing to preview.", o.Message)

	h.exec(t, "move", "select n1", "", "0,0")
	h.out.Reset()
	o = h.exec(t, "preview 0,2")
	assert.Equal(t, "1 preview shape(s).", o.Message)
	assert.Contains(t, h.out.String(), "line 0,2 10,2")
	assert.Equal(t, geom.Pt(0, 0), h.shape(t, "n1").(shape.Line).Start)
}

func TestSessionApplyFailure(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	st := NewMockStore(ctrl)

	line := shape.Line{Meta: shape.Meta{ID: "a"}, Start: geom.Pt(0, 0), End: geom.Pt(10, 0)}
	st.EXPECT().Snapshot().Return(shape.NewSnapshot(line)).AnyTimes()
	st.EXPECT().Apply(gomock.Any()).Return(store.ErrNotFound)

	ids := idgen.NewSequential("n", 0)
	out := new(bytes.Buffer)
	s := NewSession(st, engine.NewDefaultDispatcher(ids, engine.BuiltinDefaults()), ids, WithOutput(out))

	for _, line := range []string{"erase", "select a"} {
		_, err := s.Exec(line)
		require.NoError(t, err)
	}
	_, err := s.Exec("")
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.False(t, s.State().Active())
	assert.Contains(t, out.String(), "Could not apply changes: shape not found")
}

func TestSessionUndoFailure(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	st := NewMockStore(ctrl)

	st.EXPECT().Snapshot().Return(shape.NewSnapshot()).AnyTimes()
	st.EXPECT().Undo().Return(store.ErrNothingToUndo)

	ids := idgen.NewSequential("n", 0)
	s := NewSession(st, engine.NewDefaultDispatcher(ids, engine.BuiltinDefaults()), ids, WithOutput(new(bytes.Buffer)))

	o, err := s.Exec("undo")
	require.NoError(t, err)
	assert.False(t, o.Success)
	assert.Equal(t, "Nothing to undo.", o.Message)
}

func TestSessionSave(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	backend, err := storage.Open(filepath.Join(dir, "part.yaml"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	h := newHarness(t, WithBackend(backend), WithName("part"))
	h.exec(t, "line 0,0 10,0", "circle 0,0 1")

	o := h.exec(t, "save")
	assert.Equal(t, "Saved 2 object(s) to "+backend.Path()+".", o.Message)
	d, err := backend.Load()
	require.NoError(t, err)
	assert.Equal(t, "part", d.Name)
	assert.Len(t, d.Shapes, 2)

	other := filepath.Join(dir, "copy.yaml")
	o = h.exec(t, "save "+other)
	assert.True(t, o.Success)
	_, err = os.Stat(other)
	require.NoError(t, err)
}

func TestSessionRunScript(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	script := strings.Join([]string{
		"# fillet a corner",
		"line 0,0 10,0",
		"line 10,0 10,10",
		"fillet",
		"r",
		"2",
		"pick 0.5,0",
		"pick 10,9.5",
		"quit",
		"circle 0,0 1",
	}, "\n")
	require.NoError(t, h.session.Run(strings.NewReader(script)))

	assert.True(t, h.session.Done())
	all := h.store.Shapes()
	require.Len(t, all, 3)
	first := all[0].(shape.Line)
	assert.InDelta(t, 8, first.End.X, 1e-9)
	assert.InDelta(t, 0, first.End.Y, 1e-9)
	assert.Equal(t, shape.KindArc, all[2].Kind())
	assert.Contains(t, h.out.String(), "> fillet\n")
}

func TestSessionRunStopsOnError(t *testing.T) {
	t.Parallel()
	h := newHarness(t, WithStrict(true))

	err := h.session.Run(strings.NewReader("line 0,0 1,0\ncircle 0,0 0\nline 0,1 1,1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCommandFailed))
	assert.Contains(t, err.Error(), "line 2:")
	assert.Equal(t, 1, h.store.Len())
}

func TestStylesColorMode(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		mode    string
		colored bool
	}{
		{mode: "never"},
		{mode: "off"},
		{mode: "always", colored: true},
	} {
		t.Run(tc.mode, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			st := NewStyles(&buf, tc.mode)
			st.Fprintln(&buf, st.Error, "Lines are parallel.")
			assert.Contains(t, buf.String(), "Lines are parallel.")
			assert.True(t, strings.HasSuffix(buf.String(), "\n"))
			assert.Equal(t, tc.colored, strings.Contains(buf.String(), "\x1b["), "%q", buf.String())
		})
	}
}
