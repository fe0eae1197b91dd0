package command

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/joeycumines/one-shot-cad/internal/config"
	"github.com/joeycumines/one-shot-cad/internal/console"
	"github.com/joeycumines/one-shot-cad/internal/engine"
	"github.com/joeycumines/one-shot-cad/internal/idgen"
	"github.com/joeycumines/one-shot-cad/internal/shape"
	"github.com/joeycumines/one-shot-cad/internal/storage"
	"github.com/joeycumines/one-shot-cad/internal/store"
)

// editor is a console session over an in-memory store, configured from the
// config file. draw and run both build one.
type editor struct {
	session *console.Session
	store   *store.Memory
}

type editorOptions struct {
	cfg     *config.Config
	drawing *storage.Drawing
	out     io.Writer
	logger  *slog.Logger
	color   string
	extra   []console.Option
}

func newEditor(o editorOptions) (*editor, error) {
	defaults, err := config.EngineDefaults(o.cfg)
	if err != nil {
		return nil, err
	}
	limit, err := config.HistoryLimit(o.cfg)
	if err != nil {
		return nil, err
	}
	ids, err := idgen.New(config.DefaultSchema().Resolve(o.cfg, "id.format"))
	if err != nil {
		return nil, err
	}

	var shapes []shape.Shape
	if o.drawing != nil {
		if shapes, err = o.drawing.Decode(); err != nil {
			return nil, err
		}
	}
	if seq, ok := ids.(*idgen.Sequential); ok {
		for _, s := range shapes {
			seq.Reserve(s.Base().ID)
		}
	}

	mem, err := store.NewMemory(shapes, store.WithHistoryLimit(limit), store.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("loading shapes: %w", err)
	}
	dispatch := engine.NewDefaultDispatcher(ids, defaults, engine.WithLogger(o.logger))

	color := o.color
	if color == "" {
		color = config.DefaultSchema().Resolve(o.cfg, "color")
	}
	opts := []console.Option{
		console.WithOutput(o.out),
		console.WithLogger(o.logger),
		console.WithStyles(console.NewStyles(o.out, color)),
		console.WithPickTolerance(defaults.PickTolerance),
	}
	if o.drawing != nil {
		opts = append(opts, console.WithName(o.drawing.Name))
	}
	return &editor{
		session: console.NewSession(mem, dispatch, ids, append(opts, o.extra...)...),
		store:   mem,
	}, nil
}

// drawingName is the name recorded in a new drawing file: its base name
// without extension.
func drawingName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
