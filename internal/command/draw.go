package command

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/joeycumines/one-shot-cad/internal/config"
	"github.com/joeycumines/one-shot-cad/internal/console"
	"github.com/joeycumines/one-shot-cad/internal/storage"
)

// DrawCommand edits a drawing at the terminal. When stdin is not a terminal
// it reads console lines from stdin instead, without the prompt UI.
type DrawCommand struct {
	*BaseCommand
	config *config.Config

	logFile  string
	logLevel string
	color    string

	stdin      io.Reader
	isTerminal func() bool
}

func NewDrawCommand(cfg *config.Config) *DrawCommand {
	return &DrawCommand{
		BaseCommand: NewBaseCommand("draw", "Edit a drawing interactively", "draw [options] [file]"),
		config:      cfg,
		stdin:       os.Stdin,
		isTerminal:  func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
}

func (c *DrawCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.logFile, "log-file", "", "Write logs to this file as JSON")
	fs.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&c.color, "color", "", "Color mode: auto, always, never (default from config)")
}

func (c *DrawCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if err := c.checkArgs(args, 0, 1, stderr); err != nil {
		return err
	}

	lc, err := resolveLogConfig(c.logFile, c.logLevel, c.config)
	if err != nil {
		return err
	}
	defer func() { _ = lc.Close() }()
	logger := lc.logger(stderr, c.color == "never")

	o := editorOptions{cfg: c.config, out: stdout, logger: logger, color: c.color}
	if len(args) == 1 {
		path := args[0]
		backend, err := storage.Open(path)
		if err != nil {
			if errors.Is(err, storage.ErrLocked) {
				_, _ = fmt.Fprintf(stderr, "%s is open in another oscad session\n", path)
			}
			return err
		}
		defer func() {
			if err := backend.Close(); err != nil {
				logger.Warn("closing drawing", "path", path, "error", err)
			}
		}()
		d, err := backend.Load()
		if err != nil {
			return err
		}
		if d == nil {
			d = storage.NewDrawing(drawingName(path), nil)
			_, _ = fmt.Fprintf(stdout, "New drawing %s.\n", path)
		}
		o.drawing = d
		o.extra = append(o.extra, console.WithBackend(backend))
	}

	ed, err := newEditor(o)
	if err != nil {
		return err
	}
	logger.Debug("drawing opened", "shapes", ed.store.Len())

	if c.isTerminal() {
		ed.session.RunInteractive(config.DefaultSchema().Resolve(c.config, "history.file"))
		return nil
	}
	return ed.session.Run(c.stdin)
}
