package command

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joeycumines/one-shot-cad/internal/config"
	"github.com/joeycumines/one-shot-cad/internal/console"
	"github.com/joeycumines/one-shot-cad/internal/storage"
)

// RunCommand executes a script of console lines against a drawing.
type RunCommand struct {
	*BaseCommand
	config *config.Config

	in       string
	out      string
	strict   bool
	logFile  string
	logLevel string

	stdin io.Reader
}

func NewRunCommand(cfg *config.Config) *RunCommand {
	return &RunCommand{
		BaseCommand: NewBaseCommand(
			"run",
			"Run a script of console lines against a drawing",
			"run [options] <script|->",
		),
		config: cfg,
		stdin:  os.Stdin,
	}
}

func (c *RunCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.in, "in", "", "Drawing to start from (default: an empty drawing)")
	fs.StringVar(&c.out, "out", "", "Write the resulting drawing here")
	fs.BoolVar(&c.strict, "strict", false, "Stop at the first rejected line")
	fs.StringVar(&c.logFile, "log-file", "", "Write logs to this file as JSON")
	fs.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func (c *RunCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if err := c.checkArgs(args, 1, 1, stderr); err != nil {
		return err
	}

	lc, err := resolveLogConfig(c.logFile, c.logLevel, c.config)
	if err != nil {
		return err
	}
	defer func() { _ = lc.Close() }()
	logger := lc.logger(stderr, true)

	script := c.stdin
	name := "stdin"
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		script = f
		name = drawingName(args[0])
	}

	var d *storage.Drawing
	if c.in != "" {
		if d, err = storage.ReadFile(c.in); err != nil {
			return err
		}
	} else {
		d = storage.NewDrawing(name, nil)
	}

	// Without -out, a bare save in the script stays in memory.
	var backend storage.Backend = storage.NewInMemoryBackend(name)
	if c.out != "" {
		fsb, err := storage.Open(c.out)
		if err != nil {
			return err
		}
		defer func() { _ = fsb.Close() }()
		backend = fsb
	}

	ed, err := newEditor(editorOptions{
		cfg:     c.config,
		drawing: d,
		out:     stdout,
		logger:  logger,
		extra: []console.Option{
			console.WithBackend(backend),
			console.WithStrict(c.strict),
		},
	})
	if err != nil {
		return err
	}
	if err := ed.session.Run(script); err != nil {
		return err
	}

	if c.out == "" {
		return nil
	}
	d.SetShapes(ed.store.Shapes())
	if err := backend.Save(d); err != nil {
		return err
	}
	abs, _ := filepath.Abs(c.out)
	logger.Info("drawing written", "path", abs, "shapes", len(d.Shapes))
	_, _ = fmt.Fprintf(stdout, "Wrote %d object(s) to %s.\n", len(d.Shapes), c.out)
	return nil
}
