package command

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"time"

	"github.com/lmittmann/tint"

	"github.com/joeycumines/one-shot-cad/internal/config"
)

// LogCommand prints the most recent entries of the JSON log file written by
// draw and run, optionally following it as new entries arrive.
type LogCommand struct {
	*BaseCommand
	config *config.Config
	follow bool
	lines  int
	file   string
	level  string
	color  string
}

// NewLogCommand creates a new log command.
func NewLogCommand(cfg *config.Config) *LogCommand {
	return &LogCommand{
		BaseCommand: NewBaseCommand("log", "Show entries from the log file", "log [tail] [options]"),
		config:      cfg,
	}
}

// SetupFlags configures the flags for the log command.
func (c *LogCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.follow, "f", false, "Follow the log file")
	fs.BoolVar(&c.follow, "follow", false, "Follow the log file")
	fs.IntVar(&c.lines, "n", 10, "Number of entries to show from the end of the file")
	fs.StringVar(&c.file, "file", "", "Path to log file (overrides config log.file)")
	fs.StringVar(&c.level, "level", "debug", "Minimum level to show: debug, info, warn, error")
	fs.StringVar(&c.color, "color", "", "Colorize output: auto, always, never (overrides config color)")
}

// Execute runs the log command.
func (c *LogCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 && args[0] == "tail" {
		c.follow = true
		args = args[1:]
	}
	if err := c.checkArgs(args, 0, 0, stderr); err != nil {
		return err
	}

	floor, err := parseLevel(c.level)
	if err != nil {
		return err
	}

	path := c.file
	if path == "" {
		path = resolveLogPath(c.config)
	}
	if path == "" {
		_, _ = fmt.Fprintln(stderr, "No log file configured. Use -file or set log.file in config.")
		return errors.New("no log file configured")
	}

	color := c.color
	if color == "" {
		color = config.DefaultSchema().Resolve(c.configOrEmpty(), "color")
	}
	p := newLogPrinter(stdout, floor, color != "always")

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			_, _ = fmt.Fprintf(stderr, "Log file does not exist: %s\n", path)
			return fmt.Errorf("log file not found: %s", path)
		}
		return fmt.Errorf("failed to open log file: %w", err)
	}

	for _, line := range lastEntries(f, c.lines, floor) {
		p.print(line)
	}
	if !c.follow {
		return f.Close()
	}

	pos, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to seek to end: %w", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = followLog(ctx, f, path, pos, 200*time.Millisecond, p.print)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (c *LogCommand) configOrEmpty() *config.Config {
	if c.config == nil {
		return config.NewConfig()
	}
	return c.config
}

// resolveLogPath returns log.file from the config or OSCAD_LOG_FILE.
func resolveLogPath(cfg *config.Config) string {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return config.DefaultSchema().Resolve(cfg, "log.file")
}

// lastEntries returns the last n lines of r at or above floor. Lines that
// are not JSON log records always pass.
func lastEntries(r io.Reader, n int, floor slog.Level) [][]byte {
	if n <= 0 {
		return nil
	}
	ring := make([][]byte, n)
	count := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if lvl, ok := entryLevel(line); ok && lvl < floor {
			continue
		}
		ring[count%n] = slices.Clone(line)
		count++
	}
	total := min(count, n)
	out := make([][]byte, total)
	for i := range total {
		out[i] = ring[(count-total+i)%n]
	}
	return out
}

func entryLevel(line []byte) (slog.Level, bool) {
	var rec struct {
		Level string `json:"level"`
	}
	if json.Unmarshal(line, &rec) != nil || rec.Level == "" {
		return 0, false
	}
	var lvl slog.Level
	if lvl.UnmarshalText([]byte(rec.Level)) != nil {
		return 0, false
	}
	return lvl, true
}

// logPrinter re-renders JSON records through tint so that the file reads
// like the console output of an interactive session.
type logPrinter struct {
	out     io.Writer
	handler slog.Handler
	floor   slog.Level
}

func newLogPrinter(w io.Writer, floor slog.Level, noColor bool) *logPrinter {
	return &logPrinter{
		out:   w,
		floor: floor,
		handler: tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelDebug - 4,
			TimeFormat: time.DateTime,
			NoColor:    noColor,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == "error" {
					return tint.Attr(9, a)
				}
				return a
			},
		}),
	}
}

func (p *logPrinter) print(line []byte) {
	rec, ok := decodeEntry(line)
	if !ok {
		_, _ = fmt.Fprintf(p.out, "%s\n", line)
		return
	}
	if rec.Level < p.floor {
		return
	}
	_ = p.handler.Handle(context.Background(), rec)
}

// decodeEntry converts one line of slog JSON output back into a record.
// Attributes are emitted in key order.
func decodeEntry(line []byte) (slog.Record, bool) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return slog.Record{}, false
	}
	msg, _ := m[slog.MessageKey].(string)
	lvlText, _ := m[slog.LevelKey].(string)
	var lvl slog.Level
	if lvlText == "" || lvl.UnmarshalText([]byte(lvlText)) != nil {
		return slog.Record{}, false
	}
	var ts time.Time
	if s, ok := m[slog.TimeKey].(string); ok {
		ts, _ = time.Parse(time.RFC3339Nano, s)
	}
	rec := slog.NewRecord(ts, lvl, msg, 0)
	keys := make([]string, 0, len(m))
	for k := range m {
		switch k {
		case slog.TimeKey, slog.LevelKey, slog.MessageKey:
		default:
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		rec.AddAttrs(slog.Any(k, m[k]))
	}
	return rec, true
}

// followLog polls f for appended lines until ctx is done. When the file at
// path shrinks below the read offset it was rotated, and it is reopened
// from the start.
func followLog(ctx context.Context, f *os.File, path string, pos int64, every time.Duration, emit func([]byte)) error {
	reader := bufio.NewReader(f)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	defer func() { _ = f.Close() }()

	var partial []byte
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if fi, err := os.Stat(path); err != nil || fi.Size() < pos {
			nf, err := os.Open(path)
			if err != nil {
				continue
			}
			_ = f.Close()
			f = nf
			reader = bufio.NewReader(f)
			pos = 0
			partial = nil
		}

		for {
			chunk, err := reader.ReadBytes('\n')
			pos += int64(len(chunk))
			partial = append(partial, chunk...)
			if err != nil {
				break
			}
			line := bytes.TrimRight(partial, "\r\n")
			if len(line) > 0 {
				emit(slices.Clone(line))
			}
			partial = partial[:0]
		}
	}
}
