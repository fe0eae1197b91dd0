package command

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/joeycumines/one-shot-cad/internal/config"
)

// logConfig holds the resolved logging setup for a command run.
type logConfig struct {
	level slog.Level
	// file is nil unless a log file was configured. The caller closes it.
	file io.WriteCloser
}

// resolveLogConfig resolves the log level and file: flag, then environment
// and config file, then the schema default. cfg may be nil.
func resolveLogConfig(flagPath, flagLevel string, cfg *config.Config) (logConfig, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	schema := config.DefaultSchema()
	var lc logConfig

	levelStr := flagLevel
	if levelStr == "" {
		levelStr = schema.Resolve(cfg, "log.level")
	}
	level, err := parseLevel(levelStr)
	if err != nil {
		return lc, err
	}
	lc.level = level

	path := flagPath
	if path == "" {
		path = schema.Resolve(cfg, "log.file")
	}
	if path == "" {
		return lc, nil
	}

	maxSize, err := strconv.Atoi(schema.Resolve(cfg, "log.max-size-mb"))
	if err != nil {
		return lc, fmt.Errorf("log.max-size-mb: %w", err)
	}
	keep, err := strconv.Atoi(schema.Resolve(cfg, "log.max-files"))
	if err != nil {
		return lc, fmt.Errorf("log.max-files: %w", err)
	}
	w, err := openRotatingFile(path, maxSize, keep)
	if err != nil {
		return lc, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	lc.file = w
	return lc, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level: %s", s)
}

// logger builds the run's logger. With a log file, records go there as JSON;
// otherwise they go to stderr through tint.
func (lc logConfig) logger(stderr io.Writer, noColor bool) *slog.Logger {
	if lc.file != nil {
		return slog.New(slog.NewJSONHandler(lc.file, &slog.HandlerOptions{Level: lc.level}))
	}
	return slog.New(tint.NewHandler(stderr, &tint.Options{
		Level:      lc.level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Value.Kind() == slog.KindAny {
				if _, ok := a.Value.Any().(error); ok {
					return tint.Attr(9, a)
				}
			}
			return a
		},
	}))
}

func (lc logConfig) Close() error {
	if lc.file == nil {
		return nil
	}
	return lc.file.Close()
}
