package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"instructions-hq/extractor/pkg/config"
)

// Format represents the log output format.
type Format string

const (
	// FormatJSON outputs logs as JSON objects (one per line).
	FormatJSON Format = "json"

	// FormatText outputs logs as key=value pairs.
	FormatText Format = "text"
)

// New builds a structured logger from the logging configuration. Output goes
// to w, or stdout when w is nil. Sensitive attribute values are masked before
// they reach the handler.
func New(cfg config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return newLogger(cfg, w, level)
}

func newLogger(cfg config.LoggingConfig, w io.Writer, level slog.Leveler) (*slog.Logger, error) {
	format, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	if w == nil {
		w = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:       level,
		AddSource:   cfg.AddSource,
		ReplaceAttr: redactAttr,
	}

	var handler slog.Handler
	switch format {
	case FormatText:
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With("service", "extractor"), nil
}

// processLevel is the level of loggers built by Setup.
var processLevel = new(slog.LevelVar)

// Setup builds a logger like New and installs it as the slog default, so
// packages that log through slog.Default pick up the same configuration.
// Its level can later be changed with SetLevel.
func Setup(cfg config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg, w, processLevel)
	if err != nil {
		return nil, err
	}
	processLevel.Set(level)
	slog.SetDefault(logger)
	return logger, nil
}

// SetLevel changes the level of every logger built by Setup.
func SetLevel(level string) error {
	l, err := parseLevel(level)
	if err != nil {
		return err
	}
	processLevel.Set(l)
	return nil
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", level)
	}
}

// parseFormat converts a string format to Format.
func parseFormat(format string) (Format, error) {
	switch strings.ToLower(format) {
	case "json", "":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	default:
		return FormatJSON, fmt.Errorf("invalid log format: %s (must be json or text)", format)
	}
}
