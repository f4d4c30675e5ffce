package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// setupLogging builds a text or json slog handler writing to out and installs
// it as the default logger.
func setupLogging(out io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info", "":
		lvl = slog.LevelInfo
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level: %#v", level)
	}
	hopts := slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch format {
	case "text", "":
		handler = slog.NewTextHandler(out, &hopts)
	case "json":
		handler = slog.NewJSONHandler(out, &hopts)
	default:
		return nil, fmt.Errorf("unknown log format: %#v", format)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}
