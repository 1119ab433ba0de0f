package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var level = new(slog.LevelVar)

func ParseLevel(levelStr string) (slog.Level, error) {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", levelStr)
	}
}

// Init makes a text handler writing to filename the default slog logger.
// The file is truncated. Without a filename logs are discarded, since stdout
// carries the protocol.
func Init(levelStr string, filename string) (io.Closer, error) {
	if err := SetLevel(levelStr); err != nil {
		return nil, err
	}

	if filename == "" {
		slog.SetDefault(New(io.Discard))
		return io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	logfile, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o666)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	slog.SetDefault(New(logfile))
	return logfile, nil
}

// New returns a text logger sharing the process-wide level.
func New(w io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

func SetLevel(levelStr string) error {
	l, err := ParseLevel(levelStr)
	if err != nil {
		return err
	}
	level.Set(l)
	return nil
}

func Level() slog.Level {
	return level.Level()
}
