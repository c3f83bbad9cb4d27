package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// New returns a text logger writing to w. verbose lowers the level to debug.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Open appends log records to the file at path. The returned closer closes
// the log file.
func Open(path string, verbose bool) (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log %s: %w", path, err)
	}
	return New(f, verbose), f, nil
}
