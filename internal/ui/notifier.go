package ui

import (
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/fatih/color"
)

// hintEvery controls how often the spinner hint follows the walk.
const hintEvery = 64

// MessageNotifier logs every visited entry and, when a console writer is set,
// echoes it there. With a loader it keeps the spinner hint on the current path.
type MessageNotifier struct {
	console io.Writer
	loader  *Loader
	dir     *color.Color
	file    *color.Color
	seen    atomic.Int64
}

func NewMessageNotifier(console io.Writer, loader *Loader) *MessageNotifier {
	return &MessageNotifier{
		console: console,
		loader:  loader,
		dir:     color.New(color.FgBlue, color.Bold),
		file:    color.New(color.FgWhite),
	}
}

func (n *MessageNotifier) FoundDirectory(path string) {
	slog.Info("found directory", "path", path)
	n.emit(n.dir, "found directory at: ", path)
}

func (n *MessageNotifier) FoundFile(path string) {
	slog.Info("found file", "path", path)
	n.emit(n.file, "found file at: ", path)
}

func (n *MessageNotifier) emit(c *color.Color, prefix, path string) {
	if n.console != nil {
		c.Fprintln(n.console, prefix+path)
	}
	if n.seen.Add(1)%hintEvery == 1 {
		n.loader.TickHint(path)
	}
}
