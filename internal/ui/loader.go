package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Loader draws a one-line spinner on a terminal while a long operation runs.
// On anything that is not a terminal it stays silent.
type Loader struct {
	msg      string
	interval time.Duration
	out      io.Writer
	done     chan struct{}
	wg       sync.WaitGroup
	enabled  bool

	mu   sync.Mutex
	hint string
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// Start begins spinning on stdout when it is a terminal.
func Start(message string, interval time.Duration) *Loader {
	return start(os.Stdout, isTerminal(os.Stdout), message, interval)
}

func start(out io.Writer, enabled bool, message string, interval time.Duration) *Loader {
	l := &Loader{
		msg:      message,
		interval: interval,
		out:      out,
		done:     make(chan struct{}),
		enabled:  enabled,
	}
	if !l.enabled {
		return l
	}
	frames := []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		t := time.NewTicker(l.interval)
		defer t.Stop()
		i := 0
		for {
			select {
			case <-l.done:
				fmt.Fprint(l.out, "\r\033[2K")
				return
			case <-t.C:
				l.mu.Lock()
				hint := l.hint
				l.mu.Unlock()
				if hint != "" {
					fmt.Fprintf(l.out, "\r\033[2K%c %s: %s", frames[i%len(frames)], l.msg, hint)
				} else {
					fmt.Fprintf(l.out, "\r\033[2K%c %s", frames[i%len(frames)], l.msg)
				}
				i++
			}
		}
	}()
	return l
}

// TickHint sets the text shown next to the spinner on the following frame.
func (l *Loader) TickHint(hint string) {
	if l == nil || !l.enabled {
		return
	}
	l.mu.Lock()
	l.hint = hint
	l.mu.Unlock()
}

// Stop clears the spinner and prints finalLine, if any.
func (l *Loader) Stop(finalLine string) {
	if l == nil || !l.enabled {
		return
	}
	select {
	case <-l.done:
		return
	default:
		close(l.done)
	}
	l.wg.Wait()
	if finalLine != "" {
		fmt.Fprintf(l.out, "\r\033[2K%s\n", finalLine)
	} else {
		fmt.Fprintln(l.out)
	}
}
