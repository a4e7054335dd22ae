package sink

import (
	"bufio"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Terminal writes ANSI-styled text.
type Terminal struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
	open  bool
}

// NewTerminal creates a terminal sink. When useColor is false styles are
// ignored and text is written verbatim.
func NewTerminal(w io.Writer, useColor bool) *Terminal {
	return &Terminal{w: w, color: useColor}
}

// NewBufferedTerminal wraps w in a bufio.Writer; call Flush before exit.
func NewBufferedTerminal(w io.Writer, useColor bool) *Terminal {
	return &Terminal{w: bufio.NewWriter(w), color: useColor}
}

// Colored reports whether escape sequences are emitted.
func (t *Terminal) Colored() bool { return t.color }

// Paint returns text wrapped in the escape sequences for style.
func (t *Terminal) Paint(text, style string) string {
	if !t.color || text == "" {
		return text
	}
	resolved := Resolve(style)
	if len(resolved) == 0 {
		return text
	}
	attrs := make([]color.Attribute, 0, len(resolved))
	for _, e := range resolved {
		attrs = append(attrs, e.ANSI)
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}

// Write emits styled text.
func (t *Terminal) Write(text, style string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.write(text, style)
}

// Writeln emits styled text and a newline.
func (t *Terminal) Writeln(text, style string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.write(text, style)
	// Best-effort write - diagnostics never fail the host program
	_, _ = io.WriteString(t.w, "\n")
	t.open = false
}

func (t *Terminal) write(text, style string) {
	if text == "" {
		return
	}
	_, _ = io.WriteString(t.w, t.Paint(text, style))
	t.open = !strings.HasSuffix(text, "\n")
}

// Flush flushes the underlying writer if it buffers.
func (t *Terminal) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if flusher, ok := t.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// OpenLine reports whether the last write left a line unterminated.
func (t *Terminal) OpenLine() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.open
}
