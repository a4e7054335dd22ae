package sink

import (
	"bufio"
	"html"
	"io"
	"strings"
	"sync"
)

// HTML writes inline markup. All text is escaped before it is written, so
// values rendered into a browser can never inject markup.
type HTML struct {
	mu   sync.Mutex
	w    io.Writer
	open bool
}

// NewHTML creates a markup sink writing to w.
func NewHTML(w io.Writer) *HTML {
	return &HTML{w: w}
}

// NewBufferedHTML wraps w in a bufio.Writer; call Flush when the response ends.
func NewBufferedHTML(w io.Writer) *HTML {
	return &HTML{w: bufio.NewWriter(w)}
}

// CSS returns the inline style declaration for style, or "" if it is unknown.
func CSS(style string) string {
	resolved := Resolve(style)
	if len(resolved) == 0 {
		return ""
	}
	decls := make([]string, 0, len(resolved))
	for _, e := range resolved {
		decls = append(decls, e.CSS)
	}
	return strings.Join(decls, ";")
}

// Markup returns the escaped, styled markup for text without writing it.
func Markup(text, style string) string {
	if text == "" {
		return ""
	}
	escaped := html.EscapeString(text)
	escaped = strings.ReplaceAll(escaped, "  ", "&nbsp; ")
	escaped = strings.ReplaceAll(escaped, "\n", "<br>\n")
	css := CSS(style)
	if css == "" {
		return escaped
	}
	return `<span style="` + css + `">` + escaped + `</span>`
}

// Write emits styled markup.
func (h *HTML) Write(text, style string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.write(text, style)
}

// Writeln emits styled markup followed by a line break.
func (h *HTML) Writeln(text, style string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.write(text, style)
	_, _ = io.WriteString(h.w, "<br>\n")
	h.open = false
}

func (h *HTML) write(text, style string) {
	if text == "" {
		return
	}
	_, _ = io.WriteString(h.w, Markup(text, style))
	h.open = !strings.HasSuffix(text, "\n")
}

// Flush flushes the underlying writer if it buffers.
func (h *HTML) Flush() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if flusher, ok := h.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// OpenLine reports whether the last write left a line unterminated.
func (h *HTML) OpenLine() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.open
}
