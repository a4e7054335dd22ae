// Package sink provides the styled text writers that diagnostic output is
// rendered into.
//
// A Sink receives text together with a style name. Style names come from a
// closed palette (see palette.go): raw attributes such as "bold" or
// "light_red", and themes such as "info", "warning", "error", "success" and
// "key". Several names may be combined with commas ("light_red, bold").
// Unknown names degrade to no styling, they never fail.
//
// Two rendering surfaces are provided:
//
//   - Terminal: ANSI escape sequences (github.com/fatih/color).
//   - HTML: inline <span style="..."> markup for web response streams.
//
// Capture, Nop and Multi are utility sinks for tests and fan-out.
package sink

import (
	"strings"
	"sync"
)

// Sink consumes styled text.
type Sink interface {
	// Write emits text with the named style.
	Write(text, style string)
	// Writeln emits text with the named style followed by a line break.
	Writeln(text, style string)
}

// Flusher is implemented by sinks that buffer output.
type Flusher interface {
	Flush() error
}

// LineTracker is implemented by sinks that know whether the last write left a
// line unterminated.
type LineTracker interface {
	OpenLine() bool
}

// Flush flushes s if it buffers output.
func Flush(s Sink) error {
	if f, ok := s.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// OpenLine reports whether s has an unterminated line.
func OpenLine(s Sink) bool {
	if lt, ok := s.(LineTracker); ok {
		return lt.OpenLine()
	}
	return false
}

type nopSink struct{}

func (nopSink) Write(string, string)   {}
func (nopSink) Writeln(string, string) {}

// Nop discards everything.
var Nop Sink = nopSink{}

// Multi fans writes out to several sinks.
type Multi struct {
	sinks []Sink
}

// NewMulti creates a sink that writes to every non-nil sink in order.
func NewMulti(sinks ...Sink) *Multi {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &Multi{sinks: out}
}

// Write forwards to all sinks.
func (m *Multi) Write(text, style string) {
	for _, s := range m.sinks {
		s.Write(text, style)
	}
}

// Writeln forwards to all sinks.
func (m *Multi) Writeln(text, style string) {
	for _, s := range m.sinks {
		s.Writeln(text, style)
	}
}

// Flush flushes all sinks and returns the first error.
func (m *Multi) Flush() error {
	var firstErr error
	for _, s := range m.sinks {
		if err := Flush(s); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OpenLine reports true if any sink has an open line.
func (m *Multi) OpenLine() bool {
	for _, s := range m.sinks {
		if OpenLine(s) {
			return true
		}
	}
	return false
}

// Record is one write captured by Capture.
type Record struct {
	Text    string
	Style   string
	Newline bool
}

// Capture keeps every write in memory.
type Capture struct {
	mu      sync.Mutex
	records []Record
	open    bool
}

// NewCapture creates an empty Capture sink.
func NewCapture() *Capture { return &Capture{} }

// Write records text.
func (c *Capture) Write(text, style string) {
	c.mu.Lock()
	c.records = append(c.records, Record{Text: text, Style: style})
	if text != "" {
		c.open = !strings.HasSuffix(text, "\n")
	}
	c.mu.Unlock()
}

// Writeln records text followed by a line break.
func (c *Capture) Writeln(text, style string) {
	c.mu.Lock()
	c.records = append(c.records, Record{Text: text, Style: style, Newline: true})
	c.open = false
	c.mu.Unlock()
}

// Records returns a copy of the recorded writes.
func (c *Capture) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// String returns the unstyled text.
func (c *Capture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var sb strings.Builder
	for _, r := range c.records {
		sb.WriteString(r.Text)
		if r.Newline {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Lines returns the unstyled text split into lines, without the trailing
// empty element.
func (c *Capture) Lines() []string {
	s := c.String()
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// OpenLine reports whether the last record left a line open.
func (c *Capture) OpenLine() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Reset drops all records.
func (c *Capture) Reset() {
	c.mu.Lock()
	c.records = nil
	c.open = false
	c.mu.Unlock()
}
