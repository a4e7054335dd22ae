package trace

import (
	"io"
	"sync"
)

// RingTracer remembers the most recent events in memory, oldest dropped
// first. It backs the ring and both storage modes.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	start int // index of the oldest event once buf is full
	size  int
	level Level
}

// NewRingTracer returns a ring holding up to size events.
func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = defaultRingSize
	}
	return &RingTracer{buf: make([]Event, 0, size), size: size, level: level}
}

// Emit records ev, evicting the oldest event when the ring is full.
func (t *RingTracer) Emit(ev *Event) {
	if !t.level.Allows(ev) {
		return
	}
	stamp(ev)

	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.buf) < t.size {
		t.buf = append(t.buf, *ev)
		return
	}
	t.buf[t.start] = *ev
	t.start = (t.start + 1) % t.size
}

// Snapshot returns the recorded events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, 0, len(t.buf))
	out = append(out, t.buf[t.start:]...)
	return append(out, t.buf[:t.start]...)
}

// Names returns the event names in order, optionally limited to scopes.
func (t *RingTracer) Names(scopes ...Scope) []string {
	events := t.Snapshot()
	names := make([]string, 0, len(events))
	for _, ev := range events {
		if len(scopes) > 0 && !hasScope(scopes, ev.Scope) {
			continue
		}
		names = append(names, ev.Name)
	}
	return names
}

func hasScope(scopes []Scope, s Scope) bool {
	for _, sc := range scopes {
		if sc == s {
			return true
		}
	}
	return false
}

// Dump writes the recorded events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }

func (t *RingTracer) Close() error { return nil }

func (t *RingTracer) Level() Level { return t.level }

func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
