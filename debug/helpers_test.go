package debug

import (
	"runtime"
	"sync"
	"testing"

	"spyglass/internal/trace"
	"spyglass/sink"
)

// harness is an engine wired to a capture sink, a fake exit and fake
// process hooks.
type harness struct {
	e   *Engine
	out *sink.Capture

	mu         sync.Mutex
	exits      []int
	installs   int
	tracebacks []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, engineOptions{})
}

func newHarnessWith(t *testing.T, o engineOptions) *harness {
	t.Helper()
	h := &harness{out: sink.NewCapture()}
	o.sink = h.out
	o.sourceFile = sourceFile
	o.exit = func(code int) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.exits = append(h.exits, code)
	}
	o.hooks = hookSet{
		install: func(*Engine) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.installs++
		},
		traceback: func(level string) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.tracebacks = append(h.tracebacks, level)
		},
	}
	if o.tracer == nil {
		o.tracer = trace.Nop
	}
	h.e = newEngine(o)
	return h
}

func (h *harness) exitCodes() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]int(nil), h.exits...)
}

// here returns the line of its caller.
func here() int {
	_, _, line, _ := runtime.Caller(1)
	return line
}
