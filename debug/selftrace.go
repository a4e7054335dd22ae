package debug

import (
	"fmt"

	"spyglass/internal/trace"
)

// newTracer builds the engine's own event log. Errors leave tracing off.
func newTracer(tc TraceConfig) (trace.Tracer, error) {
	level, err := trace.ParseLevel(tc.Level)
	if err != nil {
		return trace.Nop, fmt.Errorf("debug: self trace: %w", err)
	}
	if level == trace.LevelOff {
		return trace.Nop, nil
	}
	mode, err := trace.ParseMode(tc.Mode)
	if err != nil {
		return trace.Nop, fmt.Errorf("debug: self trace: %w", err)
	}
	t, err := trace.New(trace.Config{Level: level, Mode: mode, OutputPath: tc.Output})
	if err != nil {
		return trace.Nop, fmt.Errorf("debug: self trace: %w", err)
	}
	return t, nil
}
