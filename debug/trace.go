package debug

import (
	"spyglass/internal/stack"
	"spyglass/internal/trace"
	"spyglass/sink"
)

// Frame is one call-stack entry. Empty strings and a zero Line mean the
// information is not available.
type Frame = stack.Frame

// Trace prints frames, or the current stack when none are given. Frames of
// the engine itself are left out. Below LevelTrace only the first frame is
// printed; nothing is printed below the dump threshold.
func (e *Engine) Trace(frames ...Frame) {
	e = e.self()
	st := e.state()
	if st.level < st.thresholds.Dump {
		return
	}
	if len(frames) == 0 {
		frames = e.capture()
	} else {
		frames = stack.Filter(frames, e.selfFrames)
	}

	e.renderMu.Lock()
	defer e.renderMu.Unlock()
	s := e.Sink()
	e.writeFrames(s, frames, st.level >= st.thresholds.FullTrace)
	_ = sink.Flush(s)
}

// capture returns the caller's stack without the engine's own frames.
func (e *Engine) capture() []Frame {
	return stack.Filter(stack.Capture(0), e.selfFrames)
}

// writeFrames prints one line per frame: the location in "info" for the
// first frame and "light_gray" after it, the caller tag in "dark".
func (e *Engine) writeFrames(s sink.Sink, frames []Frame, full bool) {
	for i, fr := range frames {
		if i > 0 && !full {
			break
		}
		style := "light_gray"
		if i == 0 {
			style = "info"
		}
		loc := stack.Location(fr, e.LimitPath)
		trace.Point(e.tracer, trace.ScopeFrame, "frame", loc)
		tag := stack.Tag(fr)
		if tag == "" {
			s.Writeln(loc, style)
			continue
		}
		s.Write(loc, style)
		s.Writeln(", "+tag, "dark")
	}
}
