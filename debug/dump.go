package debug

import (
	"spyglass/internal/render"
	"spyglass/internal/trace"
	"spyglass/sink"
)

// Dump prints v in an indented key/value layout. Unless showTrace is given
// as false, the location of the call follows at LevelLocation and the full
// stack at LevelTrace. Nothing is printed below the dump threshold.
func (e *Engine) Dump(v any, showTrace ...bool) {
	e.self().dump(v, len(showTrace) == 0 || showTrace[0])
}

// D dumps every value with its location.
func (e *Engine) D(values ...any) {
	e = e.self()
	for _, v := range values {
		e.dump(v, true)
	}
}

// DD dumps v like Dump, then runs the shutdown hook and exits with status 0.
func (e *Engine) DD(v any, showTrace ...bool) {
	e = e.self()
	e.dump(v, len(showTrace) == 0 || showTrace[0])
	e.Exit(0)
}

func (e *Engine) dump(v any, withTrace bool) {
	st := e.state()
	if st.level < st.thresholds.Dump {
		return
	}
	span := trace.Begin(e.tracer, trace.ScopeRender, "dump", 0)
	defer span.End("")

	node := render.Describe(v, e.opts)
	span.WithExtra("kind", node.Kind.String())
	var frames []Frame
	if withTrace && st.level >= st.thresholds.Location {
		frames = e.capture()
	}

	e.renderMu.Lock()
	defer e.renderMu.Unlock()
	s := e.Sink()
	writeValue(s, node)
	if frames != nil {
		e.writeFrames(s, frames, st.level >= st.thresholds.FullTrace)
	}
	_ = sink.Flush(s)
}

// writeValue prints n line by line. [key] markers get the "key" style.
func writeValue(s sink.Sink, n *render.Node) {
	for _, line := range render.Lines(n) {
		for _, seg := range render.Segments(line) {
			style := "info"
			if seg.Key {
				style = "key"
			}
			s.Write(seg.Text, style)
		}
		s.Writeln("", "info")
	}
}
