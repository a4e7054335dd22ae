// Package trace records the diagnostic engine's own lifecycle.
//
// The engine renders other programs' faults, so it cannot use itself to
// report on itself. This package is the side channel: a small event log of
// what the engine did (enable, lock, hook installation, hook invocations,
// dumps) that can be streamed to stderr or a file, or kept in memory.
//
// # Usage
//
// Enable tracing through the environment or the CLI:
//
//	SPYGLASS_TRACE=- SPYGLASS_TRACE_LEVEL=render ./app
//	spyglass demo panic --trace=trace.ndjson --trace-level=debug
//
// # Tracers
//
//   - Nop: disabled tracing
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for post-mortem inspection
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: only error events
//   - LevelState: engine state changes and hook invocations
//   - LevelRender: plus dump and trace rendering
//   - LevelDebug: plus per-frame detail
//
// # Spans
//
//	span := trace.Begin(t, trace.ScopeRender, "dump", 0)
//	defer span.End("")
package trace
