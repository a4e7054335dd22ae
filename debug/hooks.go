package debug

import (
	"fmt"
	"os"
	"os/signal"
	rtdebug "runtime/debug"
	"syscall"

	"spyglass/internal/render"
	"spyglass/internal/trace"
	"spyglass/sink"
)

// Exit codes used by the hooks.
const (
	ExitPanic     = 2
	ExitInterrupt = 130 // 128 + SIGINT
	ExitTerminate = 143 // 128 + SIGTERM
)

// Guard must be deferred at the top of main:
//
//	defer e.Guard()
//
// A panic escaping main is rendered as an exception and the process exits
// with status 2. At level 0 the panic is re-raised untouched. When main
// returns normally the shutdown hook runs.
func (e *Engine) Guard() {
	e.self().handle(recover())
}

func (e *Engine) handle(r any) {
	if r == nil {
		e.Shutdown()
		return
	}
	e.crash(r)
}

// crash renders a recovered panic and terminates. It must run in the
// deferred call so the panicking frames are still on the stack.
func (e *Engine) crash(r any) {
	if e.Level() == LevelSilent {
		panic(r)
	}
	e.exception(newException(r, e.capture()))
	e.Shutdown()
	e.exit(ExitPanic)
}

// Go runs fn in a new goroutine. A panic in fn is handled like a panic
// escaping main. The shutdown hook does not run when fn returns.
func (e *Engine) Go(fn func()) {
	e = e.self()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				e.crash(r)
			}
		}()
		fn()
	}()
}

// Throw renders err as an uncaught exception at the caller's location and
// exits with status 2. At level 0 it panics with err instead.
func (e *Engine) Throw(err error) {
	e = e.self()
	if err == nil {
		return
	}
	if e.Level() == LevelSilent {
		panic(err)
	}
	e.exception(newException(err, e.capture()))
	e.Shutdown()
	e.exit(ExitPanic)
}

// exception is the exception hook. It fires at most once per process; the
// shutdown hook stays quiet afterwards.
func (e *Engine) exception(x *Exception) {
	if e.exceptionFired.Swap(true) {
		return
	}
	trace.Point(e.tracer, trace.ScopeHook, "hook.exception", x.Kind)
	st := e.state()

	e.renderMu.Lock()
	defer e.renderMu.Unlock()
	s := e.Sink()
	closeLine(s)
	e.renderFault(s, x, st.level, st.thresholds)
	_ = sink.Flush(s)
}

// Report is the runtime-error hook. err surfaces at the caller's location
// when the level permits its severity: notices need the all-faults level,
// the rest the dump level. SeverityFatal is held back for the shutdown hook;
// the last one reported wins.
func (e *Engine) Report(sev Severity, err error) {
	e = e.self()
	if err == nil {
		return
	}
	rf := newRuntimeError(sev, err, e.capture())
	trace.Point(e.tracer, trace.ScopeHook, "hook.fault", rf.Severity.String())
	if sev == SeverityFatal {
		e.mu.Lock()
		e.pending = rf
		e.mu.Unlock()
		return
	}

	st := e.state()
	if !st.mask.has(sev) {
		return
	}
	e.renderMu.Lock()
	defer e.renderMu.Unlock()
	s := e.Sink()
	e.renderFault(s, rf, st.level, st.thresholds)
	_ = sink.Flush(s)
}

// Notice reports err with SeverityNotice.
func (e *Engine) Notice(err error) { e.Report(SeverityNotice, err) }

// Warn reports err with SeverityWarning.
func (e *Engine) Warn(err error) { e.Report(SeverityWarning, err) }

// Error reports err with SeverityError.
func (e *Engine) Error(err error) { e.Report(SeverityError, err) }

// Fatal records err for the shutdown hook.
func (e *Engine) Fatal(err error) { e.Report(SeverityFatal, err) }

// Pending returns the fatal fault waiting for the shutdown hook, if any.
func (e *Engine) Pending() *RuntimeError {
	e = e.self()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// Shutdown is the end-of-process hook. It runs once: after an exception it
// does nothing; otherwise it renders a pending fatal fault, then the elapsed
// time at the dump level and the linked modules at the location level.
func (e *Engine) Shutdown() {
	e = e.self()
	e.shutdownOnce.Do(e.shutdown)
}

func (e *Engine) shutdown() {
	span := trace.Begin(e.tracer, trace.ScopeHook, "hook.shutdown", 0)
	defer func() {
		if r := recover(); r != nil {
			trace.Fail(e.tracer, trace.ScopeHook, "hook.shutdown", fmt.Errorf("panic: %v", r))
		}
		span.End("")
		_ = e.tracer.Flush()
	}()

	e.timer.End(e.runPhase, "")
	if e.exceptionFired.Load() {
		span.WithExtra("skipped", "exception")
		return
	}

	st := e.state()
	e.mu.Lock()
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()

	e.renderMu.Lock()
	defer e.renderMu.Unlock()
	s := e.Sink()
	closeLine(s)
	if pending != nil && st.mask.has(SeverityFatal) {
		e.renderFault(s, pending, st.level, st.thresholds)
	}
	if st.level >= st.thresholds.Dump {
		writeValue(s, render.Describe(e.timer.Report(), e.opts))
	}
	if st.level >= st.thresholds.Location {
		writeValue(s, render.Describe(linkedModules(), e.opts))
	}
	_ = sink.Flush(s)
}

// Exit runs the shutdown hook and terminates the process with code.
func (e *Engine) Exit(code int) {
	e = e.self()
	e.Shutdown()
	e.exit(code)
}

// closeLine terminates a line left open by an interrupted write.
func closeLine(s sink.Sink) {
	if sink.OpenLine(s) {
		s.Writeln("", "")
	}
}

// linkedModules lists the main module and its dependencies as recorded in
// the binary.
func linkedModules() []string {
	info, ok := rtdebug.ReadBuildInfo()
	if !ok {
		return []string{}
	}
	mods := make([]string, 0, len(info.Deps)+1)
	mods = append(mods, moduleLine(&info.Main))
	for _, dep := range info.Deps {
		if dep.Replace != nil {
			dep = dep.Replace
		}
		mods = append(mods, moduleLine(dep))
	}
	return mods
}

func moduleLine(m *rtdebug.Module) string {
	if m.Version == "" {
		return m.Path
	}
	return m.Path + " " + m.Version
}

// watchSignals turns SIGINT and SIGTERM into Exit so the shutdown hook runs
// on interrupted processes too.
func watchSignals(e *Engine) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-ch
		signal.Stop(ch)
		e.interrupted(sig)
	}()
}

// interrupted runs the shutdown hook and exits with 128 plus the signal
// number.
func (e *Engine) interrupted(sig os.Signal) {
	trace.Point(e.tracer, trace.ScopeHook, "hook.signal", sig.String())
	code := ExitInterrupt
	if sig == syscall.SIGTERM {
		code = ExitTerminate
	}
	e.Exit(code)
}
