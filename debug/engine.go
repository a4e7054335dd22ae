package debug

import (
	"fmt"
	"os"
	rtdebug "runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"spyglass/internal/observ"
	"spyglass/internal/render"
	"spyglass/internal/stack"
	"spyglass/internal/trace"
	"spyglass/sink"
)

// processStart approximates the start of the process.
var processStart = time.Now()

// Engine is the process-wide diagnostic engine. Obtain it with Instance.
//
// A zero Engine is not a second engine: its methods forward to Instance.
type Engine struct {
	ready bool

	mu         sync.Mutex
	level      Level
	locked     bool
	mask       severityMask
	sink       sink.Sink
	pending    *RuntimeError
	thresholds Thresholds

	// renderMu keeps the lines of one dump or fault together.
	renderMu sync.Mutex

	opts       render.Options
	root       string
	selfFrames stack.Matcher

	hookOnce       sync.Once
	hooksInstalled atomic.Bool
	shutdownOnce   sync.Once
	exceptionFired atomic.Bool

	hooks    hookSet
	exit     func(code int)
	tracer   trace.Tracer
	timer    *observ.Timer
	runPhase int
}

// hookSet holds the process-level side effects of Enable. Tests replace it.
type hookSet struct {
	install   func(e *Engine)    // signal watcher
	traceback func(level string) // runtime crash verbosity
}

func processHooks() hookSet {
	return hookSet{install: watchSignals, traceback: rtdebug.SetTraceback}
}

// engineOptions configures newEngine.
type engineOptions struct {
	sink       sink.Sink
	thresholds Thresholds
	render     render.Options
	sourceFile string
	tracer     trace.Tracer
	exit       func(int)
	hooks      hookSet
	start      time.Time
}

func newEngine(o engineOptions) *Engine {
	if o.sink == nil {
		o.sink = sink.Nop
	}
	if o.thresholds == (Thresholds{}) {
		o.thresholds = DefaultThresholds()
	}
	if o.tracer == nil {
		o.tracer = trace.Nop
	}
	if o.exit == nil {
		o.exit = os.Exit
	}
	if o.hooks.install == nil {
		o.hooks.install = func(*Engine) {}
	}
	if o.hooks.traceback == nil {
		o.hooks.traceback = func(string) {}
	}
	if o.start.IsZero() {
		o.start = time.Now()
	}

	timer := observ.NewTimerAt(o.start)
	boot := timer.BeginAt("startup", o.start)
	timer.End(boot, "")
	e := &Engine{
		ready:      true,
		sink:       o.sink,
		thresholds: o.thresholds,
		opts:       o.render,
		root:       rootFrom(o.sourceFile),
		selfFrames: selfMatcher(o.sourceFile),
		hooks:      o.hooks,
		exit:       o.exit,
		tracer:     o.tracer,
		timer:      timer,
	}
	e.runPhase = timer.Begin("run")
	return e
}

var (
	instance     *Engine
	instanceOnce sync.Once
)

// Instance returns the process-wide engine, creating it on first use from
// LoadConfig.
func Instance() *Engine {
	instanceOnce.Do(func() {
		cfg, err := LoadConfig("")
		instance = boot(cfg, err)
	})
	return instance
}

// Init creates the engine from cfg. If the engine already exists it is
// returned unchanged together with ErrAlreadyInitialized.
func Init(cfg Config) (*Engine, error) {
	if cfg.Thresholds == (Thresholds{}) {
		cfg.Thresholds = DefaultThresholds()
	}
	created := false
	instanceOnce.Do(func() {
		instance = boot(cfg, cfg.Thresholds.Validate())
		created = true
	})
	if !created {
		return instance, fmt.Errorf("debug: init: %w", ErrAlreadyInitialized)
	}
	return instance, nil
}

// boot builds the singleton from cfg. cfgErr is reported as a warning once
// the engine can render it.
func boot(cfg Config, cfgErr error) *Engine {
	if cfg.Thresholds.Validate() != nil {
		cfg.Thresholds = DefaultThresholds()
	}
	tracer, traceErr := newTracer(cfg.Trace)
	e := newEngine(engineOptions{
		sink:       sink.Detect(cfg.Surface, cfg.Color, os.Stdout),
		thresholds: cfg.Thresholds,
		render:     cfg.renderOptions(),
		sourceFile: sourceFile,
		tracer:     tracer,
		hooks:      processHooks(),
		start:      processStart,
	})
	if cfg.Source != "" {
		trace.Point(e.tracer, trace.ScopeEngine, "config", cfg.Source)
	}
	if cfg.Level > LevelSilent {
		e.Enable(cfg.Level)
	}
	if cfg.Lock {
		e.Lock()
	}
	for _, err := range []error{cfgErr, traceErr} {
		if err != nil {
			trace.Fail(e.tracer, trace.ScopeEngine, "config", err)
			e.Report(SeverityWarning, err)
		}
	}
	return e
}

// self resolves the receiver: a zero or nil Engine stands for Instance.
func (e *Engine) self() *Engine {
	if e == nil || !e.ready {
		return Instance()
	}
	return e
}

// Enable sets the level. It is a no-op once the engine is locked. The first
// call installs the process hooks.
func (e *Engine) Enable(level Level) {
	e = e.self()
	e.mu.Lock()
	if e.locked {
		e.mu.Unlock()
		trace.Point(e.tracer, trace.ScopeEngine, "enable.ignored", "locked")
		return
	}
	e.level = level
	e.mask = maskFor(level, e.thresholds)
	all := level >= e.thresholds.AllFaults
	e.mu.Unlock()

	if all {
		e.hooks.traceback("all")
	} else {
		e.hooks.traceback("single")
	}
	trace.Point(e.tracer, trace.ScopeEngine, "enable", "level="+strconv.Itoa(int(level)))
	e.installHooks()
}

func (e *Engine) installHooks() {
	e.hookOnce.Do(func() {
		e.hooks.install(e)
		e.hooksInstalled.Store(true)
		trace.Point(e.tracer, trace.ScopeHook, "hooks.install", "")
	})
}

// Lock freezes the level. It cannot be undone.
func (e *Engine) Lock() {
	e = e.self()
	e.mu.Lock()
	already := e.locked
	e.locked = true
	e.mu.Unlock()
	if !already {
		trace.Point(e.tracer, trace.ScopeEngine, "lock", "")
	}
}

// Level returns the current level.
func (e *Engine) Level() Level {
	e = e.self()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.level
}

// Locked reports whether Lock was called.
func (e *Engine) Locked() bool {
	e = e.self()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.locked
}

// HooksInstalled reports whether Enable has installed the process hooks.
func (e *Engine) HooksInstalled() bool {
	return e.self().hooksInstalled.Load()
}

// Thresholds returns the level thresholds in use.
func (e *Engine) Thresholds() Thresholds {
	e = e.self()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.thresholds
}

// LimitPath strips the project root from p. Paths outside the root keep
// their last two segments.
func (e *Engine) LimitPath(p string) string {
	return limitPath(e.self().root, p)
}

// Sink returns the current output sink.
func (e *Engine) Sink() sink.Sink {
	e = e.self()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sink
}

// SetSink replaces the output sink. A nil sink discards output.
func (e *Engine) SetSink(s sink.Sink) {
	e = e.self()
	if s == nil {
		s = sink.Nop
	}
	e.renderMu.Lock()
	defer e.renderMu.Unlock()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink = s
}

// state is a consistent snapshot of the gating fields.
type state struct {
	level      Level
	mask       severityMask
	thresholds Thresholds
	sink       sink.Sink
}

func (e *Engine) state() state {
	e.mu.Lock()
	defer e.mu.Unlock()
	return state{level: e.level, mask: e.mask, thresholds: e.thresholds, sink: e.sink}
}

// Package-level veneer over Instance.

// Enable sets the level of the process engine.
func Enable(level Level) { Instance().Enable(level) }

// Lock freezes the level of the process engine.
func Lock() { Instance().Lock() }

// GetLevel returns the level of the process engine.
func GetLevel() Level { return Instance().Level() }

// LimitPath strips the project root from p.
func LimitPath(p string) string { return Instance().LimitPath(p) }

// Dump prints v. See Engine.Dump.
func Dump(v any, showTrace ...bool) { Instance().dump(v, len(showTrace) == 0 || showTrace[0]) }

// Trace prints frames, or the current stack. See Engine.Trace.
func Trace(frames ...Frame) { Instance().Trace(frames...) }

// D dumps every value with its location.
func D(values ...any) { Instance().D(values...) }

// DD dumps v and exits with status 0. See Engine.DD.
func DD(v any, showTrace ...bool) {
	e := Instance()
	e.dump(v, len(showTrace) == 0 || showTrace[0])
	e.Exit(0)
}

// Report surfaces a runtime fault. See Engine.Report.
func Report(sev Severity, err error) { Instance().Report(sev, err) }

// Notice reports err with SeverityNotice.
func Notice(err error) { Instance().Report(SeverityNotice, err) }

// Warn reports err with SeverityWarning.
func Warn(err error) { Instance().Report(SeverityWarning, err) }

// Error reports err with SeverityError.
func Error(err error) { Instance().Report(SeverityError, err) }

// Fatal records err for the shutdown hook.
func Fatal(err error) { Instance().Report(SeverityFatal, err) }

// Throw renders err as an uncaught exception and exits.
func Throw(err error) { Instance().Throw(err) }

// Go runs fn in a goroutine guarded like main. See Engine.Go.
func Go(fn func()) { Instance().Go(fn) }

// Shutdown runs the shutdown hook. See Engine.Shutdown.
func Shutdown() { Instance().Shutdown() }

// Exit runs the shutdown hook and exits with code.
func Exit(code int) { Instance().Exit(code) }

// Guard must be deferred at the top of main. It renders an escaping panic
// and exits with status 2, or runs the shutdown hook when main returns.
func Guard() { Instance().handle(recover()) }
