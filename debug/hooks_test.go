package debug

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// panicking runs fn under the engine's guard, as main would.
func panicking(e *Engine, fn func()) {
	defer e.Guard()
	fn()
}

func TestGuardRendersPanicWithTrace(t *testing.T) {
	h := newHarness(t)
	h.e.Enable(LevelTrace)

	var line int
	panicking(h.e, func() {
		line = here() + 1
		panic("boom")
	})

	got := h.out.Lines()
	if len(got) < 3 {
		t.Fatalf("output:\n%s", strings.Join(got, "\n"))
	}
	if got[0] != "|  panic: boom " {
		t.Fatalf("banner = %q", got[0])
	}
	if want := fmt.Sprintf("| file: debug/hooks_test.go, line: %d", line); got[1] != want {
		t.Fatalf("location = %q, want %q", got[1], want)
	}
	if !strings.HasPrefix(got[2], fmt.Sprintf("file: debug/hooks_test.go, line: %d, debug.", line)) {
		t.Fatalf("first frame = %q", got[2])
	}
	if codes := h.exitCodes(); len(codes) != 1 || codes[0] != ExitPanic {
		t.Fatalf("exit codes = %v", codes)
	}
	if strings.Contains(h.out.String(), "observ.Report") {
		t.Fatal("shutdown output after an exception")
	}

	recs := h.out.Records()
	if recs[0].Text != "| " || recs[0].Style != "light_red, bold" || recs[1].Style != "light_red" {
		t.Fatalf("banner records = %+v", recs[:2])
	}
}

func TestGuardAtLevelOneShowsBannerAndLocationOnly(t *testing.T) {
	h := newHarness(t)
	h.e.Enable(LevelDump)

	panicking(h.e, func() { panic(errors.New("bad input")) })

	got := h.out.Lines()
	if len(got) != 2 {
		t.Fatalf("output:\n%s", strings.Join(got, "\n"))
	}
	if got[0] != "|  error: bad input " {
		t.Fatalf("banner = %q", got[0])
	}
	if !strings.HasPrefix(got[1], "| file: debug/hooks_test.go, line: ") {
		t.Fatalf("location = %q", got[1])
	}
}

func TestGuardAtLevelZeroPassesThrough(t *testing.T) {
	h := newHarness(t)

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		panicking(h.e, func() { panic("quiet") })
	}()

	if recovered != "quiet" {
		t.Fatalf("recovered = %v", recovered)
	}
	if h.out.String() != "" || len(h.exitCodes()) != 0 {
		t.Fatalf("level 0 rendered %q, exits %v", h.out.String(), h.exitCodes())
	}
}

func TestGuardRuntimePanicKind(t *testing.T) {
	h := newHarness(t)
	h.e.Enable(LevelDump)

	idx := 3
	panicking(h.e, func() { _ = []int{1}[idx] })

	got := h.out.Lines()
	if len(got) == 0 || !strings.HasPrefix(got[0], "|  runtime.boundsError: runtime error: index out of range") {
		t.Fatalf("output:\n%s", h.out.String())
	}
}

func TestGuardRunsShutdownOnReturn(t *testing.T) {
	h := newHarness(t)
	h.e.Enable(LevelLocation)

	panicking(h.e, func() {})

	out := h.out.String()
	for _, want := range []string{"observ.Report", "[ElapsedMS] => ", "[]string"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in shutdown output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "file: ") {
		t.Fatalf("shutdown dumps must not carry a trace:\n%s", out)
	}
	if len(h.exitCodes()) != 0 {
		t.Fatalf("normal return exited: %v", h.exitCodes())
	}
}

func TestShutdownRunsOnce(t *testing.T) {
	h := newHarness(t)
	h.e.Enable(LevelDump)
	h.e.Shutdown()
	h.e.Shutdown()
	h.e.Exit(3)

	out := h.out.String()
	if n := strings.Count(out, "observ.Report"); n != 1 {
		t.Fatalf("shutdown ran %d times:\n%s", n, out)
	}
	if strings.Contains(out, "[]string") {
		t.Fatal("module list printed below the location level")
	}
	if codes := h.exitCodes(); len(codes) != 1 || codes[0] != 3 {
		t.Fatalf("exit codes = %v", codes)
	}
}

func TestShutdownSilentAtLevelZero(t *testing.T) {
	h := newHarness(t)
	h.e.Fatal(errors.New("ignored"))
	h.e.Shutdown()
	if h.out.String() != "" {
		t.Fatalf("level 0 shutdown printed:\n%s", h.out.String())
	}
}

func TestPendingFatalRenderedAtShutdown(t *testing.T) {
	h := newHarness(t)
	h.e.Enable(LevelDump)

	h.e.Fatal(errors.New("first"))
	h.e.Fatal(errors.New("disk gone"))
	if h.out.String() != "" {
		t.Fatalf("fatal rendered before shutdown:\n%s", h.out.String())
	}
	if p := h.e.Pending(); p == nil || p.Message != "disk gone" {
		t.Fatalf("pending = %+v", p)
	}

	h.e.Shutdown()
	got := h.out.Lines()
	if len(got) < 3 || got[0] != "|  Fatal error (error): disk gone " {
		t.Fatalf("output:\n%s", h.out.String())
	}
	if !strings.HasPrefix(got[1], "| file: debug/hooks_test.go, line: ") {
		t.Fatalf("location = %q", got[1])
	}
	if got[2] != "observ.Report" {
		t.Fatalf("elapsed report must follow the fault, got %q", got[2])
	}
	if h.e.Pending() != nil {
		t.Fatal("pending fault not cleared")
	}
}

func TestShutdownClosesOpenLine(t *testing.T) {
	h := newHarness(t)
	h.e.Enable(LevelDump)
	h.out.Write("partial", "info")

	h.e.Shutdown()
	got := h.out.Lines()
	if len(got) < 2 || got[0] != "partial" || got[1] != "observ.Report" {
		t.Fatalf("output:\n%s", h.out.String())
	}
}

type diskError struct{ dev string }

func (d diskError) Error() string { return "device " + d.dev + " not ready" }

func TestReportGating(t *testing.T) {
	cases := []struct {
		level Level
		sev   Severity
		shown bool
	}{
		{LevelSilent, SeverityError, false},
		{LevelDump, SeverityWarning, true},
		{LevelDump, SeverityNotice, false},
		{LevelTrace, SeverityNotice, false},
		{LevelAll, SeverityNotice, true},
		{Level(9), SeverityNotice, true},
	}
	for _, tc := range cases {
		h := newHarness(t)
		h.e.Enable(tc.level)
		h.e.Report(tc.sev, diskError{dev: "sda"})
		out := h.out.String()
		if (out != "") != tc.shown {
			t.Errorf("level %v %v: output %q", tc.level, tc.sev, out)
			continue
		}
		if tc.shown {
			want := "|  " + tc.sev.String() + " (debug.diskError): device sda not ready "
			if got := h.out.Lines()[0]; got != want {
				t.Errorf("banner = %q, want %q", got, want)
			}
		}
	}
}

func TestFaultTraceOnlyAtFullTraceLevel(t *testing.T) {
	for _, tc := range []struct {
		level  Level
		frames bool
	}{
		{LevelDump, false},
		{LevelLocation, false},
		{LevelTrace, true},
	} {
		h := newHarness(t)
		h.e.Enable(tc.level)
		h.e.Error(errors.New("x"))
		got := h.out.Lines()
		hasFrames := len(got) > 2 && strings.HasPrefix(got[2], "file: ")
		if hasFrames != tc.frames || len(got) < 2 {
			t.Errorf("level %v: output %q", tc.level, got)
		}
	}
}

func TestThrow(t *testing.T) {
	h := newHarness(t)
	h.e.Enable(LevelDump)
	h.e.Throw(nil)
	if h.out.String() != "" {
		t.Fatal("Throw(nil) rendered output")
	}

	h.e.Throw(fmt.Errorf("load: %w", errors.New("missing")))
	got := h.out.Lines()
	if len(got) != 2 || got[0] != "|  error: load: missing " {
		t.Fatalf("output:\n%s", h.out.String())
	}
	if codes := h.exitCodes(); len(codes) != 1 || codes[0] != ExitPanic {
		t.Fatalf("exit codes = %v", codes)
	}

	silent := newHarness(t)
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("Throw at level 0 must panic")
		}
	}()
	silent.e.Throw(errors.New("loud"))
}

func TestGoGuardsGoroutines(t *testing.T) {
	h := newHarness(t)
	exited := make(chan int, 1)
	h.e.exit = func(code int) { exited <- code }
	h.e.Enable(LevelDump)

	h.e.Go(func() { panic("worker failed") })

	select {
	case code := <-exited:
		if code != ExitPanic {
			t.Fatalf("exit code = %d", code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("guarded goroutine did not exit")
	}
	if got := h.out.Lines(); len(got) == 0 || got[0] != "|  panic: worker failed " {
		t.Fatalf("output:\n%s", h.out.String())
	}
}

func TestDDExitsAfterDumping(t *testing.T) {
	cases := []struct {
		name      string
		showTrace []bool
		traced    bool
	}{
		{"default", nil, true},
		{"with trace", []bool{true}, true},
		{"without trace", []bool{false}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.e.Enable(LevelLocation)
			h.e.DD("a", tc.showTrace...)

			got := h.out.Lines()
			if len(got) < 2 || got[0] != `"a"` {
				t.Fatalf("output:\n%s", h.out.String())
			}
			traced := strings.HasPrefix(got[1], "file: ")
			if traced != tc.traced {
				t.Fatalf("traced = %v, want %v; output:\n%s", traced, tc.traced, h.out.String())
			}
			if !strings.Contains(h.out.String(), "observ.Report") {
				t.Fatalf("shutdown hook did not run:\n%s", h.out.String())
			}
			if codes := h.exitCodes(); len(codes) != 1 || codes[0] != 0 {
				t.Fatalf("exit codes = %v", codes)
			}
		})
	}
}

func TestExceptionFiresOnce(t *testing.T) {
	h := newHarness(t)
	h.e.Enable(LevelDump)
	panicking(h.e, func() { panic("one") })
	panicking(h.e, func() { panic("two") })
	if n := strings.Count(h.out.String(), "panic:"); n != 1 {
		t.Fatalf("exception hook rendered %d times:\n%s", n, h.out.String())
	}
}
