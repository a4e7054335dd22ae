package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
		err  bool
	}{
		{"off", LevelOff, false},
		{"", LevelOff, false},
		{"ERROR", LevelError, false},
		{"state", LevelState, false},
		{" render ", LevelRender, false},
		{"debug", LevelDebug, false},
		{"phase", LevelOff, true},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		if (err != nil) != tc.err || got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tc.in, got, err)
		}
	}
}

func TestLevelAllows(t *testing.T) {
	point := func(s Scope) *Event { return &Event{Kind: KindPoint, Scope: s} }
	cases := []struct {
		level Level
		ev    *Event
		want  bool
	}{
		{LevelOff, &Event{Kind: KindError, Scope: ScopeEngine}, false},
		{LevelError, &Event{Kind: KindError, Scope: ScopeRender}, true},
		{LevelError, point(ScopeEngine), false},
		{LevelState, point(ScopeHook), true},
		{LevelState, point(ScopeRender), false},
		{LevelRender, point(ScopeRender), true},
		{LevelRender, point(ScopeFrame), false},
		{LevelDebug, point(ScopeFrame), true},
	}
	for _, tc := range cases {
		if got := tc.level.Allows(tc.ev); got != tc.want {
			t.Errorf("%v.Allows(%v/%v) = %v", tc.level, tc.ev.Kind, tc.ev.Scope, got)
		}
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelState, FormatText)

	Point(tr, ScopeEngine, "enable", "level=2")
	Point(tr, ScopeRender, "dump", "")
	Fail(tr, ScopeRender, "render", errors.New("sink closed"))

	out := buf.String()
	if !strings.Contains(out, "• enable (level=2)") {
		t.Fatalf("missing enable point:\n%s", out)
	}
	if strings.Contains(out, "dump") {
		t.Fatalf("render scope leaked at state level:\n%s", out)
	}
	if !strings.Contains(out, "! render (sink closed)") {
		t.Fatalf("missing error event:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelRender, FormatNDJSON)

	span := Begin(tr, ScopeRender, "dump", 0).WithExtra("kind", "mapping")
	span.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d:\n%s", len(lines), buf.String())
	}
	var end map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &end); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if end["kind"] != "end" || end["name"] != "dump" || end["scope"] != "render" {
		t.Fatalf("end event = %v", end)
	}
	extra, ok := end["extra"].(map[string]any)
	if !ok || extra["kind"] != "mapping" || extra["dur"] == nil {
		t.Fatalf("extra = %v", end["extra"])
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeEngine, name, "")
	}
	snap := r.Snapshot()
	if names := r.Names(); strings.Join(names, "") != "cde" {
		t.Fatalf("names = %v", names)
	}
	for i := 1; i < len(snap); i++ {
		if snap[i].Seq <= snap[i-1].Seq {
			t.Fatalf("sequence not increasing: %v", snap)
		}
	}

	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("dump:\n%s", buf.String())
	}
}

func TestNewModes(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off tracer = %v, %v", tr, err)
	}

	path := filepath.Join(t.TempDir(), "engine.ndjson")
	tr, err = New(Config{Level: LevelState, Mode: ModeBoth, OutputPath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	multi, ok := tr.(*MultiTracer)
	if !ok || multi.Ring() == nil {
		t.Fatalf("both mode = %T", tr)
	}
	Point(tr, ScopeHook, "hooks.install", "")
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := multi.Ring().Snapshot(); len(got) != 1 || got[0].Name != "hooks.install" {
		t.Fatalf("ring = %v", got)
	}

	if _, err := New(Config{Level: LevelDebug, Mode: StorageMode(9)}); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestParseModeAndFormat(t *testing.T) {
	if m, err := ParseMode(""); err != nil || m != ModeStream {
		t.Fatalf("ParseMode(\"\") = %v, %v", m, err)
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Fatal("expected error")
	}
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat = %v, %v", f, err)
	}
	if FormatFor("x.jsonl") != FormatNDJSON || FormatFor("-") != FormatText {
		t.Fatal("FormatFor mismatch")
	}
}

func TestDisabledSpan(t *testing.T) {
	span := Begin(Nop, ScopeEngine, "enable", 0)
	if span.ID() != 0 || span.End("") != 0 {
		t.Fatal("nop span must be inert")
	}
	var nilSpan *Span
	if nilSpan.WithExtra("k", "v") != nil || nilSpan.ID() != 0 {
		t.Fatal("nil span must be inert")
	}
}
