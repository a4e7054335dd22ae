package stack

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestSplitName(t *testing.T) {
	cases := []struct {
		in, class, fn string
	}{
		{"example.com/app/server.(*Server).Handle", "server.Server", "Handle"},
		{"example.com/app/server.Server.Addr", "server.Server", "Addr"},
		{"main.run", "", "main.run"},
		{"main.main.func1", "", "main.main.func1"},
		{"example.com/app/server.(*Server).Handle.func2", "server.Server", "Handle.func2"},
		{"example.com/app/coll.(*List[...]).Push", "coll.List", "Push"},
		{"example.com/app/coll.Map[...]", "", "coll.Map"},
		{"example.com/app/boot.init.0", "", "boot.init.0"},
		{"plain", "", "plain"},
		{"", "", ""},
	}
	for _, tc := range cases {
		class, fn := SplitName(tc.in)
		if class != tc.class || fn != tc.fn {
			t.Errorf("SplitName(%q) = (%q, %q), want (%q, %q)", tc.in, class, fn, tc.class, tc.fn)
		}
	}
}

type probe struct{}

func (probe) where() []Frame { return Capture(0) }

func TestCaptureStartsAtCaller(t *testing.T) {
	frames := probe{}.where()
	if len(frames) == 0 {
		t.Fatal("empty stack")
	}
	top := frames[0]
	if top.Class != "stack.probe" || top.Function != "where" {
		t.Fatalf("top frame = %+v", top)
	}
	if filepath.Base(top.File) != "stack_test.go" || top.Line <= 0 {
		t.Fatalf("top frame location = %+v", top)
	}
	for _, fr := range frames {
		if strings.HasPrefix(fr.Function, "runtime.") {
			t.Fatalf("runtime frame leaked: %+v", fr)
		}
	}
}

func TestFilterDropsSelfAndAnonymousFrames(t *testing.T) {
	frames := []Frame{
		{File: "/src/app/debug/engine.go", Line: 10, Function: "debug.Dump"},
		{File: "/src/app/debug/engine_test.go", Line: 20, Function: "debug.TestDump"},
		{File: "", Line: 0, Function: "debug.glue"},
		{File: "/src/app/main.go", Line: 5, Function: "main.main"},
	}
	got := Filter(frames, DirMatcher("/src/app/debug"))
	if len(got) != 2 {
		t.Fatalf("filtered = %+v", got)
	}
	if got[0].Function != "debug.TestDump" || got[1].Function != "main.main" {
		t.Fatalf("filtered = %+v", got)
	}
	if all := Filter(frames, nil); len(all) != 3 {
		t.Fatalf("nil matcher kept %d frames", len(all))
	}
}

func TestFormat(t *testing.T) {
	trim := func(p string) string { return strings.TrimPrefix(p, "/src/app/") }
	cases := []struct {
		fr   Frame
		want string
	}{
		{Frame{File: "/src/app/main.go", Line: 7, Function: "main.main"}, "file: main.go, line: 7, main.main()"},
		{Frame{File: "/src/app/srv/s.go", Line: 3, Class: "srv.Server", Function: "Run"}, "file: srv/s.go, line: 3, srv.Server=>Run()"},
		{Frame{File: "/src/app/x.go"}, "file: x.go, line: "},
	}
	for _, tc := range cases {
		if got := Format(tc.fr, trim); got != tc.want {
			t.Errorf("Format(%+v) = %q, want %q", tc.fr, got, tc.want)
		}
	}
}

func TestCaptureLineMatchesCaller(t *testing.T) {
	frames, want := Capture(0), line()
	if frames[0].Line != want {
		t.Fatalf("line = %d, want %d", frames[0].Line, want)
	}
}

func line() int {
	_, _, l, _ := runtime.Caller(1)
	return l
}
