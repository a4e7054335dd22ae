package debug

import (
	"strings"
	"testing"
)

func TestRootFrom(t *testing.T) {
	cases := []struct {
		file, want string
	}{
		{"/home/u/proj/debug/root.go", "/home/u/proj/"},
		{"/src/app/vendor/spyglass/debug/root.go", "/src/app/"},
		{"/home/u/go/pkg/mod/spyglass@v1.0.0/debug/root.go", "/home/u/go/"},
		{"spyglass/debug/root.go", "spyglass/"},
		{"debug/root.go", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := rootFrom(tc.file); got != tc.want {
			t.Errorf("rootFrom(%q) = %q, want %q", tc.file, got, tc.want)
		}
	}
}

func TestLimitPath(t *testing.T) {
	const root = "/home/u/proj/"
	cases := []struct {
		in, want string
	}{
		{"/home/u/proj/cmd/app/main.go", "cmd/app/main.go"},
		{"/usr/local/go/src/testing/testing.go", "testing/testing.go"},
		{"/x.go", "x.go"},
		{"./a/../b.go", "b.go"},
		{"spyglass/debug/dump.go", "spyglass/debug/dump.go"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := limitPath(root, tc.in); got != tc.want {
			t.Errorf("limitPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLimitPathNeverLeaksRoot(t *testing.T) {
	h := newHarness(t)
	root := h.e.root
	if root == "" {
		t.Skip("no root recorded for this build")
	}
	inputs := []string{
		root + "debug/dump.go",
		root + "a/b/c/d.go",
		strings.TrimSuffix(root, "/"),
		root,
		sourceFile,
	}
	for _, in := range inputs {
		got := h.e.LimitPath(in)
		if strings.Contains(got, root) {
			t.Errorf("LimitPath(%q) = %q leaks the root", in, got)
		}
	}
	if got := h.e.LimitPath(sourceFile); got != "debug/root.go" {
		t.Errorf("LimitPath(own source) = %q", got)
	}
}
