package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"spyglass/debug"
	"spyglass/internal/version"
	"spyglass/sink"
)

func TestPrintVersion(t *testing.T) {
	info := version.Info{Version: "1.2.3", Date: "2026-01-02"}
	cases := []struct {
		full bool
		want string
	}{
		{false, "spyglass 1.2.3\n"},
		{true, "spyglass 1.2.3\ncommit unknown\nbuilt  2026-01-02\n"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		printVersion(&buf, info.Version, info, tc.full)
		if buf.String() != tc.want {
			t.Errorf("full=%v: output = %q, want %q", tc.full, buf.String(), tc.want)
		}
	}
}

func TestVersionJSON(t *testing.T) {
	root := &cobra.Command{Use: "spyglass"}
	addRootFlags(root)
	root.AddCommand(versionCmd)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"version", "--json"})
	defer func() { versionJSON = false }()
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	var got version.Info
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if got.Version != version.Resolved() {
		t.Fatalf("version = %q, want %q", got.Version, version.Resolved())
	}
}

func TestRenderPaletteListsEveryName(t *testing.T) {
	var buf bytes.Buffer
	renderPalette(&buf, false)
	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("escape sequences with colour off:\n%s", out)
	}
	for _, e := range sink.Palette() {
		if !strings.Contains(out, e.Name) {
			t.Errorf("palette entry %q missing", e.Name)
		}
	}
	for _, name := range sink.Themes() {
		if !strings.Contains(out, name) {
			t.Errorf("theme %q missing", name)
		}
	}
}

func TestScenarioNames(t *testing.T) {
	names := scenarioNames()
	if !slices.IsSorted(names) {
		t.Fatalf("names not sorted: %v", names)
	}
	for _, want := range []string{"dump", "trace", "panic", "fault", "fatal", "exit", "lock", "worker"} {
		if !slices.Contains(names, want) {
			t.Errorf("scenario %q missing from %v", want, names)
		}
	}
	help := scenarioHelp()
	for _, name := range names {
		if !strings.Contains(help, name) {
			t.Errorf("help does not mention %q", name)
		}
	}
}

// runConfig executes a throwaway command tree and returns what engineConfig
// saw for the leaf command.
func runConfig(t *testing.T, args ...string) debug.Config {
	t.Helper()
	var got debug.Config
	root := &cobra.Command{Use: "spyglass", SilenceUsage: true, SilenceErrors: true}
	addRootFlags(root)
	leaf := &cobra.Command{
		Use: "leaf",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := engineConfig(cmd)
			got = cfg
			return err
		},
	}
	leaf.Flags().String("level", "trace", "")
	leaf.Flags().Bool("lock", false, "")
	leaf.Flags().String("surface", "auto", "")
	root.AddCommand(leaf)
	root.SetArgs(append([]string{"leaf"}, args...))
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return got
}

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		debug.EnvLevel, debug.EnvLock, debug.EnvSurface, debug.EnvColor,
		debug.EnvTrace, debug.EnvTraceLevel,
	} {
		t.Setenv(key, "")
	}
	path := filepath.Join(t.TempDir(), debug.ConfigFile)
	body := "[debug]\nlevel = \"dump\"\nsurface = \"html\"\n\n[render]\nmax_depth = 4\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(debug.EnvConfig, path)
}

func TestEngineConfigFlagsOverlayFile(t *testing.T) {
	isolateEnv(t)

	cfg := runConfig(t)
	if cfg.Level != debug.LevelDump || cfg.Surface != sink.SurfaceHTML || cfg.Render.MaxDepth != 4 {
		t.Fatalf("file config not applied: %+v", cfg)
	}
	if cfg.Trace.Output != "" {
		t.Fatalf("unset trace flag leaked: %+v", cfg.Trace)
	}

	cfg = runConfig(t, "--level", "all", "--lock", "--surface", "terminal", "--color", "off", "--trace=-")
	if cfg.Level != debug.LevelAll || !cfg.Lock || cfg.Surface != sink.SurfaceTerminal {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if cfg.Color != sink.ColorOff {
		t.Fatalf("color = %q", cfg.Color)
	}
	if cfg.Trace.Output != "-" || cfg.Trace.Level != "state" {
		t.Fatalf("trace = %+v", cfg.Trace)
	}
}

func TestEngineConfigRejectsBadLevel(t *testing.T) {
	isolateEnv(t)

	root := &cobra.Command{Use: "spyglass", SilenceUsage: true, SilenceErrors: true}
	addRootFlags(root)
	leaf := &cobra.Command{
		Use: "leaf",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := engineConfig(cmd)
			return err
		},
	}
	leaf.Flags().String("level", "trace", "")
	root.AddCommand(leaf)
	root.SetArgs([]string{"leaf", "--level", "loud"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestConfigPayload(t *testing.T) {
	cfg := debug.DefaultConfig()
	cfg.Level = debug.LevelTrace
	p := newConfigPayload(cfg)
	if p.Thresholds["full_trace"] != int(cfg.Thresholds.FullTrace) {
		t.Fatalf("thresholds = %v", p.Thresholds)
	}
	var buf bytes.Buffer
	renderConfigPretty(&buf, p)
	out := buf.String()
	for _, want := range []string{"source", "unknown", "level", p.Level, "max_depth"} {
		if !strings.Contains(out, want) {
			t.Errorf("pretty config missing %q:\n%s", want, out)
		}
	}
}
