package debug

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"spyglass/internal/render"
	"spyglass/sink"
)

// ConfigFile is the name searched for by FindConfig.
const ConfigFile = "spyglass.toml"

// Environment variables read by LoadConfig.
const (
	EnvConfig     = "SPYGLASS_CONFIG"
	EnvLevel      = "SPYGLASS_LEVEL"
	EnvLock       = "SPYGLASS_LOCK"
	EnvSurface    = "SPYGLASS_SURFACE"
	EnvColor      = "SPYGLASS_COLOR"
	EnvTrace      = "SPYGLASS_TRACE"
	EnvTraceLevel = "SPYGLASS_TRACE_LEVEL"
)

// Config is the startup configuration of the engine.
type Config struct {
	Level      Level
	Lock       bool
	Surface    sink.Surface
	Color      sink.ColorMode
	Thresholds Thresholds
	Render     RenderConfig
	Trace      TraceConfig

	// Source is the config file that was applied, empty if none.
	Source string
}

// RenderConfig bounds value dumps.
type RenderConfig struct {
	MaxDepth       int
	MaxStringWidth int
	MaxNodes       int
}

// TraceConfig configures the engine's own event log.
type TraceConfig struct {
	Level  string // off|error|state|render|debug
	Output string // "-" for stderr, or a file path
	Mode   string // stream|ring|both
}

// DefaultConfig returns a silent, unlocked configuration with automatic
// surface and colour detection.
func DefaultConfig() Config {
	return Config{
		Level:      LevelSilent,
		Surface:    sink.SurfaceAuto,
		Color:      sink.ColorAuto,
		Thresholds: DefaultThresholds(),
		Render:     RenderConfig{MaxDepth: render.DefaultMaxDepth, MaxNodes: render.DefaultMaxNodes},
		Trace:      TraceConfig{Level: "off"},
	}
}

func (c Config) renderOptions() render.Options {
	return render.Options{
		MaxDepth:       c.Render.MaxDepth,
		MaxStringWidth: c.Render.MaxStringWidth,
		MaxNodes:       c.Render.MaxNodes,
	}
}

// fileConfig mirrors spyglass.toml.
type fileConfig struct {
	Debug struct {
		Level   any    `toml:"level"`
		Lock    *bool  `toml:"lock"`
		Surface string `toml:"surface"`
		Color   string `toml:"color"`
	} `toml:"debug"`
	Thresholds struct {
		Dump      *int64 `toml:"dump"`
		Location  *int64 `toml:"location"`
		FullTrace *int64 `toml:"full_trace"`
		AllFaults *int64 `toml:"all_faults"`
	} `toml:"thresholds"`
	Render struct {
		MaxDepth       *int64 `toml:"max_depth"`
		MaxStringWidth *int64 `toml:"max_string_width"`
		MaxNodes       *int64 `toml:"max_nodes"`
	} `toml:"render"`
	Trace struct {
		Level  string `toml:"level"`
		Output string `toml:"output"`
		Mode   string `toml:"mode"`
	} `toml:"trace"`
}

// FindConfig walks up from startDir to locate spyglass.toml.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadConfig builds the configuration from defaults, the config file
// (SPYGLASS_CONFIG, or spyglass.toml found upwards from startDir) and the
// environment, in that order. The returned Config is usable even when err is
// non-nil: sources that fail are skipped.
func LoadConfig(startDir string) (Config, error) {
	cfg := DefaultConfig()
	var errs []error

	path := os.Getenv(EnvConfig)
	if path == "" {
		found, ok, err := FindConfig(startDir)
		if err != nil {
			errs = append(errs, err)
		} else if ok {
			path = found
		}
	}
	if path != "" {
		next, err := applyFile(cfg, path)
		if err != nil {
			errs = append(errs, err)
		} else {
			cfg = next
		}
	}

	next, err := applyEnv(cfg)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg = next
	}

	if err := cfg.Thresholds.Validate(); err != nil {
		errs = append(errs, err)
		cfg.Thresholds = DefaultThresholds()
	}
	return cfg, errors.Join(errs...)
}

// applyFile returns cfg overlaid with the file at path, or cfg unchanged and
// an error.
func applyFile(cfg Config, path string) (Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return cfg, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	out := cfg
	if fc.Debug.Level != nil {
		level, err := levelValue(fc.Debug.Level)
		if err != nil {
			return cfg, fmt.Errorf("%s: [debug].level: %w", path, err)
		}
		out.Level = level
	}
	if fc.Debug.Lock != nil {
		out.Lock = *fc.Debug.Lock
	}
	if fc.Debug.Surface != "" {
		s, err := sink.ParseSurface(fc.Debug.Surface)
		if err != nil {
			return cfg, fmt.Errorf("%s: [debug].surface: %w", path, err)
		}
		out.Surface = s
	}
	if fc.Debug.Color != "" {
		c, err := sink.ParseColorMode(fc.Debug.Color)
		if err != nil {
			return cfg, fmt.Errorf("%s: [debug].color: %w", path, err)
		}
		out.Color = c
	}

	thresholds := []struct {
		name string
		src  *int64
		dst  *Level
	}{
		{"dump", fc.Thresholds.Dump, &out.Thresholds.Dump},
		{"location", fc.Thresholds.Location, &out.Thresholds.Location},
		{"full_trace", fc.Thresholds.FullTrace, &out.Thresholds.FullTrace},
		{"all_faults", fc.Thresholds.AllFaults, &out.Thresholds.AllFaults},
	}
	for _, th := range thresholds {
		if th.src == nil {
			continue
		}
		v, err := safecast.Conv[uint8](*th.src)
		if err != nil {
			return cfg, fmt.Errorf("%s: [thresholds].%s: %w", path, th.name, err)
		}
		*th.dst = Level(v)
	}

	if fc.Render.MaxDepth != nil {
		v, err := safecast.Conv[int](*fc.Render.MaxDepth)
		if err != nil || v < 1 {
			return cfg, fmt.Errorf("%s: [render].max_depth must be a positive integer", path)
		}
		out.Render.MaxDepth = v
	}
	if fc.Render.MaxStringWidth != nil {
		v, err := safecast.Conv[int](*fc.Render.MaxStringWidth)
		if err != nil || v < 0 {
			return cfg, fmt.Errorf("%s: [render].max_string_width must not be negative", path)
		}
		out.Render.MaxStringWidth = v
	}
	if fc.Render.MaxNodes != nil {
		v, err := safecast.Conv[int](*fc.Render.MaxNodes)
		if err != nil || v < 1 {
			return cfg, fmt.Errorf("%s: [render].max_nodes must be a positive integer", path)
		}
		out.Render.MaxNodes = v
	}

	if fc.Trace.Level != "" {
		out.Trace.Level = fc.Trace.Level
	}
	if fc.Trace.Output != "" {
		out.Trace.Output = fc.Trace.Output
	}
	if fc.Trace.Mode != "" {
		out.Trace.Mode = fc.Trace.Mode
	}
	out.Source = path
	return out, nil
}

// levelValue accepts a TOML integer or string.
func levelValue(v any) (Level, error) {
	switch x := v.(type) {
	case int64:
		n, err := safecast.Conv[uint8](x)
		if err != nil {
			return LevelSilent, fmt.Errorf("%w: %d", ErrInvalidLevel, x)
		}
		return Level(n), nil
	case string:
		return ParseLevel(x)
	default:
		return LevelSilent, fmt.Errorf("%w: unsupported value %v", ErrInvalidLevel, v)
	}
}

// applyEnv returns cfg overlaid with SPYGLASS_* variables.
func applyEnv(cfg Config) (Config, error) {
	out := cfg
	if v, ok := os.LookupEnv(EnvLevel); ok && v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvLevel, err)
		}
		out.Level = level
	}
	if v, ok := os.LookupEnv(EnvLock); ok && v != "" {
		lock, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvLock, err)
		}
		out.Lock = lock
	}
	if v, ok := os.LookupEnv(EnvSurface); ok && v != "" {
		s, err := sink.ParseSurface(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvSurface, err)
		}
		out.Surface = s
	}
	if v, ok := os.LookupEnv(EnvColor); ok && v != "" {
		c, err := sink.ParseColorMode(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvColor, err)
		}
		out.Color = c
	}
	if v, ok := os.LookupEnv(EnvTrace); ok && v != "" {
		out.Trace.Output = v
		if out.Trace.Level == "" || out.Trace.Level == "off" {
			out.Trace.Level = "state"
		}
	}
	if v, ok := os.LookupEnv(EnvTraceLevel); ok && v != "" {
		out.Trace.Level = v
	}
	return out, nil
}
