package debug

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrAlreadyInitialized is returned by Init once the engine exists.
	ErrAlreadyInitialized = errors.New("debug engine already initialized")
	// ErrInvalidLevel is returned for level names or numbers that do not parse.
	ErrInvalidLevel = errors.New("invalid debug level")
	// ErrInvalidThresholds is returned by Thresholds.Validate.
	ErrInvalidThresholds = errors.New("invalid debug thresholds")
)

// Level is the verbosity of the engine. Higher levels show more; any value
// above LevelAll behaves like LevelAll.
type Level uint8

const (
	LevelSilent   Level = iota // nothing
	LevelDump                  // dumps and fault banners
	LevelLocation              // plus the location of each dump
	LevelTrace                 // plus full stacks
	LevelAll                   // plus notices
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelSilent:
		return "silent"
	case LevelDump:
		return "dump"
	case LevelLocation:
		return "location"
	case LevelTrace:
		return "trace"
	case LevelAll:
		return "all"
	default:
		return strconv.Itoa(int(l))
	}
}

// ParseLevel accepts a level name or a decimal number in 0..255.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "silent", "off":
		return LevelSilent, nil
	case "dump":
		return LevelDump, nil
	case "location":
		return LevelLocation, nil
	case "trace":
		return LevelTrace, nil
	case "all":
		return LevelAll, nil
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return LevelSilent, fmt.Errorf("%w: %q (expected silent|dump|location|trace|all or 0-255)", ErrInvalidLevel, s)
	}
	return Level(n), nil
}

// Thresholds maps output features to the minimum level that shows them.
type Thresholds struct {
	Dump      Level // dumps, fault banners with file and line
	Location  Level // single-frame trace after a dump
	FullTrace Level // full stacks for dumps and faults
	AllFaults Level // notices
}

// DefaultThresholds returns 1/2/3/4.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Dump:      LevelDump,
		Location:  LevelLocation,
		FullTrace: LevelTrace,
		AllFaults: LevelAll,
	}
}

// Validate checks that the thresholds are ordered and that level 0 stays silent.
func (t Thresholds) Validate() error {
	if t.Dump < 1 {
		return fmt.Errorf("%w: dump threshold must be at least 1, got %d", ErrInvalidThresholds, t.Dump)
	}
	if t.Dump > t.Location || t.Location > t.FullTrace || t.FullTrace > t.AllFaults {
		return fmt.Errorf("%w: want dump <= location <= full_trace <= all_faults, got %d/%d/%d/%d",
			ErrInvalidThresholds, t.Dump, t.Location, t.FullTrace, t.AllFaults)
	}
	return nil
}

// Severity classifies a reported runtime fault.
type Severity uint8

const (
	SeverityNotice Severity = iota + 1
	SeverityWarning
	SeverityError
	SeverityFatal
)

// String returns the banner label of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityNotice:
		return "Notice"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	case SeverityFatal:
		return "Fatal error"
	default:
		return "Unknown"
	}
}

// severityMask is the set of severities that surface at the current level.
type severityMask uint8

func (m severityMask) has(s Severity) bool {
	return s > 0 && m&(1<<s) != 0
}

// maskFor derives the reporting mask for level.
func maskFor(level Level, th Thresholds) severityMask {
	var m severityMask
	if level < th.Dump {
		return m
	}
	for _, s := range []Severity{SeverityWarning, SeverityError, SeverityFatal} {
		m |= 1 << s
	}
	if level >= th.AllFaults {
		m |= 1 << SeverityNotice
	}
	return m
}
