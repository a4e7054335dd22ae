package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff    Level = iota
	LevelError        // error events only
	LevelState        // enable/lock/hook events
	LevelRender       // dump and trace rendering
	LevelDebug        // everything, including per-frame events
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelState:
		return "state"
	case LevelRender:
		return "render"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "state":
		return LevelState, nil
	case "render":
		return LevelRender, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|state|render|debug)", s)
	}
}

// ShouldEmit returns true if the given scope should emit at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelState:
		return scope <= ScopeHook
	case LevelRender:
		return scope <= ScopeRender
	case LevelDebug:
		return true
	}
	return false
}

// Allows reports whether ev passes the level. Error events pass every level
// except LevelOff.
func (l Level) Allows(ev *Event) bool {
	if l == LevelOff || ev == nil {
		return false
	}
	if ev.Kind == KindError {
		return true
	}
	return l.ShouldEmit(ev.Scope)
}
