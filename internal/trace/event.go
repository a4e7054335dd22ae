package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
	// KindError reports a failure inside the engine itself.
	KindError
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Scope indicates what part of the engine produced the event.
// Lower values are coarser.
type Scope uint8

const (
	ScopeEngine Scope = iota + 1 // enable, lock, configuration
	ScopeHook                    // hook installation and invocation
	ScopeRender                  // dumps and traces
	ScopeFrame                   // individual stack frames
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeEngine:
		return "engine"
	case ScopeHook:
		return "hook"
	case ScopeRender:
		return "render"
	case ScopeFrame:
		return "frame"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number
	Kind     Kind              // event kind
	Scope    Scope             // producer
	SpanID   uint64            // span identifier, 0 for points
	ParentID uint64            // parent span (0 if root)
	GID      uint64            // goroutine ID
	Name     string            // e.g. "enable", "hook.exception", "dump"
	Detail   string            // optional detail message
	Extra    map[string]string // extensible key-value pairs
}
