// Package render turns arbitrary Go values into a printable tree and prints
// that tree in an indented key/value layout.
//
// Describe walks a value once and produces a Node tree with a closed set of
// kinds (scalar, sequence, mapping, object, opaque, marker). Print and Lines
// never inspect values again: everything the printer needs is in the tree.
//
// Describe never panics. Cycles are cut with a *RECURSION* marker, deep trees
// with *MAX DEPTH*, oversized trees with *TRUNCATED*, and panics raised by user String/Error/DescribeDebug
// methods are replaced by a *PANIC: ...* marker.
package render

// Kind classifies a Node.
type Kind uint8

const (
	KindScalar   Kind = iota + 1 // bool, number, string, nil
	KindSequence                 // slices and arrays
	KindMapping                  // maps
	KindObject                   // structs
	KindOpaque                   // funcs, chans, Stringers, errors
	KindMarker                   // recursion / depth / panic markers
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindObject:
		return "object"
	case KindOpaque:
		return "opaque"
	case KindMarker:
		return "marker"
	default:
		return "unknown"
	}
}

const (
	MarkerRecursion = "*RECURSION*"
	MarkerMaxDepth  = "*MAX DEPTH*"
	MarkerTruncated = "*TRUNCATED*"
)

// Node is one prepared value.
type Node struct {
	Kind    Kind
	Type    string  // type label for containers and opaque values
	Text    string  // display text for scalars, opaque values and markers
	Entries []Entry // children of containers
}

// Entry is one key/value pair of a container.
type Entry struct {
	Key   string
	Value *Node
}

// Container reports whether n prints as a bracketed block.
func (n *Node) Container() bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindSequence, KindMapping, KindObject:
		return true
	}
	return false
}

// Describer lets a type choose what is dumped in its place.
type Describer interface {
	DescribeDebug() any
}

// Options bounds the preparation of a value.
type Options struct {
	MaxDepth       int // nesting limit, <= 0 means DefaultMaxDepth
	MaxStringWidth int // display cells per string, 0 = unlimited
	MaxNodes       int // nodes per value, <= 0 means DefaultMaxNodes
}

const (
	// DefaultMaxDepth is used when Options.MaxDepth is not set.
	DefaultMaxDepth = 32
	// DefaultMaxNodes is used when Options.MaxNodes is not set. Values that
	// share subtrees are expanded once per reference, so the budget is what
	// keeps their output finite.
	DefaultMaxNodes = 10000
)

// DefaultOptions returns the default rendering bounds.
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth, MaxNodes: DefaultMaxNodes}
}
