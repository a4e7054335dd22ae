// Package stack captures, filters and formats call stacks.
package stack

import (
	"path"
	"runtime"
	"strconv"
	"strings"
)

// Frame is one call-stack entry. Empty strings and a zero Line mean the
// information is not available.
type Frame struct {
	File     string
	Line     int
	Class    string // package-qualified receiver type, e.g. "http.Server"
	Function string // method name, or package-qualified function name
}

// maxDepth bounds a single capture.
const maxDepth = 64

// Capture returns the stack of the calling goroutine, most recent call first.
// skip=0 starts at the caller of Capture. Go runtime frames are dropped.
func Capture(skip int) []Frame {
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, pcs)
	return FromPCs(pcs[:n])
}

// FromPCs resolves program counters into frames.
func FromPCs(pcs []uintptr) []Frame {
	if len(pcs) == 0 {
		return nil
	}
	out := make([]Frame, 0, len(pcs))
	frames := runtime.CallersFrames(pcs)
	for {
		fr, more := frames.Next()
		if fr.Function != "" && !isRuntime(fr.Function) {
			class, fn := SplitName(fr.Function)
			out = append(out, Frame{
				File:     fr.File,
				Line:     fr.Line,
				Class:    class,
				Function: fn,
			})
		}
		if !more {
			break
		}
	}
	return out
}

// isRuntime reports whether a fully qualified function name belongs to the Go
// runtime (goexit, gopanic, sigpanic, main bootstrap...).
func isRuntime(full string) bool {
	return strings.HasPrefix(full, "runtime.")
}

// SplitName splits a runtime function name such as
// "example.com/app/server.(*Server).Handle" into ("server.Server", "Handle").
// Plain functions keep their package name: "main.run" -> ("", "main.run").
func SplitName(full string) (class, function string) {
	if full == "" {
		return "", ""
	}
	slash := strings.LastIndexByte(full, '/')
	base := full[slash+1:]
	dot := strings.IndexByte(base, '.')
	if dot < 0 {
		return "", base
	}
	pkg, rest := base[:dot], base[dot+1:]
	rest = stripTypeArgs(rest)

	if strings.HasPrefix(rest, "(") {
		end := strings.IndexByte(rest, ')')
		if end > 0 && end+1 < len(rest) && rest[end+1] == '.' {
			recv := strings.TrimPrefix(rest[1:end], "*")
			return pkg + "." + recv, rest[end+2:]
		}
	}
	parts := strings.SplitN(rest, ".", 2)
	if len(parts) == 2 && isTypeName(parts[0]) && !isClosure(parts[1]) {
		return pkg + "." + parts[0], parts[1]
	}
	return "", pkg + "." + rest
}

// isTypeName guesses whether a name segment is a value-receiver type rather
// than an enclosing function of a closure.
func isTypeName(s string) bool {
	return s != "" && s != "init" && !strings.HasPrefix(s, "func")
}

func isClosure(s string) bool {
	if strings.HasPrefix(s, "func") {
		return true
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

func stripTypeArgs(s string) string {
	for {
		open := strings.IndexByte(s, '[')
		if open < 0 {
			return s
		}
		end := strings.IndexByte(s[open:], ']')
		if end < 0 {
			return s
		}
		s = s[:open] + s[open+end+1:]
	}
}

// Matcher reports whether a frame belongs to the caller's own code.
type Matcher func(Frame) bool

// DirMatcher matches frames whose file lives directly in one of dirs.
// Test files are never matched so tests of the matched packages still see
// their own frames.
func DirMatcher(dirs ...string) Matcher {
	set := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		if d != "" {
			set[path.Clean(d)] = true
		}
	}
	return func(fr Frame) bool {
		if fr.File == "" || strings.HasSuffix(fr.File, "_test.go") {
			return false
		}
		return set[path.Dir(fr.File)]
	}
}

// Filter drops frames without a file and frames matched by self.
func Filter(frames []Frame, self Matcher) []Frame {
	out := make([]Frame, 0, len(frames))
	for _, fr := range frames {
		if fr.File == "" {
			continue
		}
		if self != nil && self(fr) {
			continue
		}
		out = append(out, fr)
	}
	return out
}

// Tag renders the caller part: "Class=>func()" or "func()".
func Tag(fr Frame) string {
	if fr.Function == "" {
		return ""
	}
	if fr.Class != "" {
		return fr.Class + "=>" + fr.Function + "()"
	}
	return fr.Function + "()"
}

// Location renders "file: <file>, line: <n>", passing the file through limit.
func Location(fr Frame, limit func(string) string) string {
	file := fr.File
	if limit != nil {
		file = limit(file)
	}
	line := ""
	if fr.Line > 0 {
		line = strconv.Itoa(fr.Line)
	}
	return "file: " + file + ", line: " + line
}

// Format renders one full trace line.
func Format(fr Frame, limit func(string) string) string {
	loc := Location(fr, limit)
	if tag := Tag(fr); tag != "" {
		return loc + ", " + tag
	}
	return loc
}
