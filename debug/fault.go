package debug

import (
	"fmt"
	"strconv"
	"strings"

	"spyglass/sink"
)

// Fault is a failure rendered by the interception hooks: an *Exception or a
// *RuntimeError.
type Fault interface {
	error
	fault()
}

// Exception is a panic that escaped, or an error passed to Throw.
type Exception struct {
	Kind    string
	Message string
	File    string
	Line    int
	Trace   []Frame
	Value   any // the recovered panic value or the thrown error
}

func (*Exception) fault() {}

func (x *Exception) Error() string { return x.Kind + ": " + x.Message }

// Unwrap returns the panic value when it is an error.
func (x *Exception) Unwrap() error {
	err, _ := x.Value.(error)
	return err
}

// RuntimeError is a fault reported without unwinding the stack.
type RuntimeError struct {
	Kind     string
	Severity Severity
	Message  string
	File     string
	Line     int
	Trace    []Frame
	Err      error
}

func (*RuntimeError) fault() {}

func (r *RuntimeError) Error() string {
	return r.Severity.String() + " (" + r.Kind + "): " + r.Message
}

// Unwrap returns the reported error.
func (r *RuntimeError) Unwrap() error { return r.Err }

// newException describes a recovered panic value. frames is the stack of the
// panicking goroutine, innermost first.
func newException(v any, frames []Frame) *Exception {
	x := &Exception{Kind: kindOf(v), Message: messageOf(v), Trace: frames, Value: v}
	if len(frames) > 0 {
		x.File, x.Line = frames[0].File, frames[0].Line
	}
	return x
}

func newRuntimeError(sev Severity, err error, frames []Frame) *RuntimeError {
	r := &RuntimeError{Kind: kindOf(err), Severity: sev, Message: messageOf(err), Trace: frames, Err: err}
	if len(frames) > 0 {
		r.File, r.Line = frames[0].File, frames[0].Line
	}
	return r
}

// kindOf names the dynamic type of a panic value or error. Strings are
// plain panics; errors.New and fmt.Errorf values are plain errors.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "panic"
	case string:
		return "panic"
	}
	kind := strings.TrimPrefix(fmt.Sprintf("%T", v), "*")
	switch kind {
	case "errors.errorString", "fmt.wrapError", "fmt.wrapErrors", "errors.joinError":
		return "error"
	}
	return kind
}

// messageOf returns the text of v. It never panics.
func messageOf(v any) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprintf("(message unavailable: %v)", r)
		}
	}()
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return x
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// renderFault writes the banner of f, its location and, at full-trace
// level, its stack.
func (e *Engine) renderFault(s sink.Sink, f Fault, level Level, th Thresholds) {
	var (
		head   string
		file   string
		line   int
		frames []Frame
	)
	switch f := f.(type) {
	case *Exception:
		head = " " + f.Kind + ": " + f.Message + " "
		file, line, frames = f.File, f.Line, f.Trace
	case *RuntimeError:
		head = " " + f.Severity.String() + " (" + f.Kind + "): " + f.Message + " "
		file, line, frames = f.File, f.Line, f.Trace
	default:
		return
	}

	s.Write("| ", "light_red, bold")
	s.Writeln(head, "light_red")
	if level < th.Dump {
		return
	}
	if file != "" {
		loc := "file: " + e.LimitPath(file) + ", line: "
		if line > 0 {
			loc += strconv.Itoa(line)
		}
		s.Write("| ", "light_red, bold")
		s.Writeln(loc, "info")
	}
	if level >= th.FullTrace && len(frames) > 0 {
		e.writeFrames(s, frames, true)
	}
}
