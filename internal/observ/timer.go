// Package observ measures wall-clock phases of a process.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase records the duration and metadata of one phase.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks the phases of a process. It is safe for concurrent use.
type Timer struct {
	mu     sync.Mutex
	origin time.Time
	phases []Phase
	now    func() time.Time
}

// NewTimer creates a Timer whose origin is now.
func NewTimer() *Timer { return NewTimerAt(time.Now()) }

// NewTimerAt creates a Timer whose origin is start.
func NewTimerAt(start time.Time) *Timer {
	return &Timer{origin: start, phases: make([]Phase, 0, 4), now: time.Now}
}

// Begin starts a new phase at the current time and returns its index.
func (t *Timer) Begin(name string) int {
	return t.BeginAt(name, t.now())
}

// BeginAt starts a new phase at start and returns its index.
func (t *Timer) BeginAt(name string, start time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: start})
	return len(t.phases) - 1
}

// End finishes a phase by its index. Ending a phase twice keeps the first end.
func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	if p.Dur != 0 {
		return
	}
	p.Dur = t.now().Sub(p.Start)
	p.Note = note
}

// Elapsed returns the time since the origin.
func (t *Timer) Elapsed() time.Duration {
	return t.now().Sub(t.origin)
}

// PhaseReport is the serializable view of a phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report aggregates the timer. Phases still running are reported up to now.
type Report struct {
	ElapsedMS float64       `json:"elapsed_ms"`
	Phases    []PhaseReport `json:"phases"`
}

// Report builds the phase list and the elapsed time in milliseconds.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	report := Report{
		ElapsedMS: durationToMillis(now.Sub(t.origin)),
		Phases:    make([]PhaseReport, len(t.phases)),
	}
	for i, phase := range t.phases {
		dur := phase.Dur
		if dur == 0 {
			dur = now.Sub(phase.Start)
		}
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(dur),
			Note:       phase.Note,
		}
	}
	return report
}

// Summary returns a human-readable table of the report.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-20s %9.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "  %-20s %9.2f ms\n", "elapsed", report.ElapsedMS)
	return sb.String()
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
