package driver

import (
	"fmt"
	"time"
)

// Timings tracks the duration of pipeline phases for --timings output.
type Timings struct {
	phases []phase
}

type phase struct {
	name  string
	start time.Time
	dur   time.Duration
	note  string
}

// NewTimings creates an empty phase timer.
func NewTimings() *Timings { return &Timings{phases: make([]phase, 0, 4)} }

// Begin starts a new phase and returns its index.
func (t *Timings) Begin(name string) int {
	t.phases = append(t.phases, phase{name: name, start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timings) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.dur = time.Since(p.start)
	p.note = note
}

// PhaseReport is one row of a serialized timing report.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// TimingReport aggregates all phases with their total.
type TimingReport struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report collects the finished phases in milliseconds.
func (t *Timings) Report() TimingReport {
	if len(t.phases) == 0 {
		return TimingReport{}
	}
	report := TimingReport{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, p := range t.phases {
		total += p.dur
		report.Phases[i] = PhaseReport{
			Name:       p.name,
			DurationMS: durationToMillis(p.dur),
			Note:       p.note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// Summary renders a human-readable block for terminal output.
func (t *Timings) Summary() string {
	report := t.Report()
	out := "timings:\n"
	for _, p := range report.Phases {
		out += fmt.Sprintf("  %-12s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			out += "  // " + p.Note
		}
		out += "\n"
	}
	out += fmt.Sprintf("  %-12s %7.2f ms\n", "total", report.TotalMS)
	return out
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
