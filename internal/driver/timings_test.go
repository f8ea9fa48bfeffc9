package driver

import (
	"strings"
	"testing"
	"time"
)

func TestTimings(t *testing.T) {
	tm := NewTimings()

	idx := tm.Begin("load")
	time.Sleep(time.Millisecond)
	tm.End(idx, "3 snapshots")

	idx = tm.Begin("merge")
	tm.End(idx, "")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("report has %d phases, want 2", len(report.Phases))
	}
	if report.Phases[0].Name != "load" || report.Phases[0].Note != "3 snapshots" {
		t.Errorf("first phase = %+v", report.Phases[0])
	}
	if report.Phases[0].DurationMS <= 0 {
		t.Error("slept phase reported zero duration")
	}
	if report.TotalMS < report.Phases[0].DurationMS {
		t.Error("total is smaller than one of its phases")
	}

	summary := tm.Summary()
	for _, want := range []string{"load", "merge", "total", "// 3 snapshots"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestTimingsEndOutOfRange(t *testing.T) {
	tm := NewTimings()
	tm.End(0, "nothing started")
	tm.End(-1, "negative")
	if got := tm.Report(); len(got.Phases) != 0 {
		t.Errorf("report has %d phases, want 0", len(got.Phases))
	}
}

func TestStageStatusStrings(t *testing.T) {
	if StageDecode.String() != "decode" || StageMerge.String() != "merge" || StageWrite.String() != "write" {
		t.Error("stage names changed")
	}
	if StatusQueued.String() != "queued" || StatusError.String() != "error" {
		t.Error("status names changed")
	}
	if Stage(9).String() != "unknown" || Status(9).String() != "unknown" {
		t.Error("out-of-range values must render as unknown")
	}
}
