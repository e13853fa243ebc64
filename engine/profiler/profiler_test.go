package profiler

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestRecordMean(t *testing.T) {
	p := NewProfiler()
	p.Record(SectionDraw, 2*time.Millisecond)
	p.Record(SectionDraw, 4*time.Millisecond)

	if got := p.Mean(SectionDraw); got != 3*time.Millisecond {
		t.Errorf("Expected mean 3ms, got %v", got)
	}
	if got := p.Mean(SectionStep); got != 0 {
		t.Errorf("Expected 0 for an unrecorded section, got %v", got)
	}
}

func TestTickReportsAndResets(t *testing.T) {
	p := NewProfiler()
	clock := p.lastTime
	p.now = func() time.Time { return clock }

	var lines []string
	p.logf = func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	p.Record(SectionStep, time.Millisecond)
	p.Record(SectionDraw, 500*time.Microsecond)

	clock = clock.Add(500 * time.Millisecond)
	if p.Tick() {
		t.Fatalf("Expected no report before the interval elapsed")
	}

	clock = clock.Add(600 * time.Millisecond)
	if !p.Tick() {
		t.Fatalf("Expected a report after the interval elapsed")
	}
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line, got %d", len(lines))
	}

	line := lines[0]
	if !strings.HasPrefix(line, "[Profiler] FPS: ") {
		t.Errorf("Expected the [Profiler] prefix, got %q", line)
	}
	draw := strings.Index(line, "draw: 0.50 ms")
	step := strings.Index(line, "step: 1.00 ms")
	if draw < 0 || step < 0 || draw > step {
		t.Errorf("Expected sorted section means in %q", line)
	}

	if got := p.Mean(SectionStep); got != 0 {
		t.Errorf("Expected sections cleared after a report, got %v", got)
	}
}

func TestNilProfiler(t *testing.T) {
	var p *Profiler
	p.Record(SectionDraw, time.Second)
	if p.Tick() {
		t.Errorf("Expected a nil profiler never to report")
	}
	if p.Mean(SectionDraw) != 0 {
		t.Errorf("Expected a nil profiler mean of 0")
	}
}
