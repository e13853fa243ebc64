package profiler

import (
	"fmt"
	"log"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"
)

// Section names recorded by the scene each frame.
const (
	SectionOrientation = "orientation"
	SectionDraw        = "draw"
	SectionStep        = "step"
)

// Profiler tracks frame rate, memory statistics and named per-frame section timings.
// Outputs stats to the log at a configurable interval.
//
// A nil *Profiler is valid: Record and Tick do nothing.
type Profiler struct {
	mu sync.Mutex

	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	sections map[string]*section
	now      func() time.Time
	logf     func(format string, args ...any)
}

// section accumulates the time spent in one named part of the frame since the last report.
type section struct {
	total time.Duration
	count int
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
		sections:       make(map[string]*section),
		now:            time.Now,
		logf:           log.Printf,
	}
}

// Record adds d to the running total of the named section.
//
// Parameters:
//   - name: the section name
//   - d: the time spent in the section this frame
func (p *Profiler) Record(name string, d time.Duration) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.sections[name]
	if !ok {
		s = &section{}
		p.sections[name] = s
	}
	s.total += d
	s.count++
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory and
// the mean time of every recorded section.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.logf("[Profiler] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB%s",
		fps, allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB, p.sectionSummary())

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	clear(p.sections)
	return true
}

// Mean returns the mean time recorded for a section since the last report.
//
// Parameters:
//   - name: the section name
//
// Returns:
//   - time.Duration: the mean, or 0 if nothing was recorded
func (p *Profiler) Mean(name string) time.Duration {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sections[name]
	if !ok || s.count == 0 {
		return 0
	}
	return s.total / time.Duration(s.count)
}

// sectionSummary formats the section means sorted by name, e.g. " | draw: 0.41 ms | step: 0.02 ms".
func (p *Profiler) sectionSummary() string {
	names := make([]string, 0, len(p.sections))
	for name := range p.sections {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	for _, name := range names {
		s := p.sections[name]
		mean := s.total / time.Duration(max(s.count, 1))
		fmt.Fprintf(&b, " | %s: %.2f ms", name, float64(mean.Microseconds())/1000)
	}
	return b.String()
}
