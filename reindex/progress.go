package reindex

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports how far a reindex run has advanced through the
// entity set. Output goes to a single writer (normally os.Stderr) as a
// carriage-return-rewritten line, so a terminal shows one live counter.
// Safe for concurrent use.
type ProgressTracker struct {
	mu sync.Mutex

	writer         io.Writer
	total          int
	reportInterval int

	done         int
	lastReported int
	startTime    time.Time
	started      bool
}

// NewProgressTracker tracks progress over total entities, emitting a line
// every reportInterval entities.
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	return &ProgressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
	}
}

// Start resets the counters and begins timing. Updates before Start are
// ignored.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.done = 0
	p.lastReported = 0
}

// Update sets the number of entities processed so far.
func (p *ProgressTracker) Update(done int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance(done)
}

// Increment adds delta to the number of entities processed so far.
func (p *ProgressTracker) Increment(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance(p.done + delta)
}

// advance moves the counter and reports when a report interval has been
// crossed. Must be called with the lock held.
func (p *ProgressTracker) advance(done int) {
	if !p.started {
		return
	}
	p.done = min(done, p.total)
	if p.done-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.done
	}
}

// Finish forces the counter to total, prints the final line and ends it
// with a newline so subsequent output starts clean.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	p.done = p.total
	p.report()
	fmt.Fprintln(p.writer)
}

// Elapsed returns the time since Start, or zero if never started.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}
	return time.Since(p.startTime)
}

// report writes the live counter line. Must be called with the lock held.
func (p *ProgressTracker) report() {
	rate := float64(p.done) / time.Since(p.startTime).Seconds()

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.done) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rReindexed %d/%d entities (%.1f%%) at %.1f entities/s",
		p.done, p.total, percentage, rate)
}
