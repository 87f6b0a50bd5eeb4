package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const progressBarWidth = 30

// Progress draws a single-line progress bar for batch commands. It is
// meant for stderr so that it never mixes with formatted output.
type Progress struct {
	mu    sync.Mutex
	w     io.Writer
	unit  string
	total int
	done  int
	start time.Time
	now   func() time.Time
}

// NewProgress starts a progress bar over total items named unit
// (e.g. "queries").
func NewProgress(w io.Writer, total int, unit string) *Progress {
	return newProgress(w, total, unit, time.Now)
}

func newProgress(w io.Writer, total int, unit string, now func() time.Time) *Progress {
	p := &Progress{w: w, unit: unit, total: total, start: now(), now: now}
	p.draw()
	return p
}

// Step records one completed item.
func (p *Progress) Step() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done < p.total {
		p.done++
	}
	p.draw()
}

// Done completes the bar and ends the line.
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = p.total
	p.draw()
	fmt.Fprintln(p.w)
}

// Fail ends the bar with err.
func (p *Progress) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "\n✗ Error: %v\n", err)
}

// draw renders the bar. Caller must hold p.mu.
func (p *Progress) draw() {
	if p.total <= 0 {
		return
	}
	filled := p.done * progressBarWidth / p.total
	bar := strings.Repeat("#", filled) + strings.Repeat(".", progressBarWidth-filled)

	var rate float64
	if elapsed := p.now().Sub(p.start).Seconds(); elapsed > 0 {
		rate = float64(p.done) / elapsed
	}
	fmt.Fprintf(p.w, "\r[%s] %d/%d %s (%d%%) %.1f/s",
		bar, p.done, p.total, p.unit, p.done*100/p.total, rate)
}
