package progress

import (
	"fmt"
	"sync"

	"github.com/ytget/yt-converter/internal/model"
)

// Buffer size for per-source event channels. Updates beyond a slow consumer
// are dropped; progress is lossy by contract, only per-source monotonicity
// and the final completion event are guaranteed.
const eventBuffer = 16

// Reporter converts byte counts from one source into progress events scaled
// into the [lo,hi] percentage sub-range. A nil *Reporter is valid and drops
// everything, which is how sessions without a sink run at zero cost.
type Reporter struct {
	label  string
	lo, hi float64

	mu     sync.Mutex
	last   float64
	closed bool
	events chan model.ProgressEvent
}

// NewReporter creates a reporter labelled for its phase narrative, reporting
// into the [lo,hi] sub-range.
func NewReporter(label string, lo, hi float64) *Reporter {
	return &Reporter{
		label:  label,
		lo:     lo,
		hi:     hi,
		events: make(chan model.ProgressEvent, eventBuffer),
	}
}

// Update records downloaded bytes against the declared total. Events with a
// percentage below an already-reported one are suppressed, keeping this
// source's contribution non-decreasing. Unknown totals report nothing.
func (r *Reporter) Update(downloaded, total int64) {
	if r == nil || total <= 0 {
		return
	}

	frac := float64(downloaded) / float64(total)
	if frac > 1 {
		frac = 1
	}
	pct := r.lo + (r.hi-r.lo)*frac

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || pct < r.last {
		return
	}
	r.last = pct

	ev := model.ProgressEvent{
		Percentage: pct,
		Status:     fmt.Sprintf("%s: %.2f%%", r.label, pct),
	}
	select {
	case r.events <- ev:
	default:
		// consumer lagging, drop this update
	}
}

// Close ends the event stream. Safe to call more than once and on nil.
func (r *Reporter) Close() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	close(r.events)
}

// Events exposes the source's event channel for aggregation.
func (r *Reporter) Events() <-chan model.ProgressEvent {
	if r == nil {
		return nil
	}
	return r.events
}
