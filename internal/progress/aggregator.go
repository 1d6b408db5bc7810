package progress

import (
	"sync"

	"github.com/ytget/yt-converter/internal/model"
)

// Aggregator forwards events from every watched reporter to one sink. Events
// are delivered in arrival order without cross-source reordering; percentages
// from different sources may interleave, which mirrors two independently
// progressing downloads feeding one narrative.
type Aggregator struct {
	sink model.ProgressSink
	mu   sync.Mutex
	wg   sync.WaitGroup
}

// NewAggregator creates an aggregator for the given sink. A nil sink is
// allowed; all events are then discarded without buffering.
func NewAggregator(sink model.ProgressSink) *Aggregator {
	return &Aggregator{sink: sink}
}

// Active reports whether a sink is attached. Callers skip reporter setup
// entirely when it is not.
func (a *Aggregator) Active() bool {
	return a.sink != nil
}

// Watch subscribes the aggregator to a reporter for the rest of the session.
func (a *Aggregator) Watch(r *Reporter) {
	if a.sink == nil || r == nil {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for ev := range r.Events() {
			a.deliver(ev)
		}
	}()
}

// Emit delivers one event directly to the sink, bypassing source channels.
// Used for phase transitions and the final completion event.
func (a *Aggregator) Emit(ev model.ProgressEvent) {
	if a.sink == nil {
		return
	}
	a.deliver(ev)
}

// deliver serializes sink invocations so a caller-supplied callback never
// runs concurrently with itself.
func (a *Aggregator) deliver(ev model.ProgressEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sink(ev)
}

// Wait blocks until every watched reporter's channel is closed and drained.
// Emitting the final event after Wait guarantees nothing follows it.
func (a *Aggregator) Wait() {
	a.wg.Wait()
}
