package trace

import "sync"

// Sink receives step events.
//
// Record must be inert: it must not panic and cannot fail. Callers must
// assume Record may be a no-op.
type Sink interface {
	Record(event Event)
}

// SafeRecord records an event and guarantees inertness even if the sink is
// buggy. It swallows panics.
func SafeRecord(s Sink, event Event) {
	if s == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	s.Record(event)
}

// Recorder is a concurrency-safe in-memory collector.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Record(event Event) {
	if r == nil {
		return
	}
	defer func() {
		_ = recover()
	}()

	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

// Snapshot returns a point-in-time copy of all recorded events.
func (r *Recorder) Snapshot() []Event {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Trace builds a SessionTrace from the events recorded so far. The result
// does not share memory with the recorder.
func (r *Recorder) Trace(session, engine string) SessionTrace {
	tr := SessionTrace{Session: session, Engine: engine}
	tr.Events = r.Snapshot()
	tr.Canonicalize()
	return tr
}
