package layout

import "sync"

// EventKind discriminates stage lifecycle events.
type EventKind string

const (
	EventStageStarted   EventKind = "StageStarted"
	EventStageCompleted EventKind = "StageCompleted"
	EventStageFailed    EventKind = "StageFailed"
	EventStageSkipped   EventKind = "StageSkipped"
)

// Event is a single stage transition observed during a run.
type Event struct {
	Stage string
	Kind  EventKind

	// Output is the primary file the stage produced, set on completion.
	Output string
}

// Sink receives run events.
//
// Record must be inert:
//   - must not panic (implementations should guard themselves)
//   - must not return errors
//
// Events are observational only and must never affect run behavior.
type Sink interface {
	Record(event Event)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Record(Event) {}

// SafeRecord records an event and guarantees inertness even if the sink is
// buggy. It intentionally swallows panics.
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
