package core

// Event represents a simulation event
type Event struct {
	Type    EventType
	Tick    uint64  // number of advancing ticks so far
	Time    float64 // timestamp passed to Tick, seconds
	Payload interface{}
}

type EventType uint16

const (
	EvtTickAdvanced EventType = iota
	EvtTickSkipped
	EvtTrailerHitched
)

func (t EventType) String() string {
	switch t {
	case EvtTickAdvanced:
		return "tick-advanced"
	case EvtTickSkipped:
		return "tick-skipped"
	case EvtTrailerHitched:
		return "trailer-hitched"
	}
	return "unknown"
}

// SkippedTick is the payload of EvtTickSkipped
type SkippedTick struct {
	DT    float64
	First bool  // first tick, only seeds the timestamp
	Err   error // nil for duplicate timestamps and first ticks
}

// TrailerHitched is the payload of EvtTrailerHitched
type TrailerHitched struct {
	Index int
}

// EventBus queues simulation events while the sim ticks and hands them to
// listeners when the host calls Dispatch, outside the tick.
type EventBus struct {
	listeners map[EventType][]EventHandler
	queue     []Event
}

type EventHandler func(e Event)

func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventType][]EventHandler),
	}
}

// On registers a handler for an event type
func (eb *EventBus) On(t EventType, h EventHandler) {
	eb.listeners[t] = append(eb.listeners[t], h)
}

// OnTrailerHitched registers a handler that receives the hitch payload directly
func (eb *EventBus) OnTrailerHitched(h func(e Event, p TrailerHitched)) {
	eb.On(EvtTrailerHitched, func(e Event) { h(e, e.Payload.(TrailerHitched)) })
}

// OnTickSkipped registers a handler for skipped ticks. Seeding ticks (first tick,
// or the first after a reseed) are routine and only reach it when withSeeds is set.
func (eb *EventBus) OnTickSkipped(withSeeds bool, h func(e Event, p SkippedTick)) {
	eb.On(EvtTickSkipped, func(e Event) {
		p := e.Payload.(SkippedTick)
		if p.First && !withSeeds {
			return
		}
		h(e, p)
	})
}

// Emit queues an event for dispatch
func (eb *EventBus) Emit(e Event) {
	eb.queue = append(eb.queue, e)
}

// Pending returns the number of queued events
func (eb *EventBus) Pending() int {
	return len(eb.queue)
}

// Dispatch delivers the events queued so far in emission order and returns how
// many were delivered. Events emitted by handlers wait for the next Dispatch.
func (eb *EventBus) Dispatch() int {
	batch := eb.queue
	eb.queue = nil
	for _, e := range batch {
		for _, h := range eb.listeners[e.Type] {
			h(e)
		}
	}
	return len(batch)
}

// Reset drops queued events and every listener
func (eb *EventBus) Reset() {
	eb.queue = nil
	eb.listeners = make(map[EventType][]EventHandler)
}
