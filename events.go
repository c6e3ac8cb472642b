package ggvideo

import (
	"sync"

	"github.com/gogpu/gg-video/producer"
)

// EventKind identifies a player event.
type EventKind uint8

const (
	// EventEndOfStream is delivered once when playback reaches the end.
	EventEndOfStream EventKind = iota + 1

	// EventNewFrame reports that a frame is ready to be rendered.
	// Several frames published between two polls produce one event.
	EventNewFrame

	// EventError carries an error message. Pipeline errors end playback;
	// texture creation errors only drop one frame.
	EventError

	// EventSubtitleText reports a subtitle change. Text is nil when the
	// subtitle was cleared.
	EventSubtitleText
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventEndOfStream:
		return "EndOfStream"
	case EventNewFrame:
		return "NewFrame"
	case EventError:
		return "Error"
	case EventSubtitleText:
		return "SubtitleText"
	default:
		return "Unknown"
	}
}

// Event is delivered to the GUI through Player.PollEvents.
type Event struct {
	Kind    EventKind
	Message string  // EventError
	Text    *string // EventSubtitleText
}

// defaultEventCapacity bounds the number of undelivered events.
const defaultEventCapacity = 64

// eventQueue is a bounded event buffer between the producer goroutine and
// the GUI thread. NewFrame events coalesce; terminal events are never
// dropped.
type eventQueue struct {
	mu       sync.Mutex
	events   []Event
	limit    int
	newFrame bool // a NewFrame is queued
	dropped  uint64
	onEOS    func()

	wake chan struct{}
}

func newEventQueue(capacity int, onEOS func()) *eventQueue {
	if capacity <= 0 {
		capacity = defaultEventCapacity
	}
	return &eventQueue{
		events: make([]Event, 0, capacity),
		limit:  capacity,
		onEOS:  onEOS,
		wake:   make(chan struct{}, 1),
	}
}

// Emit implements producer.EventSink.
func (q *eventQueue) Emit(e producer.Event) {
	switch e.Kind {
	case producer.EventNewFrame:
		q.push(Event{Kind: EventNewFrame})
	case producer.EventEndOfStream:
		if q.onEOS != nil {
			q.onEOS()
		}
		q.push(Event{Kind: EventEndOfStream})
	case producer.EventError:
		q.push(Event{Kind: EventError, Message: e.Message})
	case producer.EventSubtitle:
		q.push(Event{Kind: EventSubtitleText, Text: e.Text})
	}
}

func (q *eventQueue) push(e Event) {
	q.mu.Lock()
	switch {
	case e.Kind == EventNewFrame && q.newFrame:
		// coalesced
	case len(q.events) >= q.limit && e.Kind != EventEndOfStream && e.Kind != EventError:
		q.dropped++
	default:
		if e.Kind == EventNewFrame {
			q.newFrame = true
		}
		q.events = append(q.events, e)
	}
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// drain returns all queued events in emission order.
func (q *eventQueue) drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil
	}
	out := make([]Event, len(q.events))
	copy(out, q.events)
	q.events = q.events[:0]
	q.newFrame = false
	return out
}

func (q *eventQueue) droppedCount() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
