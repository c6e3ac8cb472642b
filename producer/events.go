// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package producer

import "time"

// EventKind identifies an outbound pipeline event.
type EventKind uint8

const (
	// EventNewFrame reports that a frame was published into the frame slot.
	EventNewFrame EventKind = iota + 1

	// EventEndOfStream reports that playback reached the end of the media.
	EventEndOfStream

	// EventError reports an irrecoverable pipeline error.
	EventError

	// EventSubtitle reports a subtitle change. Text is nil when the
	// subtitle was cleared.
	EventSubtitle
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventNewFrame:
		return "NewFrame"
	case EventEndOfStream:
		return "EndOfStream"
	case EventError:
		return "Error"
	case EventSubtitle:
		return "SubtitleText"
	default:
		return "Unknown"
	}
}

// Event is emitted by the loop to its EventSink.
type Event struct {
	Kind    EventKind
	Seq     uint64  // EventNewFrame
	Message string  // EventError
	Text    *string // EventSubtitle
}

// EventSink receives loop events. Emit is called from the loop goroutine and
// must not block.
type EventSink interface {
	Emit(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// Emit calls f(e).
func (f EventSinkFunc) Emit(e Event) { f(e) }

// SubtitleText is the value held by the subtitle slot.
// A nil Text means no subtitle is shown.
type SubtitleText struct {
	Text *string
	PTS  time.Duration
}
