// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package producer

import (
	"context"
	"time"
)

// RawFrame is a decoded NV12 frame borrowed from the decoder.
//
// Data is valid until Release is called. The loop calls Release exactly once,
// right after conversion, whether conversion succeeded or not.
type RawFrame struct {
	Data     []byte
	Width    int
	Height   int
	PTS      time.Duration
	Duration time.Duration

	// Release returns the buffer to the decoder. May be nil.
	Release func()
}

func (f *RawFrame) release() {
	if f.Release != nil {
		f.Release()
		f.Release = nil
	}
}

// End returns PTS + Duration.
func (f *RawFrame) End() time.Duration {
	return f.PTS + f.Duration
}

// SubtitleSample is a timed text sample from the subtitle stream.
type SubtitleSample struct {
	Text     string
	PTS      time.Duration
	Duration time.Duration
}

// End returns PTS + Duration.
func (s *SubtitleSample) End() time.Duration {
	return s.PTS + s.Duration
}

// SourceEventKind identifies an asynchronous pipeline notification.
type SourceEventKind uint8

const (
	// SourceEndOfStream is posted once the last frame has been delivered.
	SourceEndOfStream SourceEventKind = iota + 1

	// SourceError is posted when the pipeline fails irrecoverably.
	SourceError
)

// SourceEvent is a bus message from the decode pipeline.
type SourceEvent struct {
	Kind SourceEventKind
	Err  error // set for SourceError
}

// Source is the decode pipeline boundary.
//
// Implementations must be safe for use from the loop goroutine while the
// consumer calls PlaybackTime from another goroutine.
type Source interface {
	// TryPullFrame waits up to timeout for the next decoded frame.
	// With blocking set it pulls a preroll frame, which is delivered even
	// while the pipeline is paused. It returns (nil, nil) on timeout.
	TryPullFrame(ctx context.Context, blocking bool, timeout time.Duration) (*RawFrame, error)

	// TryPullSubtitle returns the next subtitle sample if one is queued.
	// It never blocks.
	TryPullSubtitle() (*SubtitleSample, bool)

	// PlaybackTime returns the current position on the decode timeline.
	PlaybackTime() time.Duration

	// Events returns the pipeline bus. A nil channel means the source never
	// posts events; a closed channel is treated as end of stream.
	Events() <-chan SourceEvent

	// Started reports whether playback has left the preroll state.
	Started() bool
}

// Sizer is implemented by sources that know the negotiated video size
// before the first frame is pulled.
type Sizer interface {
	VideoSize() (width, height int, ok bool)
}
