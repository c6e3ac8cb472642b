// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package producer

import "sync/atomic"

// Stats is a snapshot of loop counters.
type Stats struct {
	FramesPublished  uint64
	FramesDropped    uint64 // overwritten in the slot before the consumer took them
	EmptyFrames      uint64
	ConversionErrors uint64
	PullErrors       uint64
	SubtitleUpdates  uint64
	LogsSuppressed   uint64
}

type counters struct {
	published  atomic.Uint64
	empty      atomic.Uint64
	convErrors atomic.Uint64
	pullErrors atomic.Uint64
	subtitles  atomic.Uint64
	suppressed atomic.Uint64
}

// Stats returns the current counters. Safe to call from any goroutine.
func (l *Loop) Stats() Stats {
	return Stats{
		FramesPublished:  l.stats.published.Load(),
		FramesDropped:    l.frames.Drops(),
		EmptyFrames:      l.stats.empty.Load(),
		ConversionErrors: l.stats.convErrors.Load(),
		PullErrors:       l.stats.pullErrors.Load(),
		SubtitleUpdates:  l.stats.subtitles.Load(),
		LogsSuppressed:   l.stats.suppressed.Load(),
	}
}
