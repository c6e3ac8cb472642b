// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package producer

import (
	"log/slog"
	"time"

	"github.com/gogpu/gg-video/convert"
	"github.com/gogpu/gg-video/slot"
)

// DefaultPollInterval bounds each steady-state pull so that a stop request is
// observed within one frame at 60 Hz.
const DefaultPollInterval = 16 * time.Millisecond

// Observer receives per-frame measurements. Implementations must be safe
// for concurrent use and must not block.
type Observer interface {
	FramePublished(convertTime time.Duration)
	FrameFailed(stage string)
	SubtitleChanged(visible bool)
}

// Option configures a Loop.
type Option func(*Loop)

// WithConverter sets the converter used for every frame. The loop does not
// close it.
func WithConverter(c *convert.Converter) Option {
	return func(l *Loop) {
		if c != nil {
			l.conv = c
		}
	}
}

// WithNV12Slot makes the loop publish owned NV12 copies into s instead of
// converting to RGBA. The frame slot passed to New stays empty.
func WithNV12Slot(s *slot.Slot[*convert.NV12Frame]) Option {
	return func(l *Loop) {
		l.nv12 = s
	}
}

// WithPollInterval sets the steady-state pull timeout.
func WithPollInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.poll = d
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loop) {
		if log != nil {
			l.log = log
		}
	}
}

// WithObserver attaches a metrics observer.
func WithObserver(o Observer) Option {
	return func(l *Loop) {
		l.obs = o
	}
}

// WithErrorLogRate limits per-frame error logs to r per second with the
// given burst. Suppressed errors are still counted in Stats.
func WithErrorLogRate(r float64, burst int) Option {
	return func(l *Loop) {
		l.logRate = r
		l.logBurst = burst
	}
}
