// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gstsource

import (
	"log/slog"
	"time"
)

// Option configures Open.
type Option func(*config)

type config struct {
	subtitles   bool
	maxBuffers  int
	openTimeout time.Duration
	busPoll     time.Duration
	logger      *slog.Logger
}

func defaultConfig() config {
	return config{
		maxBuffers:  3,
		openTimeout: 5 * time.Second,
		busPoll:     50 * time.Millisecond,
		logger:      slog.New(slog.DiscardHandler),
	}
}

// WithSubtitles attaches a text sink to the playbin.
func WithSubtitles(on bool) Option {
	return func(c *config) { c.subtitles = on }
}

// WithMaxBuffers bounds the video appsink queue. Older buffers are dropped.
func WithMaxBuffers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxBuffers = n
		}
	}
}

// WithOpenTimeout bounds how long Open waits for the first frame to
// negotiate the video size.
func WithOpenTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.openTimeout = d
		}
	}
}

// WithLogger sets the logger for pipeline messages.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
