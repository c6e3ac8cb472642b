// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package metrics exports frame pipeline counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline collectors, labelled by player id.
type Metrics struct {
	framesPublished  *prometheus.CounterVec
	framesFailed     *prometheus.CounterVec
	conversionTime   *prometheus.HistogramVec
	subtitleChanges  *prometheus.CounterVec
	handlesCreated   *prometheus.CounterVec
	handlesReleased  *prometheus.CounterVec
	handlesLive      *prometheus.GaugeVec
	creationFailures *prometheus.CounterVec
}

// New registers the collectors with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		framesPublished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ggvideo_frames_published_total",
			Help: "Frames converted and published to the frame slot",
		}, []string{"player"}),

		framesFailed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ggvideo_frames_failed_total",
			Help: "Frames skipped because pulling or converting failed",
		}, []string{"player", "stage"}),

		conversionTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ggvideo_conversion_seconds",
			Help:    "Time spent converting one frame",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // 100us to ~200ms
		}, []string{"player"}),

		subtitleChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ggvideo_subtitle_changes_total",
			Help: "Subtitle updates, by whether text became visible",
		}, []string{"player", "visible"}),

		handlesCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ggvideo_texture_handles_created_total",
			Help: "Texture handles created",
		}, []string{"player"}),

		handlesReleased: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ggvideo_texture_handles_released_total",
			Help: "Texture handles released",
		}, []string{"player"}),

		handlesLive: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ggvideo_texture_handles_live",
			Help: "Texture handles currently alive",
		}, []string{"player"}),

		creationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ggvideo_texture_creation_failures_total",
			Help: "Texture creations rejected by the GUI framework",
		}, []string{"player"}),
	}
}

// Player returns an observer bound to one player id. It satisfies both
// producer.Observer and texture.Observer.
func (m *Metrics) Player(id string) *Player {
	return &Player{m: m, id: id}
}

// Player records metrics for a single player.
type Player struct {
	m  *Metrics
	id string
}

// FramePublished records a published frame and its conversion time.
func (p *Player) FramePublished(convertTime time.Duration) {
	p.m.framesPublished.WithLabelValues(p.id).Inc()
	p.m.conversionTime.WithLabelValues(p.id).Observe(convertTime.Seconds())
}

// FrameFailed records a skipped frame.
func (p *Player) FrameFailed(stage string) {
	p.m.framesFailed.WithLabelValues(p.id, stage).Inc()
}

// SubtitleChanged records a subtitle update.
func (p *Player) SubtitleChanged(visible bool) {
	v := "false"
	if visible {
		v = "true"
	}
	p.m.subtitleChanges.WithLabelValues(p.id, v).Inc()
}

// HandleCreated records a texture creation.
func (p *Player) HandleCreated() {
	p.m.handlesCreated.WithLabelValues(p.id).Inc()
	p.m.handlesLive.WithLabelValues(p.id).Inc()
}

// HandleReleased records a texture release.
func (p *Player) HandleReleased() {
	p.m.handlesReleased.WithLabelValues(p.id).Inc()
	p.m.handlesLive.WithLabelValues(p.id).Dec()
}

// CreationFailed records a rejected texture creation.
func (p *Player) CreationFailed() {
	p.m.creationFailures.WithLabelValues(p.id).Inc()
}

// Forget removes every series of the player, typically after Close.
func (p *Player) Forget() {
	labels := prometheus.Labels{"player": p.id}
	p.m.framesPublished.DeletePartialMatch(labels)
	p.m.framesFailed.DeletePartialMatch(labels)
	p.m.conversionTime.DeletePartialMatch(labels)
	p.m.subtitleChanges.DeletePartialMatch(labels)
	p.m.handlesCreated.DeletePartialMatch(labels)
	p.m.handlesReleased.DeletePartialMatch(labels)
	p.m.handlesLive.DeletePartialMatch(labels)
	p.m.creationFailures.DeletePartialMatch(labels)
}
