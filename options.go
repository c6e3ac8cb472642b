package ggvideo

import (
	"log/slog"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/gg-video/convert"
	"github.com/gogpu/gg-video/metrics"
	"github.com/gogpu/gg-video/surface"
	"github.com/gogpu/gg-video/texture"
)

// Option configures a Player during creation.
//
// Example:
//
//	// Headless: frames are only read through LatestDisplayFrame
//	p, err := ggvideo.New(src)
//
//	// Texture path inside a GUI framework
//	p, err := ggvideo.New(src,
//	    ggvideo.WithCreator(creator),
//	    ggvideo.WithPainter(painter),
//	    ggvideo.WithDeviceProvider(provider))
type Option func(*options)

// options holds optional configuration for Player creation.
type options struct {
	creator  texture.Creator
	painter  texture.Painter
	provider gpucontext.DeviceProvider

	surfaceBackend string
	surfacePainter surface.Painter

	poll     time.Duration
	workers  int
	rng      convert.Range
	fit      ContentFit
	displayW *int
	displayH *int

	metrics  *metrics.Metrics
	logger   *slog.Logger
	eventCap int
}

// defaultOptions returns the default player options.
func defaultOptions() options {
	return options{
		poll:     16 * time.Millisecond,
		workers:  1,
		rng:      convert.LimitedRange,
		fit:      Contain,
		eventCap: defaultEventCapacity,
	}
}

// WithCreator sets the texture creator of the GUI framework.
// Together with WithPainter it enables the texture path.
func WithCreator(c texture.Creator) Option {
	return func(o *options) {
		o.creator = c
	}
}

// WithPainter sets the painter that draws textures in the paint pass.
func WithPainter(p texture.Painter) Option {
	return func(o *options) {
		o.painter = p
	}
}

// WithDeviceProvider sets the GPU context the textures are created on.
// Its surface format decides whether frames are uploaded as RGBA or BGRA.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithDirectSurface selects the direct-surface path using the named
// backend from the surface registry. The choice is made once in New; if the
// surface cannot be created the player logs a warning and uses the texture
// path.
//
// Platform backends require the directsurface build tag. The host backend
// (surface.HostBackend) is always available.
func WithDirectSurface(backend string, p surface.Painter) Option {
	return func(o *options) {
		o.surfaceBackend = backend
		o.surfacePainter = p
	}
}

// WithPollInterval bounds each steady-state frame pull.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.poll = d
		}
	}
}

// WithWorkers sets the number of goroutines converting tall frames.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithColorRange sets the quantisation range of the decoded video.
func WithColorRange(r convert.Range) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithContentFit sets how frames are placed in the paint region.
func WithContentFit(f ContentFit) Option {
	return func(o *options) {
		o.fit = f
	}
}

// WithDisplaySize sets initial display size overrides. See
// Player.SetDisplaySize.
func WithDisplaySize(width, height *int) Option {
	return func(o *options) {
		o.displayW = width
		o.displayH = height
	}
}

// WithMetrics records pipeline metrics under the player's id.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithLogger sets the player's logger instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithEventBuffer bounds the number of undelivered events.
func WithEventBuffer(n int) Option {
	return func(o *options) {
		o.eventCap = n
	}
}
