package ggvideo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/gg-video/convert"
	"github.com/gogpu/gg-video/layout"
	"github.com/gogpu/gg-video/metrics"
	"github.com/gogpu/gg-video/producer"
	"github.com/gogpu/gg-video/slot"
	"github.com/gogpu/gg-video/surface"
	"github.com/gogpu/gg-video/texture"
)

// Backend names reported by Player.Backend.
const (
	BackendTexture  = "texture"
	BackendHeadless = "headless"
)

// Player drives one video from a decode source to the screen.
//
// Create a Player with New, start decoding with Start, call PollEvents and
// Render from the GUI thread once per redraw, and Close when done.
// Accessors are safe to call from any goroutine.
type Player struct {
	id   string
	src  producer.Source
	opts options
	log  *slog.Logger

	frames *slot.Slot[*convert.DisplayFrame]
	planes *slot.Slot[*convert.NV12Frame] // direct-surface path only
	subs   *slot.Slot[producer.SubtitleText]

	conv      *convert.Converter
	loop      *producer.Loop
	textures  *texture.Manager
	presenter *surface.Presenter
	backend   string
	observer  *metrics.Player

	events *eventQueue

	mu       sync.Mutex // guards fit and display overrides
	fit      ContentFit
	displayW *int
	displayH *int

	runMu   sync.Mutex // orders Start against Close
	started atomic.Bool
	closed  atomic.Bool
	eos     atomic.Bool
	cancel  context.CancelFunc
	errMu   sync.Mutex
	runErr  error
}

// New creates a Player reading from src. The presentation path is chosen
// here and never changes afterwards.
func New(src producer.Source, opts ...Option) (*Player, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Player{
		id:       uuid.NewString(),
		src:      src,
		opts:     o,
		frames:   &slot.Slot[*convert.DisplayFrame]{},
		subs:     &slot.Slot[producer.SubtitleText]{},
		fit:      o.fit,
		displayW: o.displayW,
		displayH: o.displayH,
		backend:  BackendHeadless,
	}
	base := o.logger
	if base == nil {
		base = Logger()
	}
	p.log = base.With("player", p.id)
	p.events = newEventQueue(o.eventCap, func() { p.eos.Store(true) })
	if o.metrics != nil {
		p.observer = o.metrics.Player(p.id)
	}

	p.conv = convert.New(convert.WithWorkers(o.workers), convert.WithRange(o.rng))

	if o.surfaceBackend != "" {
		if err := p.initDirect(); err != nil {
			p.log.Warn("ggvideo: direct surface unavailable, using textures",
				"backend", o.surfaceBackend, "err", err)
		}
	}
	if p.presenter == nil && o.creator != nil && o.painter != nil {
		if err := p.initTextures(); err != nil {
			p.conv.Close()
			return nil, err
		}
	}

	loopOpts := []producer.Option{
		producer.WithConverter(p.conv),
		producer.WithPollInterval(o.poll),
		producer.WithLogger(p.log),
	}
	if p.observer != nil {
		loopOpts = append(loopOpts, producer.WithObserver(p.observer))
	}
	if p.presenter != nil {
		p.planes = &slot.Slot[*convert.NV12Frame]{}
		loopOpts = append(loopOpts, producer.WithNV12Slot(p.planes))
	}
	loop, err := producer.New(src, p.frames, p.subs, p.events, loopOpts...)
	if err != nil {
		p.releaseOutputs()
		return nil, err
	}
	p.loop = loop

	p.log.Info("ggvideo: player created", "backend", p.backend, "workers", p.conv.Workers(), "range", o.rng)
	return p, nil
}

func (p *Player) initDirect() error {
	name := p.opts.surfaceBackend
	if name != surface.HostBackend && !surface.DirectSurfaceEnabled {
		return ErrDirectSurfaceDisabled
	}
	if p.opts.surfacePainter == nil {
		return surface.ErrNilPainter
	}
	sizer, ok := p.src.(producer.Sizer)
	if !ok {
		return ErrUnknownSize
	}
	w, h, ok := sizer.VideoSize()
	if !ok {
		return ErrUnknownSize
	}

	native, err := surface.NewByName(name, surface.Options{Width: w, Height: h})
	if err != nil {
		return err
	}
	pr, err := surface.NewPresenter(native, p.opts.surfacePainter, p.log)
	if err != nil {
		_ = native.Close()
		return err
	}
	p.presenter = pr
	p.backend = "surface:" + name
	return nil
}

func (p *Player) initTextures() error {
	topts := []texture.Option{
		texture.WithLogger(p.log),
		texture.WithErrorHandler(func(err error) {
			p.events.push(Event{Kind: EventError, Message: err.Error()})
		}),
	}
	if p.opts.provider != nil {
		topts = append(topts, texture.WithDeviceProvider(p.opts.provider))
	}
	if p.observer != nil {
		topts = append(topts, texture.WithObserver(p.observer))
	}
	m, err := texture.New(p.frames, p.opts.creator, p.opts.painter, topts...)
	if err != nil {
		return fmt.Errorf("ggvideo: texture path: %w", err)
	}
	p.textures = m
	p.backend = BackendTexture
	return nil
}

// ID returns the player's session id, also attached to its log records.
func (p *Player) ID() string {
	return p.id
}

// Backend returns the presentation path: "texture", "surface:<name>" or
// "headless".
func (p *Player) Backend() string {
	return p.backend
}

// Start launches the producer goroutine. Cancelling ctx stops playback
// like Close does, without releasing GPU resources.
func (p *Player) Start(ctx context.Context) error {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	if p.closed.Load() {
		return ErrClosed
	}
	if p.started.Load() {
		return ErrAlreadyStarted
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.started.Store(true)

	go func() {
		err := p.loop.Run(ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		if err != nil {
			p.errMu.Lock()
			p.runErr = err
			p.errMu.Unlock()
		}
	}()
	return nil
}

// Err returns the pipeline error that ended playback, if any.
func (p *Player) Err() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	return p.runErr
}

// Close stops the producer, waits for it to exit and releases the current
// texture or surface. Close is idempotent.
func (p *Player) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	p.loop.Stop()
	p.runMu.Lock()
	cancel := p.cancel
	p.runMu.Unlock()
	if cancel != nil {
		cancel()
		<-p.loop.Done()
	}

	err := p.releaseOutputs()
	if p.observer != nil {
		p.observer.Forget()
	}
	p.log.Debug("ggvideo: player closed", "stats", p.Stats())
	return err
}

func (p *Player) releaseOutputs() error {
	var errs []error
	if p.textures != nil {
		errs = append(errs, p.textures.Close())
	}
	if p.presenter != nil {
		errs = append(errs, p.presenter.Close())
	}
	p.conv.Close()
	return errors.Join(errs...)
}

// PollEvents returns the events emitted since the last call. Call it once
// per redraw cycle from the GUI thread.
func (p *Player) PollEvents() []Event {
	return p.events.drain()
}

// Wake returns a channel that receives when new events are queued, for
// GUIs that sleep until there is something to draw.
func (p *Player) Wake() <-chan struct{} {
	return p.events.wake
}

// Render presents the newest frame into region, or repaints the current
// one if nothing new arrived.
func (p *Player) Render(region Rect) error {
	if p.closed.Load() {
		return ErrClosed
	}
	fit := p.ContentFit()

	switch {
	case p.presenter != nil:
		if f, ok := p.planes.Take(); ok && !f.Empty() {
			return p.presenter.Present(f.Data, f.Width, f.Height, region, fit)
		}
		return p.presenter.Repaint(region, fit)
	case p.textures != nil:
		return p.textures.Present(region, fit)
	default:
		return ErrNoRenderPath
	}
}

// NeedsRedraw reports whether the GUI should schedule another paint:
// a new frame is waiting, or playback is running and not at its end.
func (p *Player) NeedsRedraw() bool {
	if p.frames.Fresh() || (p.planes != nil && p.planes.Fresh()) {
		return true
	}
	return p.started.Load() && !p.closed.Load() && !p.eos.Load() && p.loop.Alive()
}

// LatestDisplayFrame returns a copy of the newest RGBA frame. It does not
// consume the frame; Render still presents it.
func (p *Player) LatestDisplayFrame() (pix []byte, width, height int, ok bool) {
	if p.planes != nil {
		f, ok := p.planes.Peek()
		if !ok || f.Empty() {
			return nil, 0, 0, false
		}
		d, err := p.conv.ToDisplay(f)
		if err != nil {
			return nil, 0, 0, false
		}
		return d.Pix, d.Width, d.Height, true
	}

	f, ok := p.frames.Peek()
	if !ok || f.Empty() {
		return nil, 0, 0, false
	}
	return append([]byte(nil), f.Pix...), f.Width, f.Height, true
}

// Subtitle returns the subtitle currently shown.
func (p *Player) Subtitle() (string, bool) {
	s, ok := p.subs.Peek()
	if !ok || s.Text == nil {
		return "", false
	}
	return *s.Text, true
}

// Size returns the natural size of the newest frame, or 0x0 before the
// first frame.
func (p *Player) Size() (width, height int) {
	if p.planes != nil {
		if f, ok := p.planes.Peek(); ok {
			return f.Width, f.Height
		}
		return 0, 0
	}
	if f, ok := p.frames.Peek(); ok {
		return f.Width, f.Height
	}
	return 0, 0
}

// AspectRatio returns the natural width/height ratio, or 1 before the first
// frame.
func (p *Player) AspectRatio() float32 {
	return layout.AspectRatio(p.Size())
}

// SetDisplaySize overrides the size the element asks for in layout. A nil
// value clears that override; with one override set, the other dimension
// follows the natural aspect ratio.
func (p *Player) SetDisplaySize(width, height *int) {
	p.mu.Lock()
	p.displayW = cloneInt(width)
	p.displayH = cloneInt(height)
	p.mu.Unlock()
}

// SetDisplayWidth overrides only the width. See SetDisplaySize.
func (p *Player) SetDisplayWidth(width *int) {
	p.mu.Lock()
	p.displayW = cloneInt(width)
	p.mu.Unlock()
}

// SetDisplayHeight overrides only the height. See SetDisplaySize.
func (p *Player) SetDisplayHeight(height *int) {
	p.mu.Lock()
	p.displayH = cloneInt(height)
	p.mu.Unlock()
}

// DisplaySize returns the natural size with display overrides applied.
func (p *Player) DisplaySize() (width, height int) {
	nw, nh := p.Size()
	p.mu.Lock()
	defer p.mu.Unlock()
	return layout.DisplaySize(nw, nh, p.displayW, p.displayH)
}

// ContentFit returns the current fit mode.
func (p *Player) ContentFit() ContentFit {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fit
}

// SetContentFit changes the fit mode from the next Render on.
func (p *Player) SetContentFit(f ContentFit) {
	p.mu.Lock()
	p.fit = f
	p.mu.Unlock()
}

// EOS reports whether the source reached the end of the stream.
func (p *Player) EOS() bool {
	return p.eos.Load()
}

// PlaybackTime returns the source's position on the decode timeline.
func (p *Player) PlaybackTime() time.Duration {
	return p.src.PlaybackTime()
}

// Stats is a snapshot of player counters.
type Stats struct {
	Producer      producer.Stats
	Textures      texture.Stats
	LiveTextures  int
	SurfaceWrites uint64
	EventsDropped uint64
}

// Stats returns the current counters.
func (p *Player) Stats() Stats {
	s := Stats{
		Producer:      p.loop.Stats(),
		EventsDropped: p.events.droppedCount(),
	}
	if p.textures != nil {
		s.Textures = p.textures.Stats()
		s.LiveTextures = p.textures.Live()
	}
	if p.presenter != nil {
		s.SurfaceWrites = p.presenter.Uploads()
	}
	return s
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
