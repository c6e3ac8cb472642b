// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texture

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/gg-video/convert"
	"github.com/gogpu/gg-video/layout"
	"github.com/gogpu/gg-video/slot"
)

// entry is a live handle and the frame it was created from.
type entry struct {
	h      Handle
	width  int
	height int
	seq    uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithOrder sets the channel order the Creator expects.
func WithOrder(o convert.ChannelOrder) Option {
	return func(m *Manager) {
		m.order = o
	}
}

// WithDeviceProvider derives the channel order from the provider's surface
// format.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(m *Manager) {
		if p != nil {
			m.order = convert.OrderFor(p.SurfaceFormat())
		}
	}
}

// WithErrorHandler sets a function called for every recoverable error, such
// as a failed resource creation. It runs on the painting goroutine.
func WithErrorHandler(fn func(error)) Option {
	return func(m *Manager) {
		m.onError = fn
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithObserver attaches a lifecycle observer.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		m.obs = o
	}
}

// Stats counts handle lifecycle operations.
type Stats struct {
	Created        uint64
	Released       uint64
	Painted        uint64
	CreationFailed uint64
}

// Manager owns the texture handles that display frames taken from a slot.
//
// It moves between two states: Idle, before the first commit and after
// Close, and Committed, with one current handle. Manager is safe for
// concurrent use, though all paint calls normally come from one goroutine.
type Manager struct {
	frames  *slot.Slot[*convert.DisplayFrame]
	creator Creator
	painter Painter
	order   convert.ChannelOrder
	onError func(error)
	log     *slog.Logger
	obs     Observer

	mu      sync.Mutex
	current *entry
	staging []byte
	closed  bool

	created  atomic.Uint64
	released atomic.Uint64
	painted  atomic.Uint64
	failed   atomic.Uint64
}

// New creates a Manager that takes frames from frames. The slot may be nil
// when frames are only committed explicitly.
func New(frames *slot.Slot[*convert.DisplayFrame], creator Creator, painter Painter, opts ...Option) (*Manager, error) {
	if creator == nil {
		return nil, ErrNilCreator
	}
	if painter == nil {
		return nil, ErrNilPainter
	}
	m := &Manager{
		frames:  frames,
		creator: creator,
		painter: painter,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Order returns the channel order handed to the Creator.
func (m *Manager) Order() convert.ChannelOrder {
	return m.order
}

// AcquireLatest takes the newest unconsumed frame from the slot.
// A second call without an intervening publish returns false.
func (m *Manager) AcquireLatest() (*convert.DisplayFrame, bool) {
	if m.frames == nil {
		return nil, false
	}
	f, ok := m.frames.Take()
	if !ok || f == nil {
		return nil, false
	}
	return f, true
}

// Commit makes frame the displayed frame.
//
// It creates a handle for frame, paints it into region, then releases the
// handle it replaces. If creation fails the previous handle is kept and
// repainted, the error handler is invoked, and a *ResourceCreationError is
// returned. If painting the new handle fails the new handle is released and
// the previous one stays current.
//
// frame is never modified.
func (m *Manager) Commit(frame *convert.DisplayFrame, region layout.Rect, fit layout.ContentFit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commitLocked(frame, region, fit)
}

func (m *Manager) commitLocked(frame *convert.DisplayFrame, region layout.Rect, fit layout.ContentFit) error {
	if m.closed {
		return ErrClosed
	}
	if frame.Empty() {
		return ErrEmptyFrame
	}

	pix := frame.Pix
	if m.order == convert.BGRA {
		m.staging = convert.SwapRBInto(m.staging, frame.Pix)
		pix = m.staging
	}

	h, err := m.creator.CreateHandle(pix, frame.Width, frame.Height)
	if err != nil {
		rerr := &ResourceCreationError{Width: frame.Width, Height: frame.Height, Seq: frame.Seq, Err: err}
		m.failed.Add(1)
		if m.obs != nil {
			m.obs.CreationFailed()
		}
		m.log.Warn("texture: create failed, keeping previous frame", "seq", frame.Seq, "err", err)
		if m.onError != nil {
			m.onError(rerr)
		}
		if m.current != nil {
			_ = m.paint(m.current, region, fit)
		}
		return rerr
	}
	m.created.Add(1)
	if m.obs != nil {
		m.obs.HandleCreated()
	}

	next := &entry{h: h, width: frame.Width, height: frame.Height, seq: frame.Seq}
	if err := m.paint(next, region, fit); err != nil {
		m.release(next)
		if m.current != nil {
			_ = m.paint(m.current, region, fit)
		}
		return fmt.Errorf("texture: paint frame %d: %w", frame.Seq, err)
	}

	// The previous handle may still be referenced by work submitted before
	// the paint above, so it goes only now.
	prev := m.current
	m.current = next
	if prev != nil {
		m.release(prev)
	}
	return nil
}

// Present runs one redraw: it commits the newest frame if one arrived and
// otherwise repaints the current handle without creating a new one.
// With nothing committed yet Present draws nothing and returns nil.
func (m *Manager) Present(region layout.Rect, fit layout.ContentFit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	if f, ok := m.AcquireLatest(); ok && !f.Empty() {
		return m.commitLocked(f, region, fit)
	}
	if m.current == nil {
		return nil
	}
	return m.paint(m.current, region, fit)
}

// Close releases the current handle. Close is idempotent.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	if m.current != nil {
		m.release(m.current)
		m.current = nil
	}
	m.staging = nil
	return nil
}

// Live returns the number of handles created and not yet released.
func (m *Manager) Live() int {
	return int(m.created.Load() - m.released.Load())
}

// Current returns the size and sequence number of the displayed frame.
func (m *Manager) Current() (width, height int, seq uint64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return 0, 0, 0, false
	}
	return m.current.width, m.current.height, m.current.seq, true
}

// Stats returns the lifecycle counters.
func (m *Manager) Stats() Stats {
	return Stats{
		Created:        m.created.Load(),
		Released:       m.released.Load(),
		Painted:        m.painted.Load(),
		CreationFailed: m.failed.Load(),
	}
}

func (m *Manager) paint(e *entry, region layout.Rect, fit layout.ContentFit) error {
	dst := fit.Place(region, e.width, e.height)
	if err := m.painter.Paint(e.h, region, dst); err != nil {
		return err
	}
	m.painted.Add(1)
	return nil
}

func (m *Manager) release(e *entry) {
	e.h.Release()
	e.h = nil
	m.released.Add(1)
	if m.obs != nil {
		m.obs.HandleReleased()
	}
}
