// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gg-video/convert"
	"github.com/gogpu/gg-video/layout"
)

// Painter draws a native surface during the current paint pass.
type Painter interface {
	PaintSurface(n Native, clip, dst layout.Rect) error
}

// PainterFunc adapts a function to Painter.
type PainterFunc func(n Native, clip, dst layout.Rect) error

// PaintSurface calls f.
func (f PainterFunc) PaintSurface(n Native, clip, dst layout.Rect) error {
	return f(n, clip, dst)
}

// Presenter writes frames into one native surface and paints it.
// Presenter is not safe for concurrent use; call it from the paint
// goroutine.
type Presenter struct {
	native  Native
	painter Painter
	log     *slog.Logger

	uploads atomic.Uint64
	painted bool
}

// NewPresenter creates a Presenter for n.
func NewPresenter(n Native, p Painter, log *slog.Logger) (*Presenter, error) {
	if n == nil {
		return nil, ErrNoBackendAvailable
	}
	if p == nil {
		return nil, ErrNilPainter
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Presenter{native: n, painter: p, log: log}, nil
}

// Native returns the presented surface.
func (p *Presenter) Native() Native {
	return p.native
}

// Uploads returns how many frames were written into the surface.
func (p *Presenter) Uploads() uint64 {
	return p.uploads.Load()
}

// Present writes an NV12 frame into the surface and paints it into region.
//
// The frame must match the surface size. The surface is locked only while
// the planes are copied and is unlocked on every return path.
func (p *Presenter) Present(raw []byte, width, height int, region layout.Rect, fit layout.ContentFit) error {
	if width != p.native.Width() || height != p.native.Height() {
		return &SizeMismatchError{
			SurfaceWidth:  p.native.Width(),
			SurfaceHeight: p.native.Height(),
			FrameWidth:    width,
			FrameHeight:   height,
		}
	}
	need := convert.RequiredSize(width, height)
	if len(raw) < need {
		return &convert.ConversionError{
			Kind: convert.TruncatedBuffer, Width: width, Height: height, Have: len(raw), Need: need,
		}
	}

	if err := p.upload(raw, width, height, need); err != nil {
		return err
	}
	p.uploads.Add(1)
	return p.Repaint(region, fit)
}

// Repaint paints the surface without writing a new frame. Before the
// first Present it draws nothing.
func (p *Presenter) Repaint(region layout.Rect, fit layout.ContentFit) error {
	if p.uploads.Load() == 0 {
		return nil
	}
	dst := fit.Place(region, p.native.Width(), p.native.Height())
	if err := p.painter.PaintSurface(p.native, region, dst); err != nil {
		return fmt.Errorf("surface: paint: %w", err)
	}
	p.painted = true
	return nil
}

func (p *Presenter) upload(raw []byte, width, height, size int) error {
	mem, n, err := p.native.Lock()
	if err != nil {
		return fmt.Errorf("surface: lock: %w", err)
	}
	defer p.native.Unlock()

	lumaLen := width * height
	return copyPlanes(mem, n, raw[:lumaLen], raw[lumaLen:size], lumaLen, size-lumaLen)
}

// Close closes the native surface.
func (p *Presenter) Close() error {
	if p.painted {
		p.log.Debug("surface: closing presented surface", "uploads", p.uploads.Load())
	}
	return p.native.Close()
}
