// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"sync"
	"unsafe"

	"github.com/gogpu/gg-video/convert"
)

// Native is an externally owned, lock-protected pixel surface holding one
// NV12 frame: the luma plane followed by the interleaved chroma plane.
type Native interface {
	// Lock maps the surface for writing and returns its base address and
	// size in bytes. Every successful Lock must be paired with Unlock.
	Lock() (unsafe.Pointer, int, error)
	Unlock()

	Width() int
	Height() int

	Close() error
}

// HostSurface is a Native surface backed by Go memory.
type HostSurface struct {
	mu     sync.Mutex // held between Lock and Unlock
	buf    []byte
	width  int
	height int
	closed bool
}

// NewHostSurface allocates a surface for width x height NV12 frames.
func NewHostSurface(width, height int) (*HostSurface, error) {
	if width <= 0 || height <= 0 || width > convert.MaxDimension || height > convert.MaxDimension {
		return nil, &convert.ConversionError{Kind: convert.InvalidDimensions, Width: width, Height: height}
	}
	return &HostSurface{
		buf:    make([]byte, convert.RequiredSize(width, height)),
		width:  width,
		height: height,
	}, nil
}

// Lock implements Native.
func (s *HostSurface) Lock() (unsafe.Pointer, int, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, 0, ErrSurfaceClosed
	}
	return unsafe.Pointer(unsafe.SliceData(s.buf)), len(s.buf), nil
}

// Unlock implements Native.
func (s *HostSurface) Unlock() {
	s.mu.Unlock()
}

// Width implements Native.
func (s *HostSurface) Width() int { return s.width }

// Height implements Native.
func (s *HostSurface) Height() int { return s.height }

// Close implements Native. Close is idempotent.
func (s *HostSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.buf = nil
	return nil
}

// Frame returns a copy of the surface contents as an NV12 frame.
func (s *HostSurface) Frame() (*convert.NV12Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSurfaceClosed
	}
	return convert.CopyNV12(s.buf, s.width, s.height)
}
