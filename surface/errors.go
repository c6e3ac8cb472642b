// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"
)

// Errors.
var (
	// ErrNoBackendAvailable is returned when no surface backends are registered
	// or available on the current system.
	ErrNoBackendAvailable = errors.New("surface: no backend available")

	// ErrSurfaceClosed is returned by Lock after Close.
	ErrSurfaceClosed = errors.New("surface: surface is closed")

	// ErrNilSurfaceMemory is returned when Lock yields no memory.
	ErrNilSurfaceMemory = errors.New("surface: locked surface has no memory")

	// ErrSurfaceTooSmall is returned when the planes do not fit the surface.
	ErrSurfaceTooSmall = errors.New("surface: planes exceed surface size")

	// ErrShortPlane is returned when a source plane is shorter than declared.
	ErrShortPlane = errors.New("surface: source plane too short")

	// ErrNilPainter is returned by NewPresenter without a painter.
	ErrNilPainter = errors.New("surface: nil Painter")
)

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "surface: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "surface: backend unavailable: " + e.Name
}

// SizeMismatchError reports a frame whose size differs from the surface it
// is written to. The surface keeps its negotiated size.
type SizeMismatchError struct {
	SurfaceWidth, SurfaceHeight int
	FrameWidth, FrameHeight     int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("surface: %dx%d frame does not match %dx%d surface",
		e.FrameWidth, e.FrameHeight, e.SurfaceWidth, e.SurfaceHeight)
}
