// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texture

import (
	"errors"
	"fmt"
)

// Common errors returned by Manager operations.
var (
	// ErrClosed is returned when operations are attempted on a closed manager.
	ErrClosed = errors.New("texture: manager is closed")

	// ErrNilCreator is returned when New is called without a Creator.
	ErrNilCreator = errors.New("texture: nil Creator")

	// ErrNilPainter is returned when New is called without a Painter.
	ErrNilPainter = errors.New("texture: nil Painter")

	// ErrEmptyFrame is returned when a frame without pixels is committed.
	ErrEmptyFrame = errors.New("texture: empty frame")

	// ErrCreationFailed matches every *ResourceCreationError.
	ErrCreationFailed = errors.New("texture: resource creation failed")
)

// ResourceCreationError reports that the framework could not create an image
// resource for a frame. The frame is dropped and the previous one stays on
// screen.
type ResourceCreationError struct {
	Width  int
	Height int
	Seq    uint64
	Err    error
}

func (e *ResourceCreationError) Error() string {
	return fmt.Sprintf("texture: create %dx%d resource for frame %d: %v", e.Width, e.Height, e.Seq, e.Err)
}

// Unwrap returns the framework error.
func (e *ResourceCreationError) Unwrap() error { return e.Err }

// Is reports whether target is ErrCreationFailed.
func (e *ResourceCreationError) Is(target error) bool { return target == ErrCreationFailed }
