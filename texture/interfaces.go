// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texture

import "github.com/gogpu/gg-video/layout"

// Handle is a GPU image resource owned by the Manager.
// Release is called exactly once and the handle is never used afterwards.
type Handle interface {
	Release()
}

// Creator makes image resources from packed 4-byte pixels.
//
// CreateHandle must not retain pix after it returns.
type Creator interface {
	CreateHandle(pix []byte, width, height int) (Handle, error)
}

// Painter draws a handle during the current paint pass.
// dst is the placed frame rectangle and may extend beyond clip, the region
// the element owns; drawing must be clipped to it.
type Painter interface {
	Paint(h Handle, clip, dst layout.Rect) error
}

// Observer receives lifecycle notifications, for metrics.
type Observer interface {
	HandleCreated()
	HandleReleased()
	CreationFailed()
}

// CreatorFunc adapts a function to Creator.
type CreatorFunc func(pix []byte, width, height int) (Handle, error)

// CreateHandle calls f.
func (f CreatorFunc) CreateHandle(pix []byte, width, height int) (Handle, error) {
	return f(pix, width, height)
}

// PainterFunc adapts a function to Painter.
type PainterFunc func(h Handle, clip, dst layout.Rect) error

// Paint calls f.
func (f PainterFunc) Paint(h Handle, clip, dst layout.Rect) error {
	return f(h, clip, dst)
}
