// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package convert

import (
	"image"
	"time"
)

// DisplayFrame is a converted frame ready for upload.
//
// Pix holds Width*Height*4 bytes in RGBA order, rows packed without padding.
// A DisplayFrame is owned by whoever holds it; the slot that publishes it
// never mutates it afterwards, so consumers must copy before writing.
type DisplayFrame struct {
	Pix    []byte
	Width  int
	Height int

	// PTS is the presentation timestamp copied from the decoded frame.
	PTS time.Duration

	// Seq is assigned by the producer when the frame is published.
	// It increases by one per published frame, starting at 1.
	Seq uint64
}

// Empty reports whether the frame has zero area.
func (f *DisplayFrame) Empty() bool {
	return f == nil || f.Width <= 0 || f.Height <= 0
}

// Stride returns the number of bytes per row.
func (f *DisplayFrame) Stride() int {
	return f.Width * 4
}

// Clone returns a deep copy of the frame.
func (f *DisplayFrame) Clone() *DisplayFrame {
	if f == nil {
		return nil
	}
	c := *f
	c.Pix = append([]byte(nil), f.Pix...)
	return &c
}

// ToImage wraps the pixels in an *image.RGBA without copying.
// The image aliases Pix and must not be modified.
func (f *DisplayFrame) ToImage() *image.RGBA {
	if f.Empty() {
		return image.NewRGBA(image.Rectangle{})
	}
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Stride(),
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}
