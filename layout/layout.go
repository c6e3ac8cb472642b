// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package layout places a video frame inside the region a GUI element was
// given for painting.
package layout

import "math"

// Rect is an axis-aligned rectangle in logical pixels.
type Rect struct {
	X, Y float32
	W, H float32
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersect returns the overlap of r and o, or the zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.W, o.X+o.W)
	y1 := min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// ContentFit controls how a frame is scaled into its region.
type ContentFit uint8

const (
	// Contain scales uniformly so the whole frame is visible, centring it
	// with letterbox or pillarbox bars.
	Contain ContentFit = iota

	// Cover scales uniformly so the region is filled; the frame overflows
	// along one axis and must be clipped to the region.
	Cover

	// Fill stretches the frame to the region, ignoring aspect ratio.
	Fill

	// ScaleDown behaves like Contain but never enlarges the frame.
	ScaleDown

	// None draws the frame at its natural size, centred.
	None
)

// String returns the fit name.
func (f ContentFit) String() string {
	switch f {
	case Contain:
		return "contain"
	case Cover:
		return "cover"
	case Fill:
		return "fill"
	case ScaleDown:
		return "scale-down"
	case None:
		return "none"
	default:
		return "unknown"
	}
}

// ParseContentFit parses the names returned by String.
func ParseContentFit(s string) (ContentFit, bool) {
	for f := Contain; f <= None; f++ {
		if f.String() == s {
			return f, true
		}
	}
	return Contain, false
}

// Place returns where a width x height frame is drawn inside container.
// A frame without area fills the container.
func (f ContentFit) Place(container Rect, width, height int) Rect {
	if width <= 0 || height <= 0 || container.Empty() {
		return container
	}
	fw, fh := float32(width), float32(height)
	sx, sy := container.W/fw, container.H/fh

	var scale float32
	switch f {
	case Fill:
		return container
	case Cover:
		scale = max(sx, sy)
	case ScaleDown:
		scale = min(sx, sy, 1)
	case None:
		scale = 1
	default:
		scale = min(sx, sy)
	}

	w, h := fw*scale, fh*scale
	return Rect{
		X: container.X + (container.W-w)*0.5,
		Y: container.Y + (container.H-h)*0.5,
		W: w,
		H: h,
	}
}

// AspectRatio returns width/height, or 1 when either is not positive.
func AspectRatio(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

// DisplaySize applies optional width and height overrides to a natural
// size. With a single override the other dimension follows the natural
// aspect ratio, rounded to the nearest pixel.
func DisplaySize(naturalW, naturalH int, overrideW, overrideH *int) (int, int) {
	naturalW, naturalH = max(naturalW, 0), max(naturalH, 0)
	ar := float64(1)
	if naturalH > 0 {
		ar = float64(naturalW) / float64(naturalH)
	}

	switch {
	case overrideW != nil && overrideH != nil:
		return *overrideW, *overrideH
	case overrideW != nil:
		if ar == 0 {
			return *overrideW, naturalH
		}
		return *overrideW, int(math.Round(float64(*overrideW) / ar))
	case overrideH != nil:
		return int(math.Round(float64(*overrideH) * ar)), *overrideH
	default:
		return naturalW, naturalH
	}
}
