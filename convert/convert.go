// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package convert

import (
	"github.com/gogpu/gg-video/internal/parallel"
)

// MaxDimension is the largest accepted frame width or height.
const MaxDimension = 16384

// defaultMinParallelRows is the frame height below which a Converter does not
// bother splitting work across its pool.
const defaultMinParallelRows = 64

// Range selects the quantisation range the decoder used for Y, Cb and Cr.
type Range uint8

const (
	// LimitedRange is BT.601 studio swing: Y in [16,235], chroma in [16,240].
	LimitedRange Range = iota

	// FullRange is BT.601 full swing (JFIF): all components use [0,255].
	FullRange
)

// String returns the range name.
func (r Range) String() string {
	if r == FullRange {
		return "full"
	}
	return "limited"
}

type coefficients struct {
	yOff   float32
	yScale float32
	rv     float32
	gv     float32
	gu     float32
	bu     float32
}

var (
	limitedCoef = coefficients{yOff: 16, yScale: 1.164, rv: 1.596, gv: 0.813, gu: 0.391, bu: 2.018}
	fullCoef    = coefficients{yOff: 0, yScale: 1, rv: 1.402, gv: 0.714136, gu: 0.344136, bu: 1.772}
)

func coefficientsFor(r Range) coefficients {
	if r == FullRange {
		return fullCoef
	}
	return limitedCoef
}

// RequiredSize returns the minimum NV12 buffer length for a width x height
// frame: the luma plane plus one interleaved chroma pair per 2x2 block.
// Odd dimensions round the chroma plane up. For even dimensions the result
// equals width*height*3/2.
func RequiredSize(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	cw := (width + 1) / 2
	ch := (height + 1) / 2
	return width*height + 2*cw*ch
}

// Option configures a Converter.
type Option func(*Converter)

// WithWorkers sets the number of goroutines used for tall frames.
// Values of 1 or less convert on the calling goroutine.
func WithWorkers(n int) Option {
	return func(c *Converter) {
		c.workers = n
	}
}

// WithRange sets the source quantisation range. The default is LimitedRange.
func WithRange(r Range) Option {
	return func(c *Converter) {
		c.rng = r
	}
}

// WithMinParallelRows sets the frame height from which conversion is split
// into row bands.
func WithMinParallelRows(rows int) Option {
	return func(c *Converter) {
		if rows > 0 {
			c.minRows = rows
		}
	}
}

// Converter converts NV12 buffers to RGBA.
//
// A Converter is safe for concurrent use. Close releases its worker pool.
type Converter struct {
	rng     Range
	coef    coefficients
	workers int
	minRows int
	pool    *parallel.WorkerPool
}

// New creates a Converter. Without options it converts serially using
// BT.601 limited range coefficients.
func New(opts ...Option) *Converter {
	c := &Converter{minRows: defaultMinParallelRows}
	for _, opt := range opts {
		opt(c)
	}
	c.coef = coefficientsFor(c.rng)
	if c.workers > 1 {
		c.pool = parallel.NewWorkerPool(c.workers)
	}
	return c
}

var serial = New()

// Convert converts an NV12 buffer with the default serial converter.
func Convert(data []byte, width, height int) (*DisplayFrame, error) {
	return serial.Convert(data, width, height)
}

// Range returns the quantisation range the converter assumes.
func (c *Converter) Range() Range {
	return c.rng
}

// Workers returns the number of pool workers, or 1 for a serial converter.
func (c *Converter) Workers() int {
	if c.pool == nil {
		return 1
	}
	return c.pool.Workers()
}

// Convert converts data, laid out as NV12 for a width x height frame, into a
// newly allocated DisplayFrame.
//
// A frame with zero area yields an empty DisplayFrame and no error. A buffer
// shorter than RequiredSize yields a *ConversionError of kind
// TruncatedBuffer. data is not retained.
func (c *Converter) Convert(data []byte, width, height int) (*DisplayFrame, error) {
	if err := validate(data, width, height); err != nil {
		return nil, err
	}
	if width == 0 || height == 0 {
		return &DisplayFrame{}, nil
	}
	f := &DisplayFrame{
		Pix:    make([]byte, width*height*4),
		Width:  width,
		Height: height,
	}
	c.convert(f.Pix, data, width, height)
	return f, nil
}

// ConvertInto converts into dst, reusing dst.Pix when it has enough capacity.
// PTS and Seq of dst are left untouched.
func (c *Converter) ConvertInto(dst *DisplayFrame, data []byte, width, height int) error {
	if err := validate(data, width, height); err != nil {
		return err
	}
	n := width * height * 4
	if cap(dst.Pix) < n {
		dst.Pix = make([]byte, n)
	}
	dst.Pix = dst.Pix[:n]
	dst.Width = width
	dst.Height = height
	if n > 0 {
		c.convert(dst.Pix, data, width, height)
	}
	return nil
}

// Close stops the worker pool. The converter keeps working serially.
func (c *Converter) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

func (c *Converter) convert(dst, src []byte, width, height int) {
	if c.pool == nil || height < c.minRows {
		convertRows(dst, src, width, height, 0, height, c.coef)
		return
	}
	bands := parallel.SplitRows(height, c.pool.Workers())
	c.pool.RunBands(bands, func(b parallel.Band) {
		convertRows(dst, src, width, height, b.Y0, b.Y1, c.coef)
	})
}

func validate(data []byte, width, height int) error {
	if width < 0 || height < 0 || width > MaxDimension || height > MaxDimension {
		return &ConversionError{Kind: InvalidDimensions, Width: width, Height: height, Have: len(data)}
	}
	if need := RequiredSize(width, height); len(data) < need {
		return &ConversionError{Kind: TruncatedBuffer, Width: width, Height: height, Have: len(data), Need: need}
	}
	return nil
}

// convertRows converts luma rows [y0, y1). src has been validated against
// RequiredSize(width, height).
func convertRows(dst, src []byte, width, height, y0, y1 int, k coefficients) {
	cstride := 2 * ((width + 1) / 2)
	lumaLen := width * height
	luma := src[:lumaLen]
	chroma := src[lumaLen : lumaLen+cstride*((height+1)/2)]

	for y := y0; y < y1; y++ {
		yrow := luma[y*width : (y+1)*width]
		coff := (y / 2) * cstride
		crow := chroma[coff : coff+cstride]
		out := dst[y*width*4 : (y+1)*width*4]

		for x := range width {
			l := k.yScale * (float32(yrow[x]) - k.yOff)
			u := float32(crow[x&^1]) - 128
			v := float32(crow[x|1]) - 128

			o := out[x*4 : x*4+4 : x*4+4]
			o[0] = clamp8(l + k.rv*v)
			o[1] = clamp8(l - k.gv*v - k.gu*u)
			o[2] = clamp8(l + k.bu*u)
			o[3] = 0xFF
		}
	}
}

func clamp8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
