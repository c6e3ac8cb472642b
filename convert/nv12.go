// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package convert

import "time"

// NV12Frame is an owned copy of a decoded NV12 frame, used where the
// planes are uploaded as is and converted on the GPU side of a native
// surface.
type NV12Frame struct {
	Data   []byte
	Width  int
	Height int
	PTS    time.Duration
	Seq    uint64
}

// Empty reports whether the frame has zero area.
func (f *NV12Frame) Empty() bool {
	return f == nil || f.Width <= 0 || f.Height <= 0
}

// LumaLen returns the size of the Y plane.
func (f *NV12Frame) LumaLen() int {
	return f.Width * f.Height
}

// Luma returns the Y plane.
func (f *NV12Frame) Luma() []byte {
	return f.Data[:f.LumaLen()]
}

// Chroma returns the interleaved CbCr plane.
func (f *NV12Frame) Chroma() []byte {
	return f.Data[f.LumaLen():RequiredSize(f.Width, f.Height)]
}

// CopyNV12 validates data like Convert and returns an owned copy of exactly
// RequiredSize(width, height) bytes.
func CopyNV12(data []byte, width, height int) (*NV12Frame, error) {
	if err := validate(data, width, height); err != nil {
		return nil, err
	}
	if width == 0 || height == 0 {
		return &NV12Frame{}, nil
	}
	n := RequiredSize(width, height)
	return &NV12Frame{
		Data:   append([]byte(nil), data[:n]...),
		Width:  width,
		Height: height,
	}, nil
}

// ToDisplay converts the frame to RGBA, keeping PTS and Seq.
func (c *Converter) ToDisplay(f *NV12Frame) (*DisplayFrame, error) {
	d, err := c.Convert(f.Data, f.Width, f.Height)
	if err != nil {
		return nil, err
	}
	d.PTS = f.PTS
	d.Seq = f.Seq
	return d, nil
}
