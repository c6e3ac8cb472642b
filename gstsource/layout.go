// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gstsource

import "github.com/gogpu/gg-video/convert"

// alignedStride is the default GStreamer row stride for 8-bit planes.
func alignedStride(width int) int {
	return (width + 3) &^ 3
}

// packNV12 returns data with tightly packed planes. Buffers that are already
// tight are returned as is; buffers using the default 4-byte row alignment
// are repacked into dst.
func packNV12(dst, data []byte, width, height int) ([]byte, error) {
	need := convert.RequiredSize(width, height)
	if len(data) == need {
		return data, nil
	}

	stride := alignedStride(width)
	chromaRows := (height + 1) / 2
	chromaW := 2 * ((width + 1) / 2)
	if len(data) < stride*height+stride*chromaRows || stride == width {
		return nil, ErrBadStride
	}

	if cap(dst) < need {
		dst = make([]byte, need)
	}
	dst = dst[:need]
	for y := range height {
		copy(dst[y*width:(y+1)*width], data[y*stride:])
	}
	off, soff := width*height, stride*height
	for y := range chromaRows {
		copy(dst[off+y*chromaW:off+(y+1)*chromaW], data[soff+y*stride:])
	}
	return dst, nil
}
