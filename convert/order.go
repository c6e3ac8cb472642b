// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package convert

import "github.com/gogpu/gputypes"

// ChannelOrder is the byte order of a packed 4-component pixel.
type ChannelOrder uint8

const (
	// RGBA stores red in the lowest byte. This is what Convert produces.
	RGBA ChannelOrder = iota

	// BGRA stores blue in the lowest byte, as most swapchains expect.
	BGRA
)

// String returns the order name.
func (o ChannelOrder) String() string {
	if o == BGRA {
		return "BGRA"
	}
	return "RGBA"
}

// OrderFor maps a texture format to the channel order its pixels use.
// Formats that are not 8-bit 4-component resolve to RGBA.
func OrderFor(format gputypes.TextureFormat) ChannelOrder {
	switch format {
	case gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
		return BGRA
	}
	return RGBA
}

// SwapRB exchanges the first and third byte of every pixel in place,
// converting RGBA to BGRA and back. A trailing partial pixel is left alone.
func SwapRB(pix []byte) {
	n := len(pix) &^ 3
	for i := 0; i < n; i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}

// SwapRBInto writes src with red and blue exchanged into dst, growing dst
// when its capacity is too small, and returns the result. src is not modified.
func SwapRBInto(dst, src []byte) []byte {
	if cap(dst) < len(src) {
		dst = make([]byte, len(src))
	}
	dst = dst[:len(src)]
	n := len(src) &^ 3
	for i := 0; i < n; i += 4 {
		dst[i+0] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+0]
		dst[i+3] = src[i+3]
	}
	copy(dst[n:], src[n:])
	return dst
}
