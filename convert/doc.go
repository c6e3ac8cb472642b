// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package convert turns NV12 decoder output into packed 8-bit RGBA frames.
//
// NV12 stores a full resolution luma plane followed by one interleaved Cb/Cr
// plane at half resolution in both dimensions:
//
//	+-----------------+
//	| Y  (w x h)      |
//	+-----------------+
//	| CbCr (w/2 x h/2)|  two bytes per chroma sample
//	+-----------------+
//
// Conversion is a pure function of the input bytes. A [Converter] may split
// tall frames into row bands and convert them on a worker pool; the output is
// byte-identical to the serial path.
//
// The input buffer is only read for the duration of a call and is never
// retained, so callers may hand in memory that is mapped from the decoder and
// unmap it as soon as Convert returns.
package convert
