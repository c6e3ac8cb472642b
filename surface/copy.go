// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"unsafe"
)

// copyPlanes writes lumaLen bytes of luma followed by chromaLen bytes of
// chroma to the dstLen bytes at dst. It is the only place that turns a
// surface address into a slice.
func copyPlanes(dst unsafe.Pointer, dstLen int, luma, chroma []byte, lumaLen, chromaLen int) error {
	if dst == nil || dstLen <= 0 {
		return ErrNilSurfaceMemory
	}
	if lumaLen < 0 || chromaLen < 0 || lumaLen > dstLen || chromaLen > dstLen-lumaLen {
		return fmt.Errorf("%w: %d+%d bytes into %d", ErrSurfaceTooSmall, lumaLen, chromaLen, dstLen)
	}
	if len(luma) < lumaLen || len(chroma) < chromaLen {
		return fmt.Errorf("%w: have %d+%d bytes, want %d+%d",
			ErrShortPlane, len(luma), len(chroma), lumaLen, chromaLen)
	}

	out := unsafe.Slice((*byte)(dst), dstLen)
	copy(out[:lumaLen], luma[:lumaLen])
	copy(out[lumaLen:lumaLen+chromaLen], chroma[:chromaLen])
	return nil
}
