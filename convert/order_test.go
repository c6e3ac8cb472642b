// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package convert

import (
	"bytes"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestOrderFor(t *testing.T) {
	tests := []struct {
		format gputypes.TextureFormat
		want   ChannelOrder
	}{
		{gputypes.TextureFormatBGRA8Unorm, BGRA},
		{gputypes.TextureFormatBGRA8UnormSrgb, BGRA},
		{gputypes.TextureFormatRGBA8UnormSrgb, RGBA},
		{gputypes.TextureFormatRGBA8Unorm, RGBA},
		{gputypes.TextureFormatUndefined, RGBA},
	}
	for _, tt := range tests {
		if got := OrderFor(tt.format); got != tt.want {
			t.Errorf("OrderFor(%v) = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestSwapRB(t *testing.T) {
	pix := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}
	SwapRB(pix)
	want := []byte{3, 2, 1, 4, 7, 6, 5, 8, 9}
	if !bytes.Equal(pix, want) {
		t.Errorf("SwapRB = %v, want %v", pix, want)
	}
	SwapRB(pix)
	if !bytes.Equal(pix, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}) {
		t.Errorf("SwapRB twice = %v, want original", pix)
	}
}

func TestSwapRBIntoLeavesSource(t *testing.T) {
	src := []byte{10, 20, 30, 255, 40, 50, 60, 255}
	orig := append([]byte(nil), src...)

	dst := SwapRBInto(nil, src)
	if !bytes.Equal(src, orig) {
		t.Errorf("source modified: %v", src)
	}
	if !bytes.Equal(dst, []byte{30, 20, 10, 255, 60, 50, 40, 255}) {
		t.Errorf("SwapRBInto = %v", dst)
	}

	reused := SwapRBInto(dst, src[:4])
	if &reused[0] != &dst[0] || len(reused) != 4 {
		t.Error("SwapRBInto did not reuse a large enough buffer")
	}
}

func TestDisplayFrameToImage(t *testing.T) {
	f, err := Convert(nv12(4, 2, 235, 128, 128), 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	img := f.ToImage()
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v", img.Bounds())
	}
	if c := img.RGBAAt(3, 1); c.R != 255 || c.A != 255 {
		t.Errorf("RGBAAt(3,1) = %v", c)
	}

	c := f.Clone()
	c.Pix[0] = 0
	if f.Pix[0] == 0 {
		t.Error("Clone shares pixels")
	}
	if !(*DisplayFrame)(nil).Empty() {
		t.Error("nil frame must be empty")
	}
}
