// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gstsource

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/gg-video/convert"
)

func TestPackNV12Tight(t *testing.T) {
	data := make([]byte, convert.RequiredSize(8, 2))
	got, err := packNV12(nil, data, 8, 2)
	if err != nil {
		t.Fatal(err)
	}
	if &got[0] != &data[0] {
		t.Error("tight buffer was copied")
	}
}

func TestPackNV12Aligned(t *testing.T) {
	// 6x2: stride 8, one chroma row of 6 bytes padded to 8.
	data := []byte{
		1, 2, 3, 4, 5, 6, 0, 0,
		7, 8, 9, 10, 11, 12, 0, 0,
		20, 21, 22, 23, 24, 25, 0, 0,
	}
	got, err := packNV12(nil, data, 6, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 20, 21, 22, 23, 24, 25}
	if !bytes.Equal(got, want) {
		t.Errorf("packNV12() = %v, want %v", got, want)
	}
}

func TestPackNV12Errors(t *testing.T) {
	tests := []struct {
		name          string
		size          int
		width, height int
	}{
		{"short", 10, 6, 2},
		{"tight width larger buffer", 40, 8, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := packNV12(nil, make([]byte, tt.size), tt.width, tt.height)
			if !errors.Is(err, ErrBadStride) {
				t.Errorf("packNV12() error = %v, want ErrBadStride", err)
			}
		})
	}
}

func TestAlignedStride(t *testing.T) {
	for w, want := range map[int]int{1: 4, 4: 4, 5: 8, 1918: 1920, 1920: 1920} {
		if got := alignedStride(w); got != want {
			t.Errorf("alignedStride(%d) = %d, want %d", w, got, want)
		}
	}
}
