// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package convert

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by ConversionError through errors.Is.
var (
	// ErrTruncatedBuffer is returned when the buffer is shorter than the
	// declared dimensions require.
	ErrTruncatedBuffer = errors.New("convert: truncated buffer")

	// ErrInvalidDimensions is returned for negative or oversized dimensions.
	ErrInvalidDimensions = errors.New("convert: invalid dimensions")
)

// ErrorKind classifies a ConversionError.
type ErrorKind uint8

const (
	// TruncatedBuffer means len(data) < RequiredSize(width, height).
	TruncatedBuffer ErrorKind = iota + 1

	// InvalidDimensions means width or height is negative or exceeds MaxDimension.
	InvalidDimensions
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case TruncatedBuffer:
		return "truncated buffer"
	case InvalidDimensions:
		return "invalid dimensions"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// ConversionError reports a frame that could not be converted.
// The frame is dropped; the error is recoverable.
type ConversionError struct {
	Kind   ErrorKind
	Width  int
	Height int
	Have   int // bytes supplied
	Need   int // bytes required, 0 for InvalidDimensions
}

func (e *ConversionError) Error() string {
	if e.Kind == TruncatedBuffer {
		return fmt.Sprintf("convert: truncated buffer for %dx%d frame: have %d bytes, need %d",
			e.Width, e.Height, e.Have, e.Need)
	}
	return fmt.Sprintf("convert: %s %dx%d", e.Kind, e.Width, e.Height)
}

// Is reports whether target is the sentinel matching e.Kind.
func (e *ConversionError) Is(target error) bool {
	switch target {
	case ErrTruncatedBuffer:
		return e.Kind == TruncatedBuffer
	case ErrInvalidDimensions:
		return e.Kind == InvalidDimensions
	}
	return false
}
