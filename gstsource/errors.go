// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gstsource

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("gstsource: source closed")

	// ErrNoCaps is returned by Open when the video sink never negotiated a
	// format.
	ErrNoCaps = errors.New("gstsource: video caps not negotiated")

	// ErrBadStride is returned for buffers whose size matches no known NV12
	// plane layout.
	ErrBadStride = errors.New("gstsource: unexpected NV12 buffer layout")
)

// StateChangeError reports a pipeline that refused a state change.
type StateChangeError struct {
	URI   string
	State string
	Err   error
}

func (e *StateChangeError) Error() string {
	return fmt.Sprintf("gstsource: %s: set state %s: %v", e.URI, e.State, e.Err)
}

// Unwrap returns the underlying error.
func (e *StateChangeError) Unwrap() error { return e.Err }
