// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package producer

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrAlreadyRunning is returned by Run when the loop is already running
	// or has finished.
	ErrAlreadyRunning = errors.New("producer: loop already started")

	// ErrPipeline matches every *PipelineError through errors.Is.
	ErrPipeline = errors.New("producer: pipeline error")

	// ErrNilSource is returned by New when no source is given.
	ErrNilSource = errors.New("producer: nil source")
)

// PipelineError is an irrecoverable decode pipeline failure. It ends the
// playback session but not the process.
type PipelineError struct {
	// Element names the pipeline element that reported the failure, if known.
	Element string
	Message string
	Debug   string
	Err     error
}

func (e *PipelineError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Element != "" {
		msg = fmt.Sprintf("%s: %s", e.Element, msg)
	}
	if e.Debug != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Debug)
	}
	return "producer: pipeline error: " + msg
}

// Unwrap returns the underlying error.
func (e *PipelineError) Unwrap() error { return e.Err }

// Is reports whether target is ErrPipeline.
func (e *PipelineError) Is(target error) bool { return target == ErrPipeline }

func asPipelineError(err error) *PipelineError {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe
	}
	if err == nil {
		return &PipelineError{Message: "unknown error"}
	}
	return &PipelineError{Message: err.Error(), Err: err}
}
