// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package producer runs the decode side of the frame pipeline.
//
// A [Loop] pulls NV12 frames from a [Source] on its own goroutine, converts
// them to RGBA and publishes the newest one into a [slot.Slot]. The render
// side never waits on the loop: it takes whatever is in the slot when it
// redraws. Subtitle samples are matched against the frame being published
// and written to a second slot, and cleared again when their display window
// ends on the decode timeline.
//
// End of stream and pipeline errors reported by the Source are forwarded to
// an [EventSink] exactly once and terminate the loop. Per-frame failures are
// logged and the frame is skipped.
//
// [slot.Slot]: github.com/gogpu/gg-video/slot.Slot
package producer
