// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gstsource decodes a media URI with GStreamer and exposes the
// decoded NV12 frames as a producer.Source.
//
// The pipeline is a playbin whose video sink converts to NV12 and ends in an
// appsink that keeps at most a few buffers and drops the oldest. An optional
// second appsink receives UTF-8 subtitle text.
//
//	src, err := gstsource.Open(ctx, "file:///tmp/clip.mp4",
//	    gstsource.WithSubtitles(true))
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//	p, err := ggvideo.New(src)
//
// Building this package requires the GStreamer development headers.
package gstsource
