// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface implements the direct-surface presentation path.
//
// Instead of building an RGBA texture per frame, the decoded NV12 planes are
// written straight into a long-lived native surface that the GUI framework
// samples and converts on its side. The surface is allocated once at the
// negotiated video size and locked around every write.
//
// # Backends
//
// Native surfaces come from a registry of backends, selected by priority:
//
//	func init() {
//	    surface.Register("iosurface", 100, newIOSurface, iosurfaceAvailable)
//	}
//
//	n, err := surface.NewBest(surface.Options{Width: 1920, Height: 1080})
//
// The "host" backend is always registered. It keeps the planes in Go
// memory and suits hosts that upload from shared memory, and tests.
//
// # Build-time capability
//
// Platform backends are only compiled with the directsurface build tag;
// DirectSurfaceEnabled reports whether it was set.
package surface
