// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build directsurface

package surface

// DirectSurfaceEnabled reports whether platform direct-surface backends
// were compiled in.
const DirectSurfaceEnabled = true
