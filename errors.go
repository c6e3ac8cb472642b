package ggvideo

import "errors"

// Common errors returned by Player operations.
var (
	// ErrNilSource is returned by New without a source.
	ErrNilSource = errors.New("ggvideo: nil source")

	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("ggvideo: player already started")

	// ErrClosed is returned when operations are attempted on a closed player.
	ErrClosed = errors.New("ggvideo: player is closed")

	// ErrNoRenderPath is returned by Render when neither a texture creator
	// and painter nor a direct surface was configured.
	ErrNoRenderPath = errors.New("ggvideo: no presentation path configured")

	// ErrDirectSurfaceDisabled is logged when a platform direct surface is
	// requested from a build without the directsurface tag.
	ErrDirectSurfaceDisabled = errors.New("ggvideo: direct surface support not compiled in")

	// ErrUnknownSize is logged when a direct surface is requested but the
	// video size is not known at construction time.
	ErrUnknownSize = errors.New("ggvideo: video size unknown")
)
