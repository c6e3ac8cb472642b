// Package ggvideo plays decoded video inside a retained-mode GUI frame.
//
// # Overview
//
// A Player connects a decode pipeline to the paint pass of a GUI framework.
// A producer goroutine pulls NV12 frames, converts them to RGBA and hands
// only the newest one to the render side. On every redraw the render side
// uploads that frame into a fresh texture, paints it, and only then
// releases the texture it replaced, so graphics memory stays bounded at two
// frames no matter how long playback runs.
//
// # Quick Start
//
//	import ggvideo "github.com/gogpu/gg-video"
//
//	src, err := gstsource.Open(ctx, "file:///tmp/clip.mp4")
//	if err != nil {
//	    return err
//	}
//	p, err := ggvideo.New(src,
//	    ggvideo.WithCreator(creator),
//	    ggvideo.WithPainter(painter),
//	    ggvideo.WithContentFit(ggvideo.Contain),
//	)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//	p.Start(ctx)
//
//	// In the GUI paint callback:
//	for _, ev := range p.PollEvents() {
//	    handle(ev)
//	}
//	p.Render(bounds)
//
// # Presentation paths
//
// The texture path creates one GPU image per frame through a framework
// supplied texture.Creator. The direct-surface path writes NV12 planes into
// a long-lived native surface instead; it is chosen once, when the Player is
// built, and falls back to textures if the surface cannot be created.
//
// # Architecture
//
//   - convert: NV12 to RGBA conversion
//   - slot: single-value mailboxes between goroutines
//   - producer: the decode loop
//   - texture: per-frame texture lifecycle
//   - surface: direct-surface presentation and backend registry
//   - gstsource: GStreamer decode pipeline
package ggvideo

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
