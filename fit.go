package ggvideo

import "github.com/gogpu/gg-video/layout"

// Rect is a paint region in logical pixels.
type Rect = layout.Rect

// ContentFit controls how frames are scaled into the paint region.
type ContentFit = layout.ContentFit

// Content fit modes. See the layout package for details.
const (
	Contain   = layout.Contain
	Cover     = layout.Cover
	Fill      = layout.Fill
	ScaleDown = layout.ScaleDown
	None      = layout.None
)
