// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package texture manages the GPU image resources that display video frames.
//
// Every new frame gets a fresh texture handle. The [Manager] paints the new
// handle first and only then releases the one it replaces, so the previous
// frame stays valid for as long as the GUI may still be sampling it. At most
// two handles are alive at any time, and exactly one after a commit returns.
//
// Integration with a GUI framework:
//
//	m, err := texture.New(frames, creator, painter,
//	    texture.WithDeviceProvider(app.GPUContextProvider()))
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	app.OnDraw(func() {
//	    if err := m.Present(bounds, layout.Contain); err != nil {
//	        log.Println(err)
//	    }
//	})
//
// The Creator and Painter are supplied by the framework binding. Creator
// must copy the pixels it is given; the Manager reuses its staging buffer
// across frames.
package texture
