package main

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/gogpu/gg-video/layout"
)

// renderSnapshot scales an RGBA frame into an outW x outH canvas using fit.
// A zero outW keeps the natural width; a zero outH follows the frame's
// aspect ratio.
func renderSnapshot(pix []byte, w, h, outW, outH int, fit layout.ContentFit) *image.RGBA {
	src := &image.RGBA{Pix: pix, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
	var ow, oh *int
	if outW > 0 {
		ow = &outW
	}
	if outH > 0 {
		oh = &outH
	}
	outW, outH = layout.DisplaySize(w, h, ow, oh)

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)

	r := fit.Place(layout.Rect{W: float32(outW), H: float32(outH)}, w, h)
	target := image.Rect(round(r.X), round(r.Y), round(r.X+r.W), round(r.Y+r.H))
	if target.Eq(src.Bounds()) {
		draw.Copy(dst, image.Point{}, src, src.Bounds(), draw.Src, nil)
		return dst
	}
	draw.CatmullRom.Scale(dst, target, src, src.Bounds(), draw.Src, nil)
	return dst
}

func round(v float32) int {
	return int(math.Round(float64(v)))
}

func writePNG(path string, img image.Image) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
