// Package frame paints projected slides into CPU images.
package frame

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/ivlev/xlidst/internal/view"
)

// Placement returns the destination rectangle of a w x h texture drawn
// centered at (x, y) with the given scale. The origin is the center of a
// width x height canvas and y grows upward.
func Placement(width, height, w, h int, x, y, scale float64) image.Rectangle {
	dw := float64(w) * scale
	dh := float64(h) * scale
	cx := float64(width)/2 + x
	cy := float64(height)/2 - y
	return image.Rect(
		int(math.Round(cx-dw/2)),
		int(math.Round(cy-dh/2)),
		int(math.Round(cx+dw/2)),
		int(math.Round(cy+dh/2)),
	)
}

// Compose fills dst with the slide background and draws its elements in
// order. Elements without a texture, fully transparent ones, and textures
// that are not CPU images are skipped.
func Compose(dst *image.RGBA, s view.Slide) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(s.Background), image.Point{}, draw.Src)

	for _, e := range s.Elements {
		src, ok := e.Texture.(image.Image)
		if !ok || e.Alpha <= 0 || e.Scale <= 0 {
			continue
		}
		sr := src.Bounds()
		dr := Placement(b.Dx(), b.Dy(), sr.Dx(), sr.Dy(), e.X, e.Y, e.Scale).Add(b.Min)
		if dr.Empty() || !dr.Overlaps(b) {
			continue
		}
		var opts *draw.Options
		if e.Alpha < 1 {
			opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha{A: uint8(e.Alpha*255 + 0.5)})}
		}
		if dr.Dx() == sr.Dx() && dr.Dy() == sr.Dy() && opts == nil {
			draw.Draw(dst, dr, src, sr.Min, draw.Over)
			continue
		}
		draw.BiLinear.Scale(dst, dr, src, sr, draw.Over, opts)
	}
}
