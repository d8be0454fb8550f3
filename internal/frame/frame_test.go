package frame

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ivlev/xlidst/internal/view"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestPlacement(t *testing.T) {
	assert.Equal(t, image.Rect(40, 40, 60, 60), Placement(100, 100, 20, 20, 0, 0, 1))
	assert.Equal(t, image.Rect(40, 10, 60, 30), Placement(100, 100, 20, 20, 0, 30, 1), "y grows upward")
	assert.Equal(t, image.Rect(30, 30, 70, 70), Placement(100, 100, 20, 20, 0, 0, 2))
}

func TestComposeBackgroundAndElement(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	bg := color.RGBA{R: 255, A: 255}
	red := bg
	blue := color.RGBA{B: 255, A: 255}

	Compose(dst, view.Slide{
		Background: bg,
		Elements: []view.Element{
			{Texture: nil, Scale: 1, Alpha: 1},
			{Texture: solid(20, 20, blue), X: 0, Y: 0, Scale: 1, Alpha: 1},
		},
	})

	assert.Equal(t, red, dst.RGBAAt(0, 0))
	assert.Equal(t, red, dst.RGBAAt(99, 99))
	assert.Equal(t, blue, dst.RGBAAt(50, 50))
	assert.Equal(t, red, dst.RGBAAt(50, 35))
}

func TestComposeScaledAndFaded(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	white := color.RGBA{255, 255, 255, 255}

	Compose(dst, view.Slide{
		Background: white,
		Elements: []view.Element{
			{Texture: solid(10, 10, color.RGBA{A: 255}), Scale: 4, Alpha: 1},
			{Texture: solid(10, 10, color.RGBA{A: 255}), X: 30, Y: 30, Scale: 1, Alpha: 0},
		},
	})

	assert.Equal(t, color.RGBA{A: 255}, dst.RGBAAt(50, 50))
	assert.Equal(t, color.RGBA{A: 255}, dst.RGBAAt(35, 35))
	assert.Equal(t, white, dst.RGBAAt(80, 20), "transparent element leaves the background")

	half := image.NewRGBA(image.Rect(0, 0, 100, 100))
	Compose(half, view.Slide{
		Background: white,
		Elements:   []view.Element{{Texture: solid(10, 10, color.RGBA{A: 255}), Scale: 1, Alpha: 0.5}},
	})
	px := half.RGBAAt(50, 50)
	assert.InDelta(t, 127, int(px.R), 2)
	assert.Equal(t, uint8(255), px.A)
}
