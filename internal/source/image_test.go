package source

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "pic.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestImageDocument(t *testing.T) {
	doc, err := NewImageDocument(writePNG(t, 40, 20))
	require.NoError(t, err)
	defer doc.Close()

	assert.Equal(t, 1, doc.PageCount())
	w, h, err := doc.PageSize(0)
	require.NoError(t, err)
	assert.Equal(t, 40.0, w)
	assert.Equal(t, 20.0, h)

	img, err := doc.RenderPage(0, 2)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 80, 40), img.Bounds())
	assert.Equal(t, 80*4, img.Stride)

	_, err = doc.RenderPage(1, 1)
	assert.Error(t, err)
}

func TestImageDocumentMissingFile(t *testing.T) {
	_, err := NewImageDocument(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestTightCopiesSubImages(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 10, 10))
	base.Set(5, 5, color.RGBA{G: 255, A: 255})
	sub := base.SubImage(image.Rect(4, 4, 8, 8))

	out := Tight(sub)
	assert.Equal(t, image.Rect(0, 0, 4, 4), out.Bounds())
	assert.Equal(t, 16, out.Stride)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, out.RGBAAt(1, 1))

	assert.Same(t, base, Tight(base))
}

func TestDecodeImageKeepsTransparency(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	src.SetNRGBA(5, 5, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	doc, err := DecodeImage(buf.Bytes())
	require.NoError(t, err)
	img, err := doc.RenderPage(0, 1)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 20, 20), img.Bounds())
	assert.Equal(t, color.RGBA{}, img.RGBAAt(10, 10))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(5, 5))
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	_, err := DecodeImage([]byte("not an image"))
	assert.Error(t, err)
}
