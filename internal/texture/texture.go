// Package texture is the boundary between CPU pixel buffers and displayable
// images.
package texture

import (
	"fmt"
	"image"
)

// Handle is a displayable image. *image.RGBA and *ebiten.Image both satisfy it.
type Handle interface {
	Bounds() image.Rectangle
}

// Sink turns an RGBA8 buffer (row-major, top-left origin, stride 4*width)
// into a Handle. Implementations that talk to a render device must be called
// from the goroutine owning that device.
type Sink interface {
	Upload(pix []byte, width, height int) (Handle, error)
}

// CheckBuffer validates the size of an RGBA8 buffer.
func CheckBuffer(pix []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if len(pix) != width*height*4 {
		return fmt.Errorf("pixel buffer is %d bytes, want %d for %dx%d", len(pix), width*height*4, width, height)
	}
	return nil
}

// UploadImage hands img to the sink.
func UploadImage(s Sink, img *image.RGBA) (Handle, error) {
	b := img.Bounds()
	return s.Upload(img.Pix, b.Dx(), b.Dy())
}

// MemorySink keeps images on the CPU. Used for export and tests.
type MemorySink struct {
	Uploads int
}

func (m *MemorySink) Upload(pix []byte, width, height int) (Handle, error) {
	if err := CheckBuffer(pix, width, height); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pix)
	m.Uploads++
	return img, nil
}
