package player

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ivlev/xlidst/internal/texture"
)

// Sink uploads pixel buffers as ebiten images. Images may be created before
// the game loop starts.
type Sink struct {
	Uploads int
}

func (s *Sink) Upload(pix []byte, width, height int) (texture.Handle, error) {
	if err := texture.CheckBuffer(pix, width, height); err != nil {
		return nil, err
	}
	img := ebiten.NewImage(width, height)
	img.WritePixels(pix)
	s.Uploads++
	return img, nil
}
