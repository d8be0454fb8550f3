package engine

import (
	"image/color"

	"github.com/tanema/gween/ease"

	"github.com/ivlev/xlidst/internal/animation"
	"github.com/ivlev/xlidst/internal/scene"
)

const demoPage = "#set page(width: 100pt, height: 100pt)\n"

// Demo is the show presented when no show file is given.
func Demo() (*scene.Slideshow, error) {
	b := &showBuilder{show: scene.NewSlideshow()}

	b.slide(color.RGBA{R: 0x80, B: 0x80, A: 0xff})
	b.add(scene.Typst(demoPage + "= NAPS"))

	b.slide(color.RGBA{R: 0xff, A: 0xff})
	title := b.add(scene.Typst(demoPage + "== Euler\n$e^(i pi) + 1 = 0$").SetY(-400))
	b.animate(animation.Move(title, 0, 0, 1.5, ease.OutBack))

	b.slide(color.RGBA{B: 0xff, A: 0xff})
	munk := b.add(scene.Typst(demoPage + "== Hemo munk").SetAlpha(0))
	b.animate(animation.Fade(munk, 1, 1, ease.InOutSine))
	qr := b.add(scene.NewQRCode("https://typst.app").SetPosition(0, -300).SetScale(0.5).SetVisible(false))
	b.animate(animation.Appear(qr, 1))

	if b.err != nil {
		return nil, b.err
	}
	return b.show, nil
}

// showBuilder keeps the first Add or Animate error; later calls are no-ops.
type showBuilder struct {
	show *scene.Slideshow
	err  error
}

func (b *showBuilder) slide(bg color.RGBA) {
	if b.err != nil {
		return
	}
	b.show.Slide().SetBackground(bg)
}

func (b *showBuilder) add(e scene.ToElement) scene.ElementRef {
	if b.err != nil {
		return 0
	}
	ref, err := b.show.Add(e)
	b.err = err
	return ref
}

func (b *showBuilder) animate(a scene.Animation) {
	if b.err != nil {
		return
	}
	b.err = b.show.Animate(a)
}
