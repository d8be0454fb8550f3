// Package view resolves the scene model into what a renderer draws.
package view

import (
	"context"
	"image/color"

	"github.com/ivlev/xlidst/internal/scene"
	"github.com/ivlev/xlidst/internal/texture"
)

// Element is a positioned texture. A nil Texture draws nothing.
type Element struct {
	Texture texture.Handle
	X, Y    float64
	Scale   float64
	Alpha   float64
}

// Slide is a background color and elements in paint order.
type Slide struct {
	Background color.RGBA
	Elements   []Element
}

// Project resolves every slide of show. Images not produced yet are produced
// through env; failures become nil textures.
func Project(ctx context.Context, show *scene.Slideshow, env *scene.Env) []Slide {
	slides := show.Slides()
	out := make([]Slide, len(slides))
	for i, s := range slides {
		out[i] = ProjectSlide(ctx, s, env)
	}
	return out
}

// ProjectSlide resolves one slide. The Root is skipped, as are hidden
// textures.
func ProjectSlide(ctx context.Context, s *scene.Slide, env *scene.Env) Slide {
	vs := Slide{Background: s.Background()}
	for _, e := range s.Elements() {
		switch e := e.(type) {
		case *scene.Root:
		case *scene.Texture:
			if !e.Visible() {
				continue
			}
			// failures are recorded on the element and draw as blank
			img, _ := e.Image(ctx, env)
			vs.Elements = append(vs.Elements, Element{
				Texture: img,
				X:       e.X(),
				Y:       e.Y(),
				Scale:   e.Scale(),
				Alpha:   e.Alpha(),
			})
		}
	}
	return vs
}
