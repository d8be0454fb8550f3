package scene

import (
	"context"
	"errors"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/xlidst/internal/raster"
	"github.com/ivlev/xlidst/internal/texture"
)

// Report summarizes a Materialize call.
type Report struct {
	Rasterized int
	Failed     int
}

type job struct {
	slide, index int
	tex          *Texture
	img          *image.RGBA
	err          error
}

// Materialize produces the image of every stale texture. Rasterization runs
// on up to env.Workers goroutines; uploads happen on the calling goroutine in
// paint order. Per-element failures are recorded on the element and logged;
// only context cancellation is returned as an error.
func (s *Slideshow) Materialize(ctx context.Context, env *Env) (Report, error) {
	var jobs []*job
	for si, sl := range s.slides {
		for ei, e := range sl.elements {
			switch e := e.(type) {
			case *Root:
			case *Texture:
				if e.dirty {
					jobs = append(jobs, &job{slide: si, index: ei, tex: e})
				}
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(env.workers())
	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			j.img, j.err = j.tex.payload.Rasterize(gctx, env)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	log := env.logger()
	var rep Report
	for _, j := range jobs {
		if j.err == nil {
			h, err := texture.UploadImage(env.Sink, j.img)
			j.tex.store(h, err)
			j.err = err
		} else {
			j.tex.store(nil, j.err)
		}

		if j.err != nil {
			rep.Failed++
			var tooBig *raster.TooBigError
			if errors.As(j.err, &tooBig) {
				log.Warn("element page too big", "slide", j.slide, "element", j.index, "axis", tooBig.Axis.String(), "size", tooBig.Size)
			} else {
				log.Warn("element failed to rasterize", "slide", j.slide, "element", j.index, "err", j.err)
			}
			continue
		}
		rep.Rasterized++
		log.Debug("element rasterized", "slide", j.slide, "element", j.index, "bounds", j.tex.image.Bounds().String())
	}
	return rep, nil
}
