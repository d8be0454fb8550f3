package engine

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/xlidst/internal/config"
	"github.com/ivlev/xlidst/internal/frame"
	"github.com/ivlev/xlidst/internal/view"
)

// DefaultSlideDuration applies to slides without a duration when the config
// sets none.
const DefaultSlideDuration = 3.0

// Export renders every slide to a video segment, animations included, and
// joins the segments into Config.OutputVideo.
func (p *Project) Export(ctx context.Context) error {
	cfg := p.Config
	if cfg.OutputVideo == "" {
		return fmt.Errorf("no output path")
	}
	if cfg.Width%2 != 0 {
		cfg.Width++
	}
	if cfg.Height%2 != 0 {
		cfg.Height++
	}

	tempDir, err := os.MkdirTemp("", "xlidst_")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tempDir)

	p.calculateDurations()

	slides := p.Show.Slides()
	segments := make([]string, len(slides))
	start := time.Now()
	for i := range slides {
		segPath := filepath.Join(tempDir, fmt.Sprintf("s%d.mp4", i))
		params := config.SegmentParams{
			Width:        cfg.Width,
			Height:       cfg.Height,
			FPS:          cfg.FPS,
			Duration:     cfg.SlideDurations[i],
			SlideIndex:   i,
			VideoEncoder: cfg.VideoEncoder,
			Quality:      cfg.Quality,
		}
		if err := p.encodeSlide(ctx, segPath, params); err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
		segments[i] = segPath
		p.Logger.Info("segment ready", "slide", i+1, "of", len(slides))
	}
	encoded := time.Since(start)

	if err := p.Encoder.Concatenate(ctx, segments, cfg.OutputVideo, tempDir, *cfg); err != nil {
		return fmt.Errorf("concatenate: %w", err)
	}
	p.Logger.Info("video written",
		"path", cfg.OutputVideo,
		"encode", encoded.Round(time.Millisecond),
		"total", time.Since(start).Round(time.Millisecond))
	p.report()
	return nil
}

// encodeSlide plays the slide's animations from the start at the export
// frame rate and streams each composed frame to the encoder. The slide is
// rewound afterwards.
func (p *Project) encodeSlide(ctx context.Context, segPath string, params config.SegmentParams) error {
	slide := p.Show.Slides()[params.SlideIndex]
	slide.Reset()
	defer slide.Reset()

	frames := make(chan *image.RGBA, 2)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.Encoder.EncodeSlide(gctx, frames, segPath, params)
	})

	dt := 1 / float64(params.FPS)
	g.Go(func() error {
		defer close(frames)
		for k := 0; k < params.Frames(); k++ {
			if k > 0 {
				slide.Tick(dt)
			}
			img := p.frames.Get(params.Width, params.Height)
			frame.Compose(img, view.ProjectSlide(gctx, slide, p.Env))
			select {
			case frames <- img:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	return g.Wait()
}

// calculateDurations fills Config.SlideDurations and shortens the
// transition if a slide is too short for it. Durations are aligned to whole
// frames so xfade offsets stay exact.
func (p *Project) calculateDurations() {
	cfg := p.Config
	fallback := cfg.SlideDuration
	if fallback <= 0 {
		fallback = DefaultSlideDuration
	}
	if cfg.FPS <= 0 {
		cfg.FPS = 30
	}

	slides := p.Show.Slides()
	durations := make([]float64, len(slides))
	minDur := math.Inf(1)
	for i, s := range slides {
		d := s.Duration
		if d <= 0 {
			d = fallback
		}
		d = math.Max(math.Round(d*float64(cfg.FPS)), 1) / float64(cfg.FPS)
		durations[i] = d
		minDur = math.Min(minDur, d)
	}
	cfg.SlideDurations = durations

	if len(slides) > 1 && cfg.TransitionType != "" && cfg.TransitionType != "none" && cfg.FadeDuration >= minDur {
		cfg.FadeDuration = minDur / 2.0
		p.Logger.Warn("transition shortened for a short slide", "fade", cfg.FadeDuration)
	}
}
