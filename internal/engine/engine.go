package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ivlev/xlidst/internal/config"
	"github.com/ivlev/xlidst/internal/sandbox"
	"github.com/ivlev/xlidst/internal/scene"
	"github.com/ivlev/xlidst/internal/showfile"
	"github.com/ivlev/xlidst/internal/system"
	"github.com/ivlev/xlidst/internal/video"
)

// Presenter shows a prepared slideshow until the audience is done.
type Presenter interface {
	Present(ctx context.Context, show *scene.Slideshow, env *scene.Env) error
}

// Project carries a show from its source through rasterization to the
// window or a video file.
type Project struct {
	Config  *config.Config
	Show    *scene.Slideshow
	Env     *scene.Env
	Encoder video.VideoEncoder

	// Presenter is required for ModePresent.
	Presenter Presenter
	Logger    *slog.Logger

	frames  *system.FramePool
	started time.Time
}

// NewProject wires a project. A nil encoder means ffmpeg on PATH.
func NewProject(cfg *config.Config, env *scene.Env, ve video.VideoEncoder, logger *slog.Logger) *Project {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	frames := system.NewFramePool()
	if ve == nil {
		ve = &video.FFmpegEncoder{Recycle: frames.Put}
	}
	if env.Logger == nil {
		env.Logger = logger
	}
	return &Project{
		Config:  cfg,
		Env:     env,
		Encoder: ve,
		Logger:  logger,
		frames:  frames,
		started: time.Now(),
	}
}

// Load builds the show from Config.ShowPath, or the built-in demo when the
// path is empty.
func (p *Project) Load() error {
	if p.Config.ShowPath == "" {
		show, err := Demo()
		if err != nil {
			return fmt.Errorf("build demo show: %w", err)
		}
		p.Show = show
		p.Logger.Info("no show file given, using the demo show", "slides", p.Show.Len())
		return nil
	}

	sf, err := showfile.Read(p.Config.ShowPath)
	if err != nil {
		return fmt.Errorf("read show: %w", err)
	}
	show, err := sf.Build()
	if err != nil {
		return fmt.Errorf("build show %s: %w", p.Config.ShowPath, err)
	}
	p.Show = show
	p.Logger.Info("show loaded", "path", p.Config.ShowPath, "slides", show.Len())
	return nil
}

// Prepare initializes the sandbox when the environment has none, checks the
// show and rasterizes every element. Elements that fail are blank; they are
// counted in the report, not returned as errors.
func (p *Project) Prepare(ctx context.Context) (scene.Report, error) {
	if p.Show == nil {
		return scene.Report{}, fmt.Errorf("no show loaded")
	}
	if err := p.Show.Validate(); err != nil {
		return scene.Report{}, err
	}

	if p.Env.Sandbox == nil {
		sb, err := sandbox.New(sandbox.Options{
			Root:              p.Config.Root,
			FontPaths:         p.Config.FontPaths,
			IgnoreSystemFonts: p.Config.IgnoreSystemFonts,
			CacheDir:          p.Config.FontCacheDir,
		})
		if err != nil {
			return scene.Report{}, err
		}
		p.Env.Sandbox = sb
		p.Logger.Debug("sandbox ready", "font_dirs", len(sb.FontDirs()), "families", sb.Families())
	}

	start := time.Now()
	rep, err := p.Show.Materialize(ctx, p.Env)
	if err != nil {
		return rep, err
	}
	p.Logger.Info("show rasterized",
		"elements", rep.Rasterized,
		"failed", rep.Failed,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return rep, nil
}

// Present shows the prepared slideshow in a window.
func (p *Project) Present(ctx context.Context) error {
	if p.Presenter == nil {
		return fmt.Errorf("no presenter configured")
	}
	err := p.Presenter.Present(ctx, p.Show, p.Env)
	p.report()
	return err
}

// Run performs the configured mode.
func (p *Project) Run(ctx context.Context) error {
	switch p.Config.Mode {
	case config.ModeExport:
		return p.Export(ctx)
	case config.ModePresent, "":
		return p.Present(ctx)
	default:
		return fmt.Errorf("unknown mode %q", p.Config.Mode)
	}
}

func (p *Project) report() {
	if !p.Config.ShowStats {
		return
	}
	fmt.Print(system.CollectStats(p.started).Report(p.Config.BuildVersion))
}
