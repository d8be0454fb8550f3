// Package player presents a slideshow in a window.
package player

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ivlev/xlidst/internal/frame"
	"github.com/ivlev/xlidst/internal/navigation"
	"github.com/ivlev/xlidst/internal/scene"
	"github.com/ivlev/xlidst/internal/view"
)

type Options struct {
	Title         string
	Width, Height int
	Fullscreen    bool
	Logger        *slog.Logger
}

var (
	nextKeys     = []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeySpace, ebiten.KeyPageDown}
	previousKeys = []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyPageUp, ebiten.KeyBackspace}
)

// Game drives one slideshow. Everything runs on ebiten's update goroutine:
// input, navigation, animation ticks and projection.
type Game struct {
	ctx  context.Context
	show *scene.Slideshow
	env  *scene.Env
	nav  *navigation.Controller
	log  *slog.Logger

	current view.Slide
	dirty   bool
}

func New(ctx context.Context, show *scene.Slideshow, env *scene.Env, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	g := &Game{
		ctx:  ctx,
		show: show,
		env:  env,
		nav:  navigation.New(show.Len()),
		log:  logger,
	}
	g.enter()
	return g
}

// Window presents shows with the given options.
type Window struct {
	Options Options
}

func (w *Window) Present(ctx context.Context, show *scene.Slideshow, env *scene.Env) error {
	return Run(ctx, show, env, w.Options)
}

// Run opens the window and blocks until it is closed or Escape is pressed.
func Run(ctx context.Context, show *scene.Slideshow, env *scene.Env, opts Options) error {
	if err := show.Validate(); err != nil {
		return err
	}
	ebiten.SetWindowTitle(opts.Title)
	if opts.Width > 0 && opts.Height > 0 {
		ebiten.SetWindowSize(opts.Width, opts.Height)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(opts.Fullscreen)

	err := ebiten.RunGame(New(ctx, show, env, opts.Logger))
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (g *Game) slide() *scene.Slide {
	return g.show.Slides()[g.nav.Current()]
}

// enter restarts the animations of the current slide.
func (g *Game) enter() {
	g.slide().Reset()
	g.dirty = true
	g.log.Debug("slide", "index", g.nav.Current())
}

func command() navigation.Command {
	for _, k := range nextKeys {
		if inpututil.IsKeyJustPressed(k) {
			return navigation.CommandNext
		}
	}
	for _, k := range previousKeys {
		if inpututil.IsKeyJustPressed(k) {
			return navigation.CommandPrevious
		}
	}
	return navigation.CommandNone
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if err := g.ctx.Err(); err != nil {
		return ebiten.Termination
	}

	if g.nav.Apply(command()) {
		g.enter()
	}

	if g.slide().Tick(1/float64(ebiten.TPS())) {
		g.dirty = true
	}
	if g.dirty {
		g.current = view.ProjectSlide(g.ctx, g.slide(), g.env)
		g.dirty = false
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.current.Background)
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()

	for _, e := range g.current.Elements {
		img, ok := e.Texture.(*ebiten.Image)
		if !ok || e.Alpha <= 0 || e.Scale <= 0 {
			continue
		}
		w, h := img.Bounds().Dx(), img.Bounds().Dy()
		dr := frame.Placement(sw, sh, w, h, e.X, e.Y, e.Scale)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(dr.Dx())/float64(w), float64(dr.Dy())/float64(h))
		op.GeoM.Translate(float64(dr.Min.X), float64(dr.Min.Y))
		op.ColorScale.ScaleAlpha(float32(e.Alpha))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(img, op)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
