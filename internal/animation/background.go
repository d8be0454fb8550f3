package animation

import (
	"image/color"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/ivlev/xlidst/internal/scene"
)

// BackgroundTween animates the slide background color. It targets the slide
// it is attached to rather than an element.
type BackgroundTween struct {
	to       color.RGBA
	duration float32
	fn       ease.TweenFunc

	tweens [4]*gween.Tween
	begun  bool
	done   bool
}

// Background animates the slide background to the given color.
func Background(to color.RGBA, duration float64, fn ease.TweenFunc) *BackgroundTween {
	if fn == nil {
		fn = ease.Linear
	}
	return &BackgroundTween{to: to, duration: float32(duration), fn: fn}
}

func (a *BackgroundTween) Apply(s *scene.Slide, dt float64) {
	if a.done {
		return
	}
	if !a.begun {
		from := s.Background()
		a.tweens[0] = gween.New(float32(from.R), float32(a.to.R), a.duration, a.fn)
		a.tweens[1] = gween.New(float32(from.G), float32(a.to.G), a.duration, a.fn)
		a.tweens[2] = gween.New(float32(from.B), float32(a.to.B), a.duration, a.fn)
		a.tweens[3] = gween.New(float32(from.A), float32(a.to.A), a.duration, a.fn)
		a.begun = true
	}

	var ch [4]uint8
	allDone := true
	for i, tw := range a.tweens {
		val, finished := tw.Update(float32(dt))
		if !finished {
			allDone = false
		}
		ch[i] = channel(val)
	}
	if allDone {
		s.SetBackground(a.to)
	} else {
		s.SetBackground(color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]})
	}
	a.done = allDone
}

func (a *BackgroundTween) Done() bool { return a.done }

func (a *BackgroundTween) Reset() {
	a.begun = false
	a.done = false
}

func channel(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
