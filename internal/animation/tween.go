// Package animation drives slide and element state over time. Every
// animation implements scene.Animation and refers to its target by
// scene.ElementRef; the slide passed to Apply stays the sole owner.
package animation

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/ivlev/xlidst/internal/scene"
)

type prop struct {
	get func(*scene.Texture) float64
	set func(*scene.Texture, float64)
	to  float64
}

var (
	propX = func(to float64) prop {
		return prop{get: (*scene.Texture).X, set: func(t *scene.Texture, v float64) { t.SetX(v) }, to: to}
	}
	propY = func(to float64) prop {
		return prop{get: (*scene.Texture).Y, set: func(t *scene.Texture, v float64) { t.SetY(v) }, to: to}
	}
	propScale = func(to float64) prop {
		return prop{get: (*scene.Texture).Scale, set: func(t *scene.Texture, v float64) { t.SetScale(v) }, to: to}
	}
	propAlpha = func(to float64) prop {
		return prop{get: (*scene.Texture).Alpha, set: func(t *scene.Texture, v float64) { t.SetAlpha(v) }, to: to}
	}
)

// Tween animates one or more numeric properties of a Texture element from
// their values at the first Apply to fixed targets.
type Tween struct {
	target   scene.ElementRef
	props    []prop
	duration float32
	fn       ease.TweenFunc

	tweens []*gween.Tween
	done   bool
}

func newTween(ref scene.ElementRef, duration float64, fn ease.TweenFunc, props ...prop) *Tween {
	if fn == nil {
		fn = ease.Linear
	}
	return &Tween{target: ref, props: props, duration: float32(duration), fn: fn}
}

// Move animates the element position to (toX, toY).
func Move(ref scene.ElementRef, toX, toY, duration float64, fn ease.TweenFunc) *Tween {
	return newTween(ref, duration, fn, propX(toX), propY(toY))
}

// Scale animates the element scale factor.
func Scale(ref scene.ElementRef, to, duration float64, fn ease.TweenFunc) *Tween {
	return newTween(ref, duration, fn, propScale(to))
}

// Fade animates the element alpha.
func Fade(ref scene.ElementRef, to, duration float64, fn ease.TweenFunc) *Tween {
	return newTween(ref, duration, fn, propAlpha(to))
}

func (a *Tween) Apply(s *scene.Slide, dt float64) {
	if a.done {
		return
	}
	tex, ok := s.Texture(a.target)
	if !ok {
		a.done = true
		return
	}

	if a.tweens == nil {
		a.tweens = make([]*gween.Tween, len(a.props))
		for i, p := range a.props {
			a.tweens[i] = gween.New(float32(p.get(tex)), float32(p.to), a.duration, a.fn)
		}
	}

	allDone := true
	for i, tw := range a.tweens {
		val, finished := tw.Update(float32(dt))
		if finished {
			// land exactly on the target instead of the float32 value
			a.props[i].set(tex, a.props[i].to)
			continue
		}
		a.props[i].set(tex, float64(val))
		allDone = false
	}
	a.done = allDone
}

func (a *Tween) Done() bool { return a.done }

func (a *Tween) Reset() {
	a.tweens = nil
	a.done = false
}
