package animation

import "github.com/ivlev/xlidst/internal/scene"

// Visibility switches an element on or off once its delay has elapsed.
type Visibility struct {
	target  scene.ElementRef
	at      float64
	visible bool

	elapsed float64
	done    bool
}

// Appear shows the element after at seconds.
func Appear(ref scene.ElementRef, at float64) *Visibility {
	return &Visibility{target: ref, at: at, visible: true}
}

// Disappear hides the element after at seconds.
func Disappear(ref scene.ElementRef, at float64) *Visibility {
	return &Visibility{target: ref, at: at, visible: false}
}

func (a *Visibility) Apply(s *scene.Slide, dt float64) {
	if a.done {
		return
	}
	tex, ok := s.Texture(a.target)
	if !ok {
		a.done = true
		return
	}
	a.elapsed += dt
	if a.elapsed >= a.at {
		tex.SetVisible(a.visible)
		a.done = true
	}
}

func (a *Visibility) Done() bool { return a.done }

func (a *Visibility) Reset() {
	a.elapsed = 0
	a.done = false
}

// Delayed starts an animation after a pause.
type Delayed struct {
	delay   float64
	elapsed float64
	inner   scene.Animation
}

// Delay wraps a so it begins after d seconds. Time left over in the tick
// that ends the pause is passed on to a.
func Delay(d float64, a scene.Animation) *Delayed {
	return &Delayed{delay: d, inner: a}
}

func (a *Delayed) Apply(s *scene.Slide, dt float64) {
	if a.elapsed < a.delay {
		a.elapsed += dt
		if a.elapsed < a.delay {
			return
		}
		dt = a.elapsed - a.delay
	}
	a.inner.Apply(s, dt)
}

func (a *Delayed) Done() bool { return a.elapsed >= a.delay && a.inner.Done() }

func (a *Delayed) Reset() {
	a.elapsed = 0
	a.inner.Reset()
}
