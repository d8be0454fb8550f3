package animation

import (
	"sort"

	"github.com/tanema/gween/ease"

	"github.com/ivlev/xlidst/internal/scene"
)

// Keyframe is an element placement at a point in time.
type Keyframe struct {
	Time  float64 // seconds from the start of the path
	X, Y  float64
	Scale float64
}

// State is an interpolated placement.
type State struct {
	X, Y, Scale float64
}

// InterpolateKeyframes returns the placement at time t. Keyframes must be
// sorted by Time. Before the first keyframe the first is used, after the
// last the last.
func InterpolateKeyframes(keyframes []Keyframe, t float64, fn ease.TweenFunc) State {
	if len(keyframes) == 0 {
		return State{Scale: 1}
	}
	if fn == nil {
		fn = ease.InOutCubic
	}

	first, last := keyframes[0], keyframes[len(keyframes)-1]
	if t <= first.Time {
		return State{X: first.X, Y: first.Y, Scale: first.Scale}
	}
	if t >= last.Time {
		return State{X: last.X, Y: last.Y, Scale: last.Scale}
	}

	// first keyframe strictly after t
	i := sort.Search(len(keyframes), func(i int) bool { return keyframes[i].Time > t })
	prev, next := keyframes[i-1], keyframes[i]

	span := next.Time - prev.Time
	if span <= 0 {
		return State{X: next.X, Y: next.Y, Scale: next.Scale}
	}
	// eased progress in [0, 1]
	p := float64(fn(float32(t-prev.Time), 0, 1, float32(span)))

	return State{
		X:     lerp(prev.X, next.X, p),
		Y:     lerp(prev.Y, next.Y, p),
		Scale: lerp(prev.Scale, next.Scale, p),
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// PathAnimation moves an element through a keyframe track.
type PathAnimation struct {
	target    scene.ElementRef
	keyframes []Keyframe
	fn        ease.TweenFunc

	elapsed float64
	done    bool
}

// Path builds a keyframe track for ref. Keyframes are sorted by time; a
// zero Scale is read as 1.
func Path(ref scene.ElementRef, keyframes []Keyframe, fn ease.TweenFunc) *PathAnimation {
	kfs := make([]Keyframe, len(keyframes))
	copy(kfs, keyframes)
	for i := range kfs {
		if kfs[i].Scale == 0 {
			kfs[i].Scale = 1
		}
	}
	sort.SliceStable(kfs, func(i, j int) bool { return kfs[i].Time < kfs[j].Time })
	return &PathAnimation{target: ref, keyframes: kfs, fn: fn}
}

func (a *PathAnimation) Apply(s *scene.Slide, dt float64) {
	if a.done {
		return
	}
	tex, ok := s.Texture(a.target)
	if !ok || len(a.keyframes) == 0 {
		a.done = true
		return
	}
	a.elapsed += dt
	st := InterpolateKeyframes(a.keyframes, a.elapsed, a.fn)
	tex.SetPosition(st.X, st.Y).SetScale(st.Scale)
	a.done = a.elapsed >= a.keyframes[len(a.keyframes)-1].Time
}

func (a *PathAnimation) Done() bool { return a.done }

func (a *PathAnimation) Reset() {
	a.elapsed = 0
	a.done = false
}
