package scene

import "image/color"

// ElementRef indexes an element within its slide. Index 0 is always the Root.
type ElementRef int

// Animation mutates slide state over time. Implementations reference their
// targets by ElementRef and never own them.
type Animation interface {
	// Apply advances the animation by dt seconds and writes the result to s.
	Apply(s *Slide, dt float64)
	Done() bool
	// Reset rewinds the animation so it plays again from the start.
	Reset()
}

// Slide is an ordered list of elements in paint order.
type Slide struct {
	elements   []Element
	animations []Animation

	background color.RGBA
	inherited  bool

	// Duration is how long the slide is shown when exported, in seconds.
	// Zero means the configured default.
	Duration float64

	baseline *baseline
}

type geometry struct {
	x, y, scale, alpha float64
	visible            bool
}

type baseline struct {
	background color.RGBA
	inherited  bool
	textures   map[int]geometry
}

// NewSlide returns a slide holding only its Root.
func NewSlide() *Slide {
	return &Slide{
		elements:   []Element{&Root{}},
		background: DefaultBackground,
		inherited:  true,
	}
}

// Elements returns the slide's elements. The slice is shared with the
// slide; callers may mutate the elements but must not reslice it.
func (s *Slide) Elements() []Element { return s.elements }

// Len counts elements including the Root.
func (s *Slide) Len() int { return len(s.elements) }

// Element returns the element at ref.
func (s *Slide) Element(ref ElementRef) (Element, bool) {
	if ref < 0 || int(ref) >= len(s.elements) {
		return nil, false
	}
	return s.elements[ref], true
}

// Texture returns the Texture element at ref.
func (s *Slide) Texture(ref ElementRef) (*Texture, bool) {
	e, ok := s.Element(ref)
	if !ok {
		return nil, false
	}
	t, ok := e.(*Texture)
	return t, ok
}

// Textures returns the Texture elements in paint order.
func (s *Slide) Textures() []*Texture {
	var out []*Texture
	for _, e := range s.elements {
		switch e := e.(type) {
		case *Root:
		case *Texture:
			out = append(out, e)
		}
	}
	return out
}

// Add appends an element and returns its reference.
func (s *Slide) Add(e ToElement) ElementRef {
	s.elements = append(s.elements, e.ToElement())
	return ElementRef(len(s.elements) - 1)
}

func (s *Slide) Background() color.RGBA { return s.background }

// SetBackground overrides the show background for this slide.
func (s *Slide) SetBackground(c color.RGBA) {
	s.background = c
	s.inherited = false
}

// Animate attaches an animation. Animations apply in attachment order.
func (s *Slide) Animate(a Animation) {
	s.animations = append(s.animations, a)
}

func (s *Slide) Animations() []Animation { return s.animations }

// Animating reports whether any animation still has work to do.
func (s *Slide) Animating() bool {
	for _, a := range s.animations {
		if !a.Done() {
			return true
		}
	}
	return false
}

// Tick applies every unfinished animation exactly once and reports whether
// any of them ran. The pre-animation state is remembered on the first tick
// so Reset can restore it.
func (s *Slide) Tick(dt float64) bool {
	if s.baseline == nil {
		s.capture()
	}
	ran := false
	for _, a := range s.animations {
		if a.Done() {
			continue
		}
		a.Apply(s, dt)
		ran = true
	}
	return ran
}

// Reset restores the geometry and background from before the first Tick and
// rewinds all animations.
func (s *Slide) Reset() {
	if b := s.baseline; b != nil {
		s.background = b.background
		s.inherited = b.inherited
		for i, g := range b.textures {
			if t, ok := s.elements[i].(*Texture); ok {
				t.x, t.y, t.scale, t.alpha, t.visible = g.x, g.y, g.scale, g.alpha, g.visible
			}
		}
		s.baseline = nil
	}
	for _, a := range s.animations {
		a.Reset()
	}
}

func (s *Slide) capture() {
	b := &baseline{background: s.background, inherited: s.inherited, textures: map[int]geometry{}}
	for i, e := range s.elements {
		if t, ok := e.(*Texture); ok {
			b.textures[i] = geometry{x: t.x, y: t.y, scale: t.scale, alpha: t.alpha, visible: t.visible}
		}
	}
	s.baseline = b
}
