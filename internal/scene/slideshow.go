// Package scene holds the authoring model of a show: slides made of
// elements, with optional animations.
package scene

import (
	"errors"
	"image/color"
)

var (
	// ErrUnopenedSlide is returned by Add and Animate before the first Slide call.
	ErrUnopenedSlide = errors.New("scene: no slide opened")
	// ErrEmptyShow is returned by Validate for a show without slides.
	ErrEmptyShow = errors.New("scene: show has no slides")
)

// DefaultBackground is the show background unless set otherwise.
var DefaultBackground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Slideshow owns its slides and, through them, every element.
type Slideshow struct {
	slides     []*Slide
	background color.RGBA
}

func NewSlideshow() *Slideshow {
	return &Slideshow{background: DefaultBackground}
}

// Slide opens a new slide holding only its Root. It becomes the target of
// Add and Animate.
func (s *Slideshow) Slide() *Slide {
	sl := NewSlide()
	sl.background = s.background
	s.slides = append(s.slides, sl)
	return sl
}

// Add appends e to the most recently opened slide.
func (s *Slideshow) Add(e ToElement) (ElementRef, error) {
	cur, err := s.Current()
	if err != nil {
		return 0, err
	}
	return cur.Add(e), nil
}

// Animate attaches a to the most recently opened slide.
func (s *Slideshow) Animate(a Animation) error {
	cur, err := s.Current()
	if err != nil {
		return err
	}
	cur.Animate(a)
	return nil
}

// Current returns the append target.
func (s *Slideshow) Current() (*Slide, error) {
	if len(s.slides) == 0 {
		return nil, ErrUnopenedSlide
	}
	return s.slides[len(s.slides)-1], nil
}

func (s *Slideshow) Slides() []*Slide { return s.slides }

func (s *Slideshow) Len() int { return len(s.slides) }

func (s *Slideshow) Background() color.RGBA { return s.background }

// SetBackground changes the show background, including slides that have
// not set their own.
func (s *Slideshow) SetBackground(c color.RGBA) {
	s.background = c
	for _, sl := range s.slides {
		if sl.inherited {
			sl.background = c
		}
	}
}

// Validate checks the show can be presented.
func (s *Slideshow) Validate() error {
	if len(s.slides) == 0 {
		return ErrEmptyShow
	}
	return nil
}
