package scene

import (
	"context"

	"github.com/ivlev/xlidst/internal/texture"
)

// Element is either a *Root or a *Texture. Consumers switch on the concrete
// type; no other implementations exist.
type Element interface {
	element()
}

// ToElement converts an author-supplied value into an Element.
type ToElement interface {
	ToElement() Element
}

// Root anchors a slide. Children are reserved for grouped elements and are
// never populated.
type Root struct {
	children []Element
}

func (*Root) element() {}

func (r *Root) Children() []Element { return r.children }

// Texture is a positioned element whose content rasterizes to an image.
//
// Geometry (position, scale, alpha, visibility) is applied at projection
// time and never invalidates the cached image. Only SetPayload does.
type Texture struct {
	payload Payload

	x, y    float64
	scale   float64
	alpha   float64
	visible bool

	image texture.Handle
	err   error
	dirty bool
}

func (*Texture) element() {}

// NewTexture wraps a payload at the origin with unit scale.
func NewTexture(p Payload) *Texture {
	return &Texture{
		payload: p,
		scale:   1,
		alpha:   1,
		visible: true,
		dirty:   true,
	}
}

func (t *Texture) ToElement() Element { return t }

func (t *Texture) X() float64     { return t.x }
func (t *Texture) Y() float64     { return t.y }
func (t *Texture) Scale() float64 { return t.scale }
func (t *Texture) Alpha() float64 { return t.alpha }
func (t *Texture) Visible() bool  { return t.visible }
func (t *Texture) Payload() Payload {
	return t.payload
}

func (t *Texture) SetX(x float64) *Texture {
	t.x = x
	return t
}

func (t *Texture) SetY(y float64) *Texture {
	t.y = y
	return t
}

func (t *Texture) SetPosition(x, y float64) *Texture {
	t.x, t.y = x, y
	return t
}

func (t *Texture) SetScale(s float64) *Texture {
	t.scale = s
	return t
}

// SetAlpha clamps a to [0, 1].
func (t *Texture) SetAlpha(a float64) *Texture {
	switch {
	case a < 0:
		a = 0
	case a > 1:
		a = 1
	}
	t.alpha = a
	return t
}

func (t *Texture) SetVisible(v bool) *Texture {
	t.visible = v
	return t
}

// SetPayload replaces the content and drops the cached image.
func (t *Texture) SetPayload(p Payload) *Texture {
	t.payload = p
	t.Invalidate()
	return t
}

// Invalidate marks the content stale so the next Image call rasterizes again.
func (t *Texture) Invalidate() {
	t.image = nil
	t.err = nil
	t.dirty = true
}

// Stale reports whether the image must be produced before projection.
func (t *Texture) Stale() bool { return t.dirty }

// Cached returns the last produced image, which may be nil.
func (t *Texture) Cached() texture.Handle { return t.image }

// Err returns the last rasterization failure.
func (t *Texture) Err() error { return t.err }

// Image produces the image on first use and returns the cached one after
// that. A failure is kept and returned until the content changes; it is not
// retried.
func (t *Texture) Image(ctx context.Context, env *Env) (texture.Handle, error) {
	if !t.dirty {
		return t.image, t.err
	}
	img, err := t.payload.Rasterize(ctx, env)
	if err != nil {
		t.store(nil, err)
		return nil, err
	}
	h, err := texture.UploadImage(env.Sink, img)
	t.store(h, err)
	return h, err
}

func (t *Texture) store(h texture.Handle, err error) {
	t.image = h
	t.err = err
	t.dirty = false
}
