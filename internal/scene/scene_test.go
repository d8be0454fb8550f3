package scene

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/xlidst/internal/raster"
	"github.com/ivlev/xlidst/internal/texture"
	"github.com/ivlev/xlidst/internal/typst"
	"github.com/ivlev/xlidst/internal/typst/typsttest"
)

func testEnv(c *typsttest.Compiler) (*Env, *texture.MemorySink) {
	sink := &texture.MemorySink{}
	return &Env{
		Sandbox:  typsttest.Sandbox(),
		Compiler: c,
		Sink:     sink,
		Workers:  4,
	}, sink
}

func requireRoot(t *testing.T, s *Slide) {
	t.Helper()
	require.NotZero(t, s.Len())
	_, ok := s.Elements()[0].(*Root)
	require.True(t, ok, "element 0 must be the Root")
}

func TestAddBeforeSlideFails(t *testing.T) {
	show := NewSlideshow()
	_, err := show.Add(Typst("= A"))
	assert.ErrorIs(t, err, ErrUnopenedSlide)
	assert.ErrorIs(t, show.Animate(nil), ErrUnopenedSlide)
	assert.ErrorIs(t, show.Validate(), ErrEmptyShow)
}

func TestAddTargetsLatestSlide(t *testing.T) {
	show := NewSlideshow()
	first := show.Slide()
	requireRoot(t, first)

	a := Typst("a")
	ref, err := show.Add(a)
	require.NoError(t, err)
	assert.Equal(t, ElementRef(1), ref)

	second := show.Slide()
	b, c := Typst("b"), NewText("c")
	_, err = show.Add(b)
	require.NoError(t, err)
	ref, err = show.Add(c)
	require.NoError(t, err)
	assert.Equal(t, ElementRef(2), ref)

	requireRoot(t, first)
	requireRoot(t, second)
	assert.Equal(t, []*Texture{a}, first.Textures())
	assert.Equal(t, []*Texture{b, c}, second.Textures())
	assert.Equal(t, 2, show.Len())
	assert.NoError(t, show.Validate())
}

func TestRootHasNoChildren(t *testing.T) {
	s := NewSlide()
	requireRoot(t, s)
	assert.Empty(t, s.Elements()[0].(*Root).Children())
	for i := 0; i < 10; i++ {
		s.Add(Typst("x"))
	}
	requireRoot(t, s)
	assert.Equal(t, 11, s.Len())
}

func TestSlideLookup(t *testing.T) {
	s := NewSlide()
	ref := s.Add(Typst("x").SetPosition(3, 4))

	tex, ok := s.Texture(ref)
	require.True(t, ok)
	assert.Equal(t, 3.0, tex.X())
	assert.Equal(t, 4.0, tex.Y())

	_, ok = s.Texture(0)
	assert.False(t, ok, "the Root is not a texture")
	_, ok = s.Texture(5)
	assert.False(t, ok)
	_, ok = s.Element(-1)
	assert.False(t, ok)
}

func TestShowBackground(t *testing.T) {
	show := NewSlideshow()
	a := show.Slide()
	b := show.Slide()
	b.SetBackground(color.RGBA{R: 1, A: 255})

	purple := color.RGBA{R: 128, B: 128, A: 255}
	show.SetBackground(purple)
	assert.Equal(t, purple, a.Background())
	assert.Equal(t, color.RGBA{R: 1, A: 255}, b.Background())
	assert.Equal(t, purple, show.Slide().Background())
}

func TestTextureGeometry(t *testing.T) {
	tex := Typst("x")
	assert.Equal(t, 1.0, tex.Scale())
	assert.Equal(t, 1.0, tex.Alpha())
	assert.True(t, tex.Visible())

	tex.SetX(10).SetY(-5).SetScale(2).SetAlpha(3)
	assert.Equal(t, 10.0, tex.X())
	assert.Equal(t, -5.0, tex.Y())
	assert.Equal(t, 2.0, tex.Scale())
	assert.Equal(t, 1.0, tex.Alpha())
	tex.SetAlpha(-1)
	assert.Equal(t, 0.0, tex.Alpha())
}

func TestImageIsCached(t *testing.T) {
	c := &typsttest.Compiler{}
	env, sink := testEnv(c)
	tex := Typst("#set page(width: 100pt, height: 100pt)\n= NAPS")

	h1, err := tex.Image(context.Background(), env)
	require.NoError(t, err)
	h2, err := tex.Image(context.Background(), env)
	require.NoError(t, err)
	assert.Same(t, h1.(*image.RGBA), h2.(*image.RGBA))
	assert.Equal(t, 1, c.Renders())
	assert.Equal(t, 1, sink.Uploads)

	// placement never touches the image
	tex.SetY(100).SetX(20).SetScale(3)
	assert.False(t, tex.Stale())
	h3, _ := tex.Image(context.Background(), env)
	assert.Same(t, h1.(*image.RGBA), h3.(*image.RGBA))
	assert.Equal(t, 1, c.Renders())

	// content does
	tex.SetPayload(Markup{Source: "#set page(width: 50pt, height: 50pt)\n= other"})
	assert.True(t, tex.Stale())
	assert.Nil(t, tex.Cached())
	h4, err := tex.Image(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Renders())
	assert.Equal(t, image.Rect(0, 0, 250, 250), h4.Bounds())
}

func TestImageFailureIsKept(t *testing.T) {
	c := &typsttest.Compiler{}
	env, _ := testEnv(c)
	tex := Typst(`#panic("x")`)

	h, err := tex.Image(context.Background(), env)
	assert.Nil(t, h)
	var ce *typst.CompileError
	require.ErrorAs(t, err, &ce)

	// no retry
	_, err = tex.Image(context.Background(), env)
	assert.Error(t, err)
	assert.Len(t, c.Sources(), 1)
	assert.Equal(t, err, tex.Err())
}

func TestMaterialize(t *testing.T) {
	c := &typsttest.Compiler{}
	env, sink := testEnv(c)

	show := NewSlideshow()
	show.Slide()
	show.Slide()
	ok1, _ := show.Add(Typst("#set page(width: 100pt, height: 100pt)\n= NAPS"))
	bad, _ := show.Add(Typst(`#panic("broken")`))
	show.Slide()
	big, _ := show.Add(Typst("#set page(width: 20000pt, height: 10pt)\nwide"))
	ok2, _ := show.Add(NewText("Hemo munk"))

	rep, err := show.Materialize(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, Report{Rasterized: 2, Failed: 2}, rep)
	assert.Equal(t, 2, sink.Uploads)

	s1, s2 := show.Slides()[1], show.Slides()[2]
	tex, _ := s1.Texture(ok1)
	assert.NotNil(t, tex.Cached())
	tex, _ = s1.Texture(bad)
	assert.Nil(t, tex.Cached())
	assert.Error(t, tex.Err())

	tex, _ = s2.Texture(big)
	var tooBig *raster.TooBigError
	require.ErrorAs(t, tex.Err(), &tooBig)
	assert.Equal(t, raster.AxisX, tooBig.Axis)

	tex, _ = s2.Texture(ok2)
	assert.NotNil(t, tex.Cached())

	// nothing stale, nothing redone
	rep, err = show.Materialize(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, Report{}, rep)
	assert.Equal(t, 2, c.Renders())
}

func TestMaterializeCanceled(t *testing.T) {
	env, _ := testEnv(&typsttest.Compiler{})
	show := NewSlideshow()
	show.Slide()
	show.Add(Typst("x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := show.Materialize(ctx, env)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQRCodePayload(t *testing.T) {
	env, _ := testEnv(&typsttest.Compiler{})
	tex := NewQRCode("https://example.com")

	h, err := tex.Image(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 256, 256), h.Bounds())
}

func TestPicturePayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 30, 10))))
	require.NoError(t, f.Close())

	env, _ := testEnv(&typsttest.Compiler{})
	h, err := NewPicture(path).Image(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 30, 10), h.Bounds())

	_, err = NewPicture(filepath.Join(t.TempDir(), "nope.png")).Image(context.Background(), env)
	assert.Error(t, err)
}

type stepAnim struct {
	ref     ElementRef
	applied int
	limit   int
}

func (a *stepAnim) Apply(s *Slide, dt float64) {
	a.applied++
	if tex, ok := s.Texture(a.ref); ok {
		tex.SetX(tex.X() + dt)
	}
}

func (a *stepAnim) Done() bool { return a.applied >= a.limit }
func (a *stepAnim) Reset()     { a.applied = 0 }

func TestTickAndReset(t *testing.T) {
	show := NewSlideshow()
	s := show.Slide()
	ref, _ := show.Add(Typst("x").SetX(1))
	first := &stepAnim{ref: ref, limit: 2}
	second := &stepAnim{ref: ref, limit: 1}
	require.NoError(t, show.Animate(first))
	s.Animate(second)

	assert.True(t, s.Tick(0.5))
	assert.Equal(t, 1, first.applied)
	assert.Equal(t, 1, second.applied)
	assert.True(t, s.Animating())

	assert.True(t, s.Tick(0.5))
	assert.Equal(t, 2, first.applied)
	assert.Equal(t, 1, second.applied, "finished animations are skipped")
	assert.False(t, s.Animating())
	assert.False(t, s.Tick(0.5))

	tex, _ := s.Texture(ref)
	assert.InDelta(t, 2.5, tex.X(), 1e-9)

	s.Reset()
	assert.Equal(t, 1.0, tex.X())
	assert.True(t, s.Animating())
}
