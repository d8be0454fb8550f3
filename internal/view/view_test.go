package view

import (
	"context"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanema/gween/ease"

	"github.com/ivlev/xlidst/internal/animation"
	"github.com/ivlev/xlidst/internal/scene"
	"github.com/ivlev/xlidst/internal/texture"
	"github.com/ivlev/xlidst/internal/typst/typsttest"
)

func testEnv() *scene.Env {
	return &scene.Env{
		Sandbox:  typsttest.Sandbox(),
		Compiler: &typsttest.Compiler{},
		Sink:     &texture.MemorySink{},
		Workers:  2,
	}
}

func TestProjectElementCounts(t *testing.T) {
	show := scene.NewSlideshow()
	show.Slide()
	show.Slide()
	show.Add(scene.Typst("$f(x)$"))
	show.Slide()
	show.Add(scene.Typst("$f(x) = x$"))
	show.Add(scene.Typst("$f'(x) = 1$"))

	views := Project(context.Background(), show, testEnv())
	require.Len(t, views, 3)
	assert.Len(t, views[0].Elements, 0)
	assert.Len(t, views[1].Elements, 1)
	assert.Len(t, views[2].Elements, 2)
	for _, v := range views {
		assert.Equal(t, scene.DefaultBackground, v.Background)
	}
}

func TestProjectPositionsIndependentOfRasterOrder(t *testing.T) {
	env := testEnv()
	show := scene.NewSlideshow()
	show.Slide()
	show.Add(scene.Typst("a").SetPosition(0, 0))
	show.Add(scene.Typst("b").SetPosition(0, 100))

	// rasterize the second element first
	second, _ := show.Slides()[0].Texture(2)
	_, err := second.Image(context.Background(), env)
	require.NoError(t, err)

	vs := Project(context.Background(), show, env)[0]
	require.Len(t, vs.Elements, 2)
	assert.Equal(t, 0.0, vs.Elements[0].X)
	assert.Equal(t, 0.0, vs.Elements[0].Y)
	assert.Equal(t, 0.0, vs.Elements[1].X)
	assert.Equal(t, 100.0, vs.Elements[1].Y)
	assert.NotNil(t, vs.Elements[0].Texture)
	assert.NotNil(t, vs.Elements[1].Texture)
}

func TestProjectFailureIsBlank(t *testing.T) {
	show := scene.NewSlideshow()
	show.Slide()
	show.Add(scene.Typst(`#panic("bad")`).SetPosition(3, 4))
	show.Add(scene.Typst("#set page(width: 20000pt)\nwide"))

	vs := Project(context.Background(), show, testEnv())[0]
	require.Len(t, vs.Elements, 2)
	assert.Nil(t, vs.Elements[0].Texture)
	assert.Equal(t, 3.0, vs.Elements[0].X)
	assert.Nil(t, vs.Elements[1].Texture)
}

func TestProjectReflectsAnimation(t *testing.T) {
	env := testEnv()
	show := scene.NewSlideshow()
	s := show.Slide()
	s.SetBackground(color.RGBA{B: 255, A: 255})
	ref, _ := show.Add(scene.Typst("x"))
	hidden, _ := show.Add(scene.Typst("later").SetVisible(false))
	require.NoError(t, show.Animate(animation.Move(ref, 0, 100, 1, ease.Linear)))
	require.NoError(t, show.Animate(animation.Appear(hidden, 0.5)))

	before := ProjectSlide(context.Background(), s, env)
	require.Len(t, before.Elements, 1)
	assert.Equal(t, 0.0, before.Elements[0].Y)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, before.Background)

	s.Tick(1)
	after := ProjectSlide(context.Background(), s, env)
	require.Len(t, after.Elements, 2)
	assert.Equal(t, 100.0, after.Elements[0].Y)
	assert.Same(t, before.Elements[0].Texture, after.Elements[0].Texture)
}
