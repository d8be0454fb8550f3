// Package typsttest provides an in-process stand-in for the typst compiler.
package typsttest

import (
	"context"
	"errors"
	"image"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ivlev/xlidst/internal/raster"
	"github.com/ivlev/xlidst/internal/sandbox"
	"github.com/ivlev/xlidst/internal/source"
)

// NoPagesMarker in a source makes the fake produce an empty document.
const NoPagesMarker = "// no-pages"

// ContentSize is the page size used for auto-sized pages.
var ContentSize = [2]float64{120, 40}

var (
	pageDirective = regexp.MustCompile(`#set page\(([^)]*)\)`)
	widthArg      = regexp.MustCompile(`width:\s*([0-9.]+)pt`)
	heightArg     = regexp.MustCompile(`height:\s*([0-9.]+)pt`)
)

// Compiler understands `#set page(width: Npt, height: Npt)` (last directive
// wins, "auto" means ContentSize) and fails on `#panic`.
type Compiler struct {
	mu      sync.Mutex
	sources []string

	renders atomic.Int64
}

func (c *Compiler) Compile(ctx context.Context, world sandbox.World) (source.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.sources = append(c.sources, world.Source)
	c.mu.Unlock()

	if strings.Contains(world.Source, "#panic") {
		return nil, errors.New("error: panicked")
	}
	if strings.Contains(world.Source, NoPagesMarker) {
		return &Document{compiler: c}, nil
	}

	size := ContentSize
	for _, m := range pageDirective.FindAllStringSubmatch(world.Source, -1) {
		if w := widthArg.FindStringSubmatch(m[1]); w != nil {
			size[0], _ = strconv.ParseFloat(w[1], 64)
		} else if strings.Contains(m[1], "width: auto") {
			size[0] = ContentSize[0]
		}
		if h := heightArg.FindStringSubmatch(m[1]); h != nil {
			size[1], _ = strconv.ParseFloat(h[1], 64)
		} else if strings.Contains(m[1], "height: auto") {
			size[1] = ContentSize[1]
		}
	}
	return &Document{compiler: c, pages: [][2]float64{size}}, nil
}

// Sources returns every source compiled so far, in call order.
func (c *Compiler) Sources() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.sources))
	copy(out, c.sources)
	return out
}

// Renders counts RenderPage calls.
func (c *Compiler) Renders() int {
	return int(c.renders.Load())
}

// Document is the fake compiler's output.
type Document struct {
	compiler *Compiler
	pages    [][2]float64
}

func (d *Document) PageCount() int { return len(d.pages) }

func (d *Document) PageSize(index int) (float64, float64, error) {
	if index < 0 || index >= len(d.pages) {
		return 0, 0, errors.New("page out of range")
	}
	return d.pages[index][0], d.pages[index][1], nil
}

// RenderPage fills the page with opaque black.
func (d *Document) RenderPage(index int, density float64) (*image.RGBA, error) {
	w, h, err := d.PageSize(index)
	if err != nil {
		return nil, err
	}
	d.compiler.renders.Add(1)
	pw, ph := raster.PixelSize(w, h, density)
	img := image.NewRGBA(image.Rect(0, 0, pw, ph))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+3] = 0xff
	}
	return img, nil
}

func (d *Document) Close() error { return nil }

// Sandbox returns a sandbox that does not scan system fonts.
func Sandbox() *sandbox.Sandbox {
	sb, err := sandbox.New(sandbox.Options{Root: ".", IgnoreSystemFonts: true})
	if err != nil {
		panic(err)
	}
	return sb
}
