package source

import (
	"fmt"
	"image"
	"image/draw"
	"regexp"
	"strconv"
	"sync"

	"github.com/gen2brain/go-fitz"
)

// pointsPerInch converts a density in pixels per point to DPI.
const pointsPerInch = 72.0

// Document is a compiled, paged document. Sizes are in points.
type Document interface {
	PageCount() int
	PageSize(index int) (width, height float64, err error)
	RenderPage(index int, density float64) (*image.RGBA, error)
	Close() error
}

// FitzDocument renders PDF bytes through MuPDF.
type FitzDocument struct {
	mu  sync.Mutex
	doc *fitz.Document
}

func NewFitzDocument(pdf []byte) (*FitzDocument, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, err
	}
	return &FitzDocument{doc: doc}, nil
}

func (f *FitzDocument) PageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc.NumPage()
}

// PageSize reports the page extent in points. MuPDF's integer bound
// truncates fractional points, so the exact extent is read from the page's
// SVG header, falling back to the bound rounded up.
func (f *FitzDocument) PageSize(index int) (float64, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	if svg, err := f.doc.SVG(index); err == nil {
		if w, h, ok := svgSize(svg); ok {
			return w, h, nil
		}
	}
	w, h := ceilSize(rect)
	return w, h, nil
}

// RenderPage rasterizes a page at density pixels per point onto an opaque
// white pixmap.
func (f *FitzDocument) RenderPage(index int, density float64) (*image.RGBA, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	img, err := f.doc.ImageDPI(index, density*pointsPerInch)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", index, err)
	}
	return Tight(img), nil
}

func (f *FitzDocument) Close() error {
	return f.doc.Close()
}

var svgViewBox = regexp.MustCompile(`viewBox="\s*[-+0-9.eE]+[\s,]+[-+0-9.eE]+[\s,]+([-+0-9.eE]+)[\s,]+([-+0-9.eE]+)\s*"`)

// svgSize reads width and height from the first viewBox in svg.
func svgSize(svg string) (float64, float64, bool) {
	m := svgViewBox.FindStringSubmatch(svg)
	if m == nil {
		return 0, 0, false
	}
	w, err := strconv.ParseFloat(m[1], 64)
	if err != nil || w < 0 {
		return 0, 0, false
	}
	h, err := strconv.ParseFloat(m[2], 64)
	if err != nil || h < 0 {
		return 0, 0, false
	}
	return w, h, true
}

// ceilSize widens a bound whose edges were truncated to whole points so that
// it is never smaller than the page it came from. Pages are anchored at the
// origin, so one point per axis covers the lost fraction.
func ceilSize(r image.Rectangle) (float64, float64) {
	return float64(r.Dx() + 1), float64(r.Dy() + 1)
}

// Tight returns img as an RGBA buffer with zero origin and stride = 4*width,
// copying only when needed.
func Tight(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if ok && rgba.Stride == bounds.Dx()*4 && rgba.Rect.Min.X == 0 && rgba.Rect.Min.Y == 0 {
		return rgba
	}
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)
	return out
}
