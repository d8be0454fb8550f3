// Package typst compiles markup fragments into displayable images.
package typst

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/ivlev/xlidst/internal/raster"
	"github.com/ivlev/xlidst/internal/sandbox"
	"github.com/ivlev/xlidst/internal/texture"
)

// PagePrelude sizes the page to its content with a transparent background.
// Directives later in the source override it.
const PagePrelude = "#set page(width: auto, height: auto, fill: none)\n"

// ErrNoPages is returned when a document compiles to zero pages.
var ErrNoPages = errors.New("typst: document has no pages")

// CompileError wraps a failed compilation.
type CompileError struct {
	Err         error
	Diagnostics string
}

func (e *CompileError) Error() string {
	if e.Diagnostics != "" {
		return fmt.Sprintf("typst: compile failed: %v: %s", e.Err, e.Diagnostics)
	}
	return fmt.Sprintf("typst: compile failed: %v", e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Wrap prefixes src with PagePrelude.
func Wrap(src string) string {
	return PagePrelude + src
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	`[`, `\[`,
	`]`, `\]`,
	`#`, `\#`,
	`$`, `\$`,
	`*`, `\*`,
	`_`, `\_`,
	`<`, `\<`,
	`@`, `\@`,
	"`", "\\`",
)

// TextSource returns markup that typesets s literally.
func TextSource(s string) string {
	return fmt.Sprintf("#text([%s])", textEscaper.Replace(s))
}

// Rasterize compiles src and renders its first page. The page size is
// checked against the policy before anything is rasterized.
func Rasterize(ctx context.Context, src string, sb *sandbox.Sandbox, c Compiler, policy raster.Policy) (*image.RGBA, error) {
	world := sb.WithSource(src)

	doc, err := c.Compile(ctx, world)
	if err != nil {
		var ce *CompileError
		if errors.As(err, &ce) {
			return nil, err
		}
		return nil, &CompileError{Err: err}
	}
	defer doc.Close()

	if doc.PageCount() == 0 {
		return nil, ErrNoPages
	}

	w, h, err := doc.PageSize(0)
	if err != nil {
		return nil, &CompileError{Err: fmt.Errorf("page size: %w", err)}
	}

	density, err := policy.PixelDensity(w, h)
	if err != nil {
		return nil, err
	}

	img, err := doc.RenderPage(0, density)
	if err != nil {
		return nil, fmt.Errorf("typst: render: %w", err)
	}
	return img, nil
}

// CompileToImage runs Rasterize with the default policy and uploads the
// result to sink.
func CompileToImage(ctx context.Context, src string, sb *sandbox.Sandbox, c Compiler, sink texture.Sink) (texture.Handle, error) {
	img, err := Rasterize(ctx, Wrap(src), sb, c, raster.DefaultPolicy)
	if err != nil {
		return nil, err
	}
	return texture.UploadImage(sink, img)
}
