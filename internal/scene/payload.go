package scene

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/skip2/go-qrcode"

	"github.com/ivlev/xlidst/internal/source"
	"github.com/ivlev/xlidst/internal/typst"
)

// Payload is the content of a Texture.
type Payload interface {
	Rasterize(ctx context.Context, env *Env) (*image.RGBA, error)
}

// Markup is a typst fragment compiled on an auto-sized transparent page.
type Markup struct {
	Source string
}

func (m Markup) Rasterize(ctx context.Context, env *Env) (*image.RGBA, error) {
	return typst.Rasterize(ctx, typst.Wrap(m.Source), env.Sandbox, env.Compiler, env.policy())
}

// Text is plain text set with the default typst style.
type Text struct {
	Text string
}

func (t Text) Rasterize(ctx context.Context, env *Env) (*image.RGBA, error) {
	return Markup{Source: typst.TextSource(t.Text)}.Rasterize(ctx, env)
}

// QRCode encodes Content as a square QR image of Size pixels.
type QRCode struct {
	Content    string
	Level      qrcode.RecoveryLevel
	Size       int
	Foreground color.Color
	Background color.Color
}

func (q QRCode) Rasterize(_ context.Context, env *Env) (*image.RGBA, error) {
	code, err := qrcode.New(q.Content, q.Level)
	if err != nil {
		return nil, fmt.Errorf("qrcode: %w", err)
	}
	if q.Foreground != nil {
		code.ForegroundColor = q.Foreground
	}
	if q.Background != nil {
		code.BackgroundColor = q.Background
	}
	size := q.Size
	if size <= 0 {
		size = 256
	}
	if _, err := env.policy().PixelDensity(float64(size), float64(size)); err != nil {
		return nil, err
	}
	return source.Tight(code.Image(size)), nil
}

// Picture is a PNG or JPEG file shown at its native pixel size.
type Picture struct {
	Path string
}

func (p Picture) Rasterize(_ context.Context, env *Env) (*image.RGBA, error) {
	doc, err := source.NewImageDocument(p.Path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	w, h, err := doc.PageSize(0)
	if err != nil {
		return nil, err
	}
	if _, err := env.policy().PixelDensity(w, h); err != nil {
		return nil, err
	}
	return doc.RenderPage(0, 1)
}

// Typst returns a markup element at the origin.
func Typst(src string) *Texture {
	return NewTexture(Markup{Source: src})
}

// NewText returns a plain text element at the origin.
func NewText(s string) *Texture {
	return NewTexture(Text{Text: s})
}

// NewQRCode returns a QR code element with medium error correction.
func NewQRCode(content string) *Texture {
	return NewTexture(QRCode{Content: content, Level: qrcode.Medium})
}

// NewPicture returns an image file element.
func NewPicture(path string) *Texture {
	return NewTexture(Picture{Path: path})
}
