package source

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	xdraw "golang.org/x/image/draw"
)

// ImageDocument presents one raster file as a single-page document where one
// pixel is one point.
type ImageDocument struct {
	path string
	img  image.Image
}

func NewImageDocument(path string) (*ImageDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &ImageDocument{path: path, img: img}, nil
}

// NewImageDocumentFrom wraps an already decoded image.
func NewImageDocumentFrom(img image.Image) *ImageDocument {
	return &ImageDocument{img: img}
}

// DecodeImage decodes an encoded raster held in memory. Alpha is kept as is.
func DecodeImage(data []byte) (*ImageDocument, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return NewImageDocumentFrom(img), nil
}

func (s *ImageDocument) PageCount() int {
	return 1
}

func (s *ImageDocument) PageSize(index int) (float64, float64, error) {
	if index != 0 {
		return 0, 0, fmt.Errorf("page %d out of range", index)
	}
	b := s.img.Bounds()
	return float64(b.Dx()), float64(b.Dy()), nil
}

func (s *ImageDocument) RenderPage(index int, density float64) (*image.RGBA, error) {
	if index != 0 {
		return nil, fmt.Errorf("page %d out of range", index)
	}
	if density == 1 {
		return Tight(s.img), nil
	}
	b := s.img.Bounds()
	w := int(float64(b.Dx())*density + 0.5)
	h := int(float64(b.Dy())*density + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), s.img, b, xdraw.Src, nil)
	return dst, nil
}

func (s *ImageDocument) Close() error {
	return nil
}
