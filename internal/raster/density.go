package raster

import (
	"fmt"
	"math"
)

const (
	// DesiredResolution is the target edge length, in pixels, of a square page.
	// Non-square pages keep roughly the same total pixel budget.
	DesiredResolution = 1000.0
	// MaxSize is the hard ceiling for either page dimension, in points.
	MaxSize = 10000.0
	// MaxPixelsPerPoint caps the density of small pages.
	MaxPixelsPerPoint = 5.0
)

// Axis names a page dimension.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return fmt.Sprintf("Axis(%d)", uint8(a))
	}
}

// TooBigError reports a page dimension above the size ceiling.
type TooBigError struct {
	Axis Axis
	Size float64
}

func (e *TooBigError) Error() string {
	return fmt.Sprintf("page too big: %s = %.2fpt exceeds %.0fpt", e.Axis, e.Size, MaxSize)
}

// Policy holds the numbers behind PixelDensity.
type Policy struct {
	DesiredResolution float64
	MaxSize           float64
	MaxPixelsPerPoint float64
}

// DefaultPolicy uses the package constants.
var DefaultPolicy = Policy{
	DesiredResolution: DesiredResolution,
	MaxSize:           MaxSize,
	MaxPixelsPerPoint: MaxPixelsPerPoint,
}

// PixelDensity returns pixels per point for a page of the given size using
// DefaultPolicy.
func PixelDensity(width, height float64) (float64, error) {
	return DefaultPolicy.PixelDensity(width, height)
}

// PixelDensity returns pixels per point for a page of width x height points.
// The X axis is checked before the Y axis.
func (p Policy) PixelDensity(width, height float64) (float64, error) {
	if width > p.MaxSize {
		return 0, &TooBigError{Axis: AxisX, Size: width}
	}
	if height > p.MaxSize {
		return 0, &TooBigError{Axis: AxisY, Size: height}
	}

	area := width * height
	nominal := p.DesiredResolution / math.Sqrt(area)
	// a zero or NaN area yields +Inf or NaN; both fall back to the cap
	if math.IsNaN(nominal) || nominal > p.MaxPixelsPerPoint {
		return p.MaxPixelsPerPoint, nil
	}
	return nominal, nil
}

// PixelSize returns the raster dimensions of a page at the given density.
func PixelSize(width, height, density float64) (int, int) {
	w := int(math.Ceil(width * density))
	h := int(math.Ceil(height * density))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
