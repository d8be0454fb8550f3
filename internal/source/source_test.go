package source

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSVGSize(t *testing.T) {
	tests := []struct {
		svg  string
		w, h float64
		ok   bool
	}{
		{`<svg xmlns="http://www.w3.org/2000/svg" width="100.5pt" height="40pt" viewBox="0 0 100.5 40">`, 100.5, 40, true},
		{`<svg viewBox="0,0,10000.9,12">`, 10000.9, 12, true},
		{`<svg width="10pt">`, 0, 0, false},
		{`<svg viewBox="0 0 -1 5">`, 0, 0, false},
	}
	for _, tt := range tests {
		w, h, ok := svgSize(tt.svg)
		assert.Equal(t, tt.ok, ok, tt.svg)
		assert.Equal(t, tt.w, w, tt.svg)
		assert.Equal(t, tt.h, h, tt.svg)
	}
}

func TestCeilSizeCoversTruncatedBound(t *testing.T) {
	// a 10000.9 x 20.2 page truncates to 10000 x 20
	w, h := ceilSize(image.Rect(0, 0, 10000, 20))
	assert.Greater(t, w, 10000.9)
	assert.Greater(t, h, 20.2)
}
