package colorutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		h, s, v float64
	}{
		{"black", 0, 0, 0, 0, 0, 0},
		{"white", 255, 255, 255, 0, 0, 255},
		{"red", 255, 0, 0, 0, 255, 255},
		{"green", 0, 255, 0, 60, 255, 255},
		{"blue", 0, 0, 255, 120, 255, 255},
		{"yellow", 255, 255, 0, 30, 255, 255},
		{"magenta", 255, 0, 255, 150, 255, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := RGBToHSV(tt.r, tt.g, tt.b)
			assert.InDelta(t, tt.h, h, 1e-9)
			assert.InDelta(t, tt.s, s, 1e-9)
			assert.InDelta(t, tt.v, v, 1e-9)
		})
	}
}

func TestRGBToHSV_WrapsNegativeHue(t *testing.T) {
	// Hot pink sits just below 360°, i.e. near the top of the 0-180 scale.
	h, _, _ := RGBToHSV(255, 20, 60)
	assert.Greater(t, h, 170.0)
	assert.LessOrEqual(t, h, 180.0)
}

func TestHSVRangeContains(t *testing.T) {
	green := NewHSVRange(40, 50, 50, 80, 255, 255)
	assert.True(t, green.Contains(HSVOf(color.RGBA{G: 200, A: 255})))
	assert.False(t, green.Contains(HSVOf(color.RGBA{R: 200, A: 255})))
	// Bounds are inclusive.
	assert.True(t, green.Contains(HSV{H: 40, S: 50, V: 50}))
	assert.True(t, green.Contains(HSV{H: 80, S: 255, V: 255}))
	assert.False(t, green.Contains(HSV{H: 80.5, S: 255, V: 255}))
}
