// Package colorutil provides shared color utilities: HSV conversion in the
// OpenCV 8-bit convention, HSV threshold ranges, and overlay colors.
package colorutil

import (
	"image/color"
	"math"
)

// Overlay colors used when annotating assessments.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

// RGBToHSV converts RGB (0-255) to HSV (OpenCV convention: H 0-180, S 0-255, V 0-255).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 255.0

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 255.0
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	h = h / 2 // OpenCV's 0-180 range

	return h, s, v
}

// HSV is a color in the OpenCV 8-bit HSV convention.
type HSV struct {
	H, S, V float64
}

// HSVOf converts an image color to HSV, ignoring alpha.
func HSVOf(c color.Color) HSV {
	r, g, b, _ := c.RGBA()
	h, s, v := RGBToHSV(float64(r>>8), float64(g>>8), float64(b>>8))
	return HSV{H: h, S: s, V: v}
}

// HSVRange is an inclusive box in HSV space, matching cv::inRange semantics.
type HSVRange struct {
	Lower HSV `yaml:"lower" json:"lower"`
	Upper HSV `yaml:"upper" json:"upper"`
}

// NewHSVRange builds a range from lower and upper bounds.
func NewHSVRange(hMin, sMin, vMin, hMax, sMax, vMax float64) HSVRange {
	return HSVRange{
		Lower: HSV{H: hMin, S: sMin, V: vMin},
		Upper: HSV{H: hMax, S: sMax, V: vMax},
	}
}

// Contains reports whether c falls inside the range on all three channels.
func (r HSVRange) Contains(c HSV) bool {
	return c.H >= r.Lower.H && c.H <= r.Upper.H &&
		c.S >= r.Lower.S && c.S <= r.Upper.S &&
		c.V >= r.Lower.V && c.V <= r.Upper.V
}
