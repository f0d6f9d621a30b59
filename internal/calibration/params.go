package calibration

import (
	"math"

	"skin-sight/pkg/colorutil"
)

// DefaultDiameterMM is the diameter of the standard green reference sticker.
const DefaultDiameterMM = 8.0

// DefaultParams returns default marker detection parameters.
// These are tuned for the solid green 8mm sticker.
func DefaultParams() Params {
	return Params{
		// Saturated green; the hue band is wide enough to tolerate
		// warm and cool white balance.
		Color:      colorutil.NewHSVRange(40, 50, 50, 80, 255, 255),
		DiameterMM: DefaultDiameterMM,
	}
}

// WithDiameterMM returns a copy of params for a marker of a different size.
// Non-positive diameters are ignored.
func (p Params) WithDiameterMM(d float64) Params {
	if d > 0 {
		p.DiameterMM = d
	}
	return p
}

// WithHSV returns a copy of params with a custom marker color box.
func (p Params) WithHSV(hMin, hMax, sMin, sMax, vMin, vMax float64) Params {
	p.Color = colorutil.NewHSVRange(hMin, sMin, vMin, hMax, sMax, vMax)
	return p
}

// MarkerAreaMM2 is the known physical area of the marker, π·(d/2)².
func (p Params) MarkerAreaMM2() float64 {
	r := p.DiameterMM / 2
	return math.Pi * r * r
}

// Resolution tiers for the scale estimate used when no marker is visible.
// Higher resolution photos of the same scene cover fewer mm² per pixel.
const (
	HighResolutionPixels   = 2_000_000
	MediumResolutionPixels = 1_000_000

	HighResolutionScale   = 0.012 // mm² per pixel
	MediumResolutionScale = 0.016
	LowResolutionScale    = 0.020
)

// EstimateScaleFactor returns the fallback mm²-per-pixel scale for an image
// of the given dimensions.
func EstimateScaleFactor(width, height int) float64 {
	pixels := width * height
	switch {
	case pixels > HighResolutionPixels:
		return HighResolutionScale
	case pixels > MediumResolutionPixels:
		return MediumResolutionScale
	default:
		return LowResolutionScale
	}
}
