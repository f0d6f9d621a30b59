// Package calibration locates the circular reference marker placed next to a
// lesion and derives the pixel-to-physical-area scale from it.
package calibration

import (
	"skin-sight/pkg/colorutil"
	"skin-sight/pkg/geometry"
)

// Result holds the outcome of marker detection. A missing marker is a normal
// outcome (Found == false), not an error.
type Result struct {
	Found        bool              `json:"sticker_found"`
	Center       geometry.PointInt `json:"sticker_center"`        // marker center in image coordinates
	RadiusPixels float64           `json:"sticker_radius_pixels"` // minimum enclosing circle radius
	AreaPixels   float64           `json:"sticker_area_pixels"`   // contour area of the marker blob
	AreaMM2      float64           `json:"sticker_area_mm2"`      // known physical area of the marker
	ScaleFactor  float64           `json:"scale_factor"`          // mm² per pixel, 0 when not found
	Candidates   int               `json:"candidates"`            // marker-colored blobs seen
}

// Marker returns the detected marker as a circle, or nil when not found.
func (r Result) Marker() *geometry.Circle {
	if !r.Found {
		return nil
	}
	return &geometry.Circle{Center: r.Center.ToFloat(), Radius: r.RadiusPixels}
}

// PhysicalArea converts a pixel area to mm² using the detected scale.
// It returns false when no marker was found.
func (r Result) PhysicalArea(pixelArea float64) (float64, bool) {
	if !r.Found || r.ScaleFactor <= 0 {
		return 0, false
	}
	return pixelArea * r.ScaleFactor, true
}

// Params holds parameters for marker detection.
// See params.go for defaults.
type Params struct {
	// HSV color box of the marker (H 0-180, S/V 0-255)
	Color colorutil.HSVRange

	// Physical marker diameter in millimetres
	DiameterMM float64
}
