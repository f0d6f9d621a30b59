// Package pipeline turns an image and an optional lesion outline into a
// complete PASI assessment. Missing or unusable inputs never abort a run:
// each stage substitutes an estimate and records why.
package pipeline

import (
	"skin-sight/internal/calibration"
	"skin-sight/internal/pasi"
	"skin-sight/internal/segment"
	"skin-sight/pkg/geometry"
)

// Reason names the input a stage had to substitute.
type Reason string

const (
	ReasonNoOutline                  Reason = "no_outline"
	ReasonDegenerateOutline          Reason = "degenerate_outline"
	ReasonDegenerateSyntheticOutline Reason = "degenerate_synthetic_outline"
	ReasonNoCalibrationMarker        Reason = "no_calibration_marker"
	ReasonEmptyColorMask             Reason = "empty_color_mask"
	ReasonComputationFailure         Reason = "computation_failure"
)

// Degradation records one substitution made during a run.
type Degradation struct {
	Reason Reason `json:"reason"`
	Note   string `json:"note"`
}

// AreaMeasurement is the lesion area in pixels and, via the scale, in mm².
type AreaMeasurement struct {
	AffectedPixels  float64 `json:"affected_pixels"`
	TotalPixels     int     `json:"total_pixels"`
	AreaPercentage  float64 `json:"area_percentage"` // clamped to [0,100]
	AreaScore       int     `json:"area_score"`
	PhysicalAreaMM2 float64 `json:"physical_area_mm2"`
	PhysicalAreaCM2 float64 `json:"physical_area_cm2"`
	Degraded        bool    `json:"degraded"`
	Note            string  `json:"note,omitempty"`
}

// ColorAnalysis is the color distribution inside the outline and the
// erythema score derived from it.
type ColorAnalysis struct {
	Distribution     segment.Distribution `json:"distribution"`
	RedPercentage    float64              `json:"red_percentage"`
	RedIntensity     float64              `json:"red_intensity"`
	ErythemaScore    int                  `json:"erythema_score"`
	MaskedPixels     int                  `json:"masked_pixels"`
	ClassifiedPixels int                  `json:"classified_pixels"`
	Degraded         bool                 `json:"degraded"`
	Note             string               `json:"note,omitempty"`
}

// Calibration is the marker detection result plus the scale actually used.
// Scale equals ScaleFactor when the marker was found and the resolution
// estimate otherwise.
type Calibration struct {
	calibration.Result
	Scale     float64 `json:"effective_scale_factor"`
	Estimated bool    `json:"scale_estimated"`
}

// Assessment is the complete output of one run.
type Assessment struct {
	Success      bool             `json:"success"`
	Message      string           `json:"message"`
	Width        int              `json:"width"`
	Height       int              `json:"height"`
	Outline      geometry.Outline `json:"outline"` // the outline actually measured
	Area         AreaMeasurement  `json:"area"`
	Color        ColorAnalysis    `json:"color"`
	Calibration  Calibration      `json:"calibration"`
	PASI         pasi.Assessment  `json:"pasi"`
	Diagnosis    pasi.Diagnosis   `json:"diagnosis"`
	Degradations []Degradation    `json:"degradations"`
	Note         string           `json:"note,omitempty"`
}

// Degraded reports whether any stage substituted an estimate.
func (a *Assessment) Degraded() bool {
	return len(a.Degradations) > 0
}

// HasDegradation reports whether the given reason was recorded.
func (a *Assessment) HasDegradation(reason Reason) bool {
	for _, d := range a.Degradations {
		if d.Reason == reason {
			return true
		}
	}
	return false
}

// regionColors is the color distribution assumed for a body region when the
// outline yields no usable pixels.
var regionColors = map[pasi.BodyRegion]map[segment.Bucket]float64{
	pasi.Head:       {segment.Red: 45, segment.Yellow: 30, segment.Black: 15, segment.Pink: 10},
	pasi.UpperLimbs: {segment.Red: 40, segment.Yellow: 35, segment.Black: 15, segment.Pink: 10},
	pasi.Trunk:      {segment.Red: 50, segment.Yellow: 25, segment.Black: 15, segment.Pink: 10},
	pasi.LowerLimbs: {segment.Red: 35, segment.Yellow: 40, segment.Black: 20, segment.Pink: 5},
}

// regionAreaFraction is the share of the image assumed affected when no
// outline with area can be built: 3% plus 4% of the region weight.
func regionAreaFraction(region pasi.BodyRegion) float64 {
	return 0.03 + region.Weight()*0.04
}
