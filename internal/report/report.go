// Package report renders assessments as the JSON response document served to
// clients, and draws the color distribution chart.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"skin-sight/internal/pasi"
	"skin-sight/internal/pipeline"
	"skin-sight/internal/segment"
	"skin-sight/pkg/geometry"
)

// Report is the response document.
type Report struct {
	Success         bool                   `json:"success"`
	AreaAnalysis    AreaAnalysis           `json:"area_analysis"`
	ColorAnalysis   ColorAnalysis          `json:"color_analysis"`
	PASIAssessment  pasi.Assessment        `json:"pasi_assessment"`
	AreaCalculation AreaCalculation        `json:"area_calculation"`
	Diagnosis       pasi.Diagnosis         `json:"diagnosis"`
	Degradations    []pipeline.Degradation `json:"degradations"`
	Note            string                 `json:"note,omitempty"`
	Error           string                 `json:"error,omitempty"`
}

type AreaAnalysis struct {
	AffectedPixels int            `json:"affected_pixels"`
	TotalPixels    int            `json:"total_pixels"`
	AreaPercentage float64        `json:"area_percentage"`
	AreaScore      int            `json:"area_score"`
	LesionDetails  []LesionDetail `json:"lesion_details"`
}

type LesionDetail struct {
	Region     string           `json:"region"`
	Center     geometry.Point2D `json:"center"`
	AreaPixels int              `json:"area_pixels"`
}

type ColorAnalysis struct {
	AverageRednessPercentage float64            `json:"average_redness_percentage"`
	ErythemaScore            int                `json:"erythema_score"`
	Distribution             map[string]float64 `json:"color_distribution"`
	RednessDetails           []RednessDetail    `json:"redness_details"`
}

type RednessDetail struct {
	Region        string  `json:"region"`
	RedPercentage float64 `json:"red_percentage"`
	RedIntensity  float64 `json:"red_intensity"`
}

type AreaCalculation struct {
	StickerFound        bool    `json:"sticker_found"`
	StickerCenter       [2]int  `json:"sticker_center"`
	StickerRadiusPixels float64 `json:"sticker_radius_pixels"`
	StickerAreaPixels   float64 `json:"sticker_area_pixels"`
	StickerAreaMM2      float64 `json:"sticker_area_mm2"`
	ScaleFactor         float64 `json:"scale_factor"`
	ScaleEstimated      bool    `json:"scale_estimated"`
	PsoriasisAreaPixels int     `json:"psoriasis_area_pixels"`
	PsoriasisAreaMM2    float64 `json:"psoriasis_area_mm2"`
	PsoriasisAreaCM2    float64 `json:"psoriasis_area_cm2"`
}

// FromAssessment builds the response document. Percentages are rounded to one
// decimal and physical areas to two, as clients expect.
func FromAssessment(a *pipeline.Assessment) Report {
	b := a.Outline.Bounds()
	region := fmt.Sprintf("x:%d,y:%d,w:%d,h:%d", b.X, b.Y, b.Width, b.Height)
	affected := int(a.Area.AffectedPixels)

	r := Report{
		Success: a.Success,
		AreaAnalysis: AreaAnalysis{
			AffectedPixels: affected,
			TotalPixels:    a.Area.TotalPixels,
			AreaPercentage: pasi.Round(a.Area.AreaPercentage, 1),
			AreaScore:      a.Area.AreaScore,
			LesionDetails:  []LesionDetail{},
		},
		ColorAnalysis: ColorAnalysis{
			AverageRednessPercentage: pasi.Round(a.Color.RedPercentage, 1),
			ErythemaScore:            a.Color.ErythemaScore,
			Distribution:             make(map[string]float64, len(segment.AllBuckets)),
			RednessDetails:           []RednessDetail{},
		},
		PASIAssessment: a.PASI,
		AreaCalculation: AreaCalculation{
			StickerFound:        a.Calibration.Found,
			StickerCenter:       [2]int{a.Calibration.Center.X, a.Calibration.Center.Y},
			StickerRadiusPixels: a.Calibration.RadiusPixels,
			StickerAreaPixels:   a.Calibration.AreaPixels,
			StickerAreaMM2:      pasi.Round(a.Calibration.AreaMM2, 2),
			ScaleFactor:         a.Calibration.Scale,
			ScaleEstimated:      a.Calibration.Estimated,
			PsoriasisAreaPixels: affected,
			PsoriasisAreaMM2:    pasi.Round(a.Area.PhysicalAreaMM2, 2),
			PsoriasisAreaCM2:    pasi.Round(a.Area.PhysicalAreaCM2, 2),
		},
		Diagnosis:    a.Diagnosis,
		Degradations: a.Degradations,
		Note:         a.Note,
	}
	if r.Degradations == nil {
		r.Degradations = []pipeline.Degradation{}
	}

	for _, bucket := range segment.AllBuckets {
		r.ColorAnalysis.Distribution[string(bucket)] = pasi.Round(a.Color.Distribution.Percentage(bucket), 1)
	}

	if !a.Success {
		r.Error = a.Message
		return r
	}

	r.AreaAnalysis.LesionDetails = append(r.AreaAnalysis.LesionDetails, LesionDetail{
		Region:     region,
		Center:     a.Outline.Centroid(),
		AreaPixels: affected,
	})
	r.ColorAnalysis.RednessDetails = append(r.ColorAnalysis.RednessDetails, RednessDetail{
		Region:        region,
		RedPercentage: a.Color.RedPercentage,
		RedIntensity:  a.Color.RedIntensity,
	})
	return r
}

// WriteJSON encodes the report to w.
func WriteJSON(w io.Writer, r Report, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
