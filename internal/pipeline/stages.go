package pipeline

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"skin-sight/internal/calibration"
	"skin-sight/internal/pasi"
	"skin-sight/internal/segment"
	"skin-sight/pkg/geometry"

	"gocv.io/x/gocv"
)

// run carries one assessment through its stages.
type run struct {
	width, height int
	region        pasi.BodyRegion

	outline   geometry.Outline
	pixelArea float64
	// measurable is false when the outline encloses no area and pixelArea is
	// the region share of the image instead.
	measurable bool

	area         AreaMeasurement
	color        ColorAnalysis
	calibration  Calibration
	degradations []Degradation
}

func newRun(width, height int, region pasi.BodyRegion) *run {
	return &run{width: width, height: height, region: region}
}

func (r *run) degrade(reason Reason, note string) {
	log.Printf("%s: %s", reason, note)
	r.degradations = append(r.degradations, Degradation{Reason: reason, Note: note})
}

func (r *run) totalPixels() int {
	return r.width * r.height
}

// resolveOutline picks the outline to measure. A missing, short or zero-area
// outline is replaced by a circle of radius min(w,h)/6 centred on the image.
// If even that has no area the affected area becomes the region share.
func (r *run) resolveOutline(outline geometry.Outline) {
	var note string
	switch {
	case len(outline) == 0:
		note = "no outline provided; using synthetic circular estimate"
		r.degrade(ReasonNoOutline, note)
	case !outline.Valid():
		note = fmt.Sprintf("outline has %d points; using synthetic circular estimate", len(outline))
		r.degrade(ReasonDegenerateOutline, note)
	case geometry.PolygonArea(outline) == 0:
		note = "outline encloses no area; using synthetic circular estimate"
		r.degrade(ReasonDegenerateOutline, note)
	default:
		r.outline = append(geometry.Outline(nil), outline...)
		r.pixelArea = geometry.PolygonArea(outline)
		r.measurable = true
	}

	if !r.measurable {
		radius := min(r.width, r.height) / syntheticRadiusDivisor
		r.outline = geometry.CircleOutline(r.width/2, r.height/2, radius, SyntheticStepDegrees)
		r.pixelArea = geometry.PolygonArea(r.outline)
		r.measurable = r.pixelArea > 0
	}

	if !r.measurable {
		note = fmt.Sprintf("%dx%d image too small for a synthetic outline; using %s area estimate",
			r.width, r.height, r.region)
		r.degrade(ReasonDegenerateSyntheticOutline, note)
		r.pixelArea = float64(r.totalPixels()) * regionAreaFraction(r.region)
	}

	pct := 0.0
	if total := r.totalPixels(); total > 0 {
		pct = r.pixelArea / float64(total) * 100
	}
	pct = math.Min(math.Max(pct, 0), 100)

	r.area = AreaMeasurement{
		AffectedPixels: r.pixelArea,
		TotalPixels:    r.totalPixels(),
		AreaPercentage: pct,
		AreaScore:      pasi.AreaScore(pct),
		Degraded:       note != "",
		Note:           note,
	}
}

// resolveCalibration looks for the marker and falls back to the resolution
// estimate when it is absent.
func (r *run) resolveCalibration(img gocv.Mat, detect func(gocv.Mat, calibration.Params) (calibration.Result, error), params calibration.Params) error {
	res, err := detect(img, params)
	if err != nil {
		return fmt.Errorf("calibration: %w", err)
	}
	if !res.Found {
		r.calibration.Result = res
		r.estimateCalibration()
		return nil
	}

	if !r.area.Degraded && r.outline.Contains(res.Center.ToFloat()) {
		log.Printf("calibration marker at (%d,%d) lies inside the lesion outline", res.Center.X, res.Center.Y)
	}

	r.calibration = Calibration{Result: res, Scale: res.ScaleFactor}
	mm2, _ := res.PhysicalArea(r.pixelArea)
	r.setPhysicalArea(mm2)
	return nil
}

// estimateCalibration applies the resolution-tiered scale.
func (r *run) estimateCalibration() {
	scale := calibration.EstimateScaleFactor(r.width, r.height)
	r.calibration.Found = false
	r.calibration.ScaleFactor = 0
	r.calibration.Scale = scale
	r.calibration.Estimated = true
	r.degrade(ReasonNoCalibrationMarker,
		"Area calculated using estimated scale factor due to missing reference sticker")
	r.setPhysicalArea(r.pixelArea * scale)
}

func (r *run) setPhysicalArea(mm2 float64) {
	r.area.PhysicalAreaMM2 = mm2
	r.area.PhysicalAreaCM2 = mm2 / 100
}

// resolveColor classifies the pixels inside the outline. When the outline
// covers no pixels, or none of them match a bucket, the region table is used.
func (r *run) resolveColor(img gocv.Mat, analyze func(gocv.Mat, geometry.Outline, segment.Ranges) (segment.Analysis, error), ranges segment.Ranges) error {
	if !r.measurable {
		r.estimateColor()
		return nil
	}

	analysis, err := analyze(img, r.outline, ranges)
	switch {
	case errors.Is(err, segment.ErrEmptyMask), errors.Is(err, segment.ErrNoClassifiedPixels):
		r.estimateColor()
		r.color.MaskedPixels = analysis.MaskedPixels
		return nil
	case err != nil:
		return fmt.Errorf("color analysis: %w", err)
	}

	red := analysis.Distribution.Percentage(segment.Red)
	r.color = ColorAnalysis{
		Distribution:     analysis.Distribution,
		RedPercentage:    red,
		RedIntensity:     analysis.RedIntensity,
		ErythemaScore:    pasi.ErythemaScore(red),
		MaskedPixels:     analysis.MaskedPixels,
		ClassifiedPixels: analysis.ClassifiedPixels,
	}
	return nil
}

// estimateColor applies the region color table.
func (r *run) estimateColor() {
	note := fmt.Sprintf("no classifiable pixels in outline; using %s color estimate", r.region)
	r.degrade(ReasonEmptyColorMask, note)

	dist := segment.FromPercentages(regionColors[r.region], r.pixelArea)
	red := dist.Percentage(segment.Red)
	r.color = ColorAnalysis{
		Distribution:  dist,
		RedPercentage: red,
		ErythemaScore: pasi.ErythemaScore(red),
		Degraded:      true,
		Note:          note,
	}
}

// compose scores the resolved measurements.
func (r *run) compose() *Assessment {
	scores := pasi.Score(r.area.AreaPercentage, pasi.Symptoms{Erythema: r.color.ErythemaScore}, r.region)

	notes := make([]string, len(r.degradations))
	for i, d := range r.degradations {
		notes[i] = d.Note
	}

	return &Assessment{
		Success:      true,
		Message:      "Analysis completed",
		Width:        r.width,
		Height:       r.height,
		Outline:      r.outline,
		Area:         r.area,
		Color:        r.color,
		Calibration:  r.calibration,
		PASI:         scores,
		Diagnosis:    scores.Diagnose(),
		Degradations: append([]Degradation{}, r.degradations...),
		Note:         strings.Join(notes, "; "),
	}
}
