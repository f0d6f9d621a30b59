package pipeline

import (
	"errors"
	"fmt"
	"image"
	"log"
	"strings"

	"skin-sight/internal/calibration"
	"skin-sight/internal/imageio"
	"skin-sight/internal/pasi"
	"skin-sight/internal/segment"
	"skin-sight/pkg/geometry"

	"gocv.io/x/gocv"
)

var (
	// ErrInvalidImage is returned for an empty or non-BGR input image.
	ErrInvalidImage = imageio.ErrInvalidImage

	// ErrComputationFailure wraps a fault recovered from an image stage.
	ErrComputationFailure = errors.New("computation failure")
)

const (
	// SyntheticStepDegrees is the angular spacing of synthetic outline points.
	SyntheticStepDegrees = 10

	// syntheticRadiusDivisor sets the synthetic radius to min(w,h)/6.
	syntheticRadiusDivisor = 6
)

// Pipeline runs assessments. It holds only read-only parameters and is safe
// for concurrent use on distinct inputs.
type Pipeline struct {
	params calibration.Params
	ranges segment.Ranges

	// image stages, replaceable in tests
	detect  func(gocv.Mat, calibration.Params) (calibration.Result, error)
	analyze func(gocv.Mat, geometry.Outline, segment.Ranges) (segment.Analysis, error)
}

// New creates a pipeline using the given marker parameters and the default
// color buckets.
func New(params calibration.Params) *Pipeline {
	return &Pipeline{
		params:  params,
		ranges:  segment.DefaultRanges(),
		detect:  calibration.Detect,
		analyze: segment.Analyze,
	}
}

// AssessImage converts a Go image and assesses it.
func (p *Pipeline) AssessImage(img image.Image, outline geometry.Outline, region string) (*Assessment, error) {
	mat, err := imageio.FromImage(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	return p.Assess(mat, outline, region)
}

// Assess measures and scores the lesion described by outline in img. The
// outline may be nil, short or self-intersecting; region may be empty or
// unknown (trunk is used).
//
// The only error is ErrInvalidImage. Every other problem is absorbed: the
// returned assessment lists each substitution in Degradations, and a run
// that could not be completed at all comes back with Success == false.
// img is not modified.
func (p *Pipeline) Assess(img gocv.Mat, outline geometry.Outline, region string) (*Assessment, error) {
	if err := imageio.Validate(img); err != nil {
		return nil, err
	}

	bodyRegion := pasi.ParseBodyRegion(region)
	if name := strings.TrimSpace(region); name != "" && string(bodyRegion) != strings.ToLower(name) {
		log.Printf("unknown body region %q, using %s", region, bodyRegion)
	}

	a, err := p.measure(img, outline, bodyRegion)
	if err == nil {
		return a, nil
	}

	log.Printf("assessment failed, falling back to estimates: %v", err)
	a, estErr := estimate(img.Cols(), img.Rows(), outline, bodyRegion, err)
	if estErr == nil {
		return a, nil
	}

	log.Printf("estimate failed: %v", estErr)
	return Failed(bodyRegion, err), nil
}

// measure runs every stage against the image. A panic from any stage is
// returned as ErrComputationFailure.
func (p *Pipeline) measure(img gocv.Mat, outline geometry.Outline, region pasi.BodyRegion) (a *Assessment, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			a, err = nil, fmt.Errorf("%w: %v", ErrComputationFailure, rec)
		}
	}()

	r := newRun(img.Cols(), img.Rows(), region)
	r.resolveOutline(outline)
	if err := r.resolveCalibration(img, p.detect, p.params); err != nil {
		return nil, err
	}
	if err := r.resolveColor(img, p.analyze, p.ranges); err != nil {
		return nil, err
	}
	return r.compose(), nil
}

// estimate rebuilds an assessment without touching the image: outline area
// from the shoelace formula (or the region share), the resolution scale and
// the region color table.
func estimate(width, height int, outline geometry.Outline, region pasi.BodyRegion, cause error) (a *Assessment, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			a, err = nil, fmt.Errorf("%w: %v", ErrComputationFailure, rec)
		}
	}()

	r := newRun(width, height, region)
	r.resolveOutline(outline)
	r.estimateCalibration()
	r.estimateColor()
	r.degrade(ReasonComputationFailure, fmt.Sprintf("Estimated values due to calculation error: %v", cause))
	return r.compose(), nil
}

// Failed returns the minimal all-zero assessment for a run that could not be
// completed.
func Failed(region pasi.BodyRegion, cause error) *Assessment {
	scores := pasi.Empty(region)
	msg := fmt.Sprintf("Could not analyze image: %v", cause)
	return &Assessment{
		Success: false,
		Message: msg,
		Area:    AreaMeasurement{Degraded: true, Note: msg},
		Color: ColorAnalysis{
			Distribution: segment.FromPercentages(nil, 0),
			Degraded:     true,
			Note:         msg,
		},
		PASI:         scores,
		Diagnosis:    scores.Diagnose(),
		Degradations: []Degradation{{Reason: ReasonComputationFailure, Note: msg}},
		Note:         msg,
	}
}
