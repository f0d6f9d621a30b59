package segment

import (
	"fmt"
	"image"

	"skin-sight/internal/imageio"
	"skin-sight/pkg/colorutil"
	"skin-sight/pkg/geometry"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
)

// RegionMask rasterizes the outline into a single-channel mask the size of
// img: 255 inside, 0 outside. Self-intersecting outlines are filled the way
// cv::fillPoly fills them (nonzero winding). The caller owns the result.
func RegionMask(img gocv.Mat, outline geometry.Outline) gocv.Mat {
	mask := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), img.Rows(), img.Cols(), gocv.MatTypeCV8UC1)
	if len(outline) == 0 {
		return mask
	}

	pv := gocv.NewPointsVectorFromPoints([][]image.Point{outline.ImagePoints()})
	defer pv.Close()
	gocv.FillPoly(&mask, pv, colorutil.White)
	return mask
}

// Analyze classifies the pixels inside the outline into color buckets.
//
// Each masked pixel is assigned to at most one bucket (see precedence).
// Percentages are normalized over classified pixels so they sum to 100;
// Coverage is relative to every masked pixel.
//
// Returns ErrEmptyMask when the outline covers no pixels and
// ErrNoClassifiedPixels when nothing matched; both carry the partial Analysis.
func Analyze(img gocv.Mat, outline geometry.Outline, ranges Ranges) (Analysis, error) {
	if err := imageio.Validate(img); err != nil {
		return Analysis{}, err
	}
	if !outline.Valid() {
		return Analysis{}, fmt.Errorf("%w: outline has %d points", ErrEmptyMask, len(outline))
	}

	mask := RegionMask(img, outline)
	defer mask.Close()

	analysis := Analysis{MaskedPixels: gocv.CountNonZero(mask)}
	if analysis.MaskedPixels == 0 {
		return analysis, ErrEmptyMask
	}

	hsv := imageio.ToHSV(img)
	defer hsv.Close()

	// remaining holds masked pixels not yet claimed by a bucket
	remaining := mask.Clone()
	defer remaining.Close()

	counts := make(map[Bucket]int, len(AllBuckets))
	for _, b := range precedence {
		bm := bucketMask(hsv, ranges.boxes(b))
		gocv.BitwiseAnd(bm, remaining, &bm)
		counts[b] = gocv.CountNonZero(bm)

		if b == Red && counts[b] > 0 {
			analysis.RedIntensity = hsv.MeanWithMask(bm).Val3
		}

		if counts[b] > 0 {
			unclaimed := gocv.NewMat()
			gocv.BitwiseNot(bm, &unclaimed)
			gocv.BitwiseAnd(remaining, unclaimed, &remaining)
			unclaimed.Close()
		}
		bm.Close()
	}

	pixels := make([]float64, len(AllBuckets))
	for i, b := range AllBuckets {
		pixels[i] = float64(counts[b])
	}
	classified := floats.Sum(pixels)
	analysis.ClassifiedPixels = int(classified)
	if analysis.ClassifiedPixels == 0 {
		analysis.Distribution = FromPercentages(nil, 0)
		return analysis, ErrNoClassifiedPixels
	}

	pcts := make([]float64, len(pixels))
	copy(pcts, pixels)
	floats.Scale(100/classified, pcts)

	coverage := make([]float64, len(pixels))
	copy(coverage, pixels)
	floats.Scale(100/float64(analysis.MaskedPixels), coverage)

	analysis.Distribution = make(Distribution, len(AllBuckets))
	for i, b := range AllBuckets {
		analysis.Distribution[b] = BucketStats{
			Pixels:     counts[b],
			Percentage: pcts[i],
			Coverage:   coverage[i],
		}
	}
	return analysis, nil
}

// bucketMask ORs the in-range masks of every box. The caller owns the result.
func bucketMask(hsv gocv.Mat, boxes []colorutil.HSVRange) gocv.Mat {
	combined := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), hsv.Rows(), hsv.Cols(), gocv.MatTypeCV8UC1)
	box := gocv.NewMat()
	defer box.Close()
	for _, r := range boxes {
		imageio.InRange(hsv, r, &box)
		gocv.BitwiseOr(combined, box, &combined)
	}
	return combined
}
