// Package segment classifies the pixels inside a lesion outline into
// clinical color buckets.
package segment

import (
	"errors"

	"skin-sight/pkg/colorutil"

	"gonum.org/v1/gonum/floats"
)

// Bucket names a clinical color class.
type Bucket string

const (
	Red    Bucket = "red"    // erythema
	Yellow Bucket = "yellow" // scale / slough
	Black  Bucket = "black"  // necrotic or shadowed tissue
	Pink   Bucket = "pink"   // healthy or healing skin
)

// AllBuckets lists the buckets in report order.
var AllBuckets = []Bucket{Red, Yellow, Black, Pink}

var (
	// ErrEmptyMask means the outline rasterized to no pixels.
	ErrEmptyMask = errors.New("outline mask covers no pixels")
	// ErrNoClassifiedPixels means masked pixels exist but none matched a bucket.
	ErrNoClassifiedPixels = errors.New("no masked pixel matched a color bucket")
)

// BucketStats is the share of one bucket.
type BucketStats struct {
	Pixels     int     `json:"pixels"`
	Percentage float64 `json:"percentage"` // share of classified pixels, buckets sum to 100
	Coverage   float64 `json:"coverage"`   // share of all masked pixels
}

// Distribution maps each bucket to its stats.
type Distribution map[Bucket]BucketStats

// Percentage returns the normalized percentage of b, 0 when absent.
func (d Distribution) Percentage(b Bucket) float64 {
	return d[b].Percentage
}

// Total returns the sum of all bucket percentages.
func (d Distribution) Total() float64 {
	pcts := make([]float64, 0, len(AllBuckets))
	for _, b := range AllBuckets {
		pcts = append(pcts, d[b].Percentage)
	}
	return floats.Sum(pcts)
}

// FromPercentages builds a distribution from fixed percentages, deriving pixel
// counts from basePixels. Used when no measured distribution is available.
func FromPercentages(pcts map[Bucket]float64, basePixels float64) Distribution {
	d := make(Distribution, len(AllBuckets))
	for _, b := range AllBuckets {
		p := pcts[b]
		d[b] = BucketStats{
			Pixels:     int(basePixels * p / 100),
			Percentage: p,
			Coverage:   p,
		}
	}
	return d
}

// Ranges holds the HSV boxes for each bucket (H 0-180, S/V 0-255). Red wraps
// around hue 0 and is given as two boxes that are OR-combined.
type Ranges struct {
	Black  colorutil.HSVRange
	Red    []colorutil.HSVRange
	Yellow colorutil.HSVRange
	Pink   colorutil.HSVRange
}

// DefaultRanges returns the canonical bucket thresholds.
func DefaultRanges() Ranges {
	return Ranges{
		Black: colorutil.NewHSVRange(0, 0, 0, 180, 255, 40),
		Red: []colorutil.HSVRange{
			colorutil.NewHSVRange(0, 70, 50, 10, 255, 255),
			colorutil.NewHSVRange(170, 70, 50, 180, 255, 255),
		},
		Yellow: colorutil.NewHSVRange(20, 70, 50, 40, 255, 255),
		Pink:   colorutil.NewHSVRange(140, 10, 50, 170, 255, 255),
	}
}

// boxes returns the ranges of a bucket.
func (r Ranges) boxes(b Bucket) []colorutil.HSVRange {
	switch b {
	case Black:
		return []colorutil.HSVRange{r.Black}
	case Red:
		return r.Red
	case Yellow:
		return []colorutil.HSVRange{r.Yellow}
	case Pink:
		return []colorutil.HSVRange{r.Pink}
	}
	return nil
}

// precedence is the order buckets claim pixels. Boxes overlap at their edges
// (pink and red share hue 170); a pixel belongs to the first bucket that
// matches, so each pixel is counted at most once.
var precedence = []Bucket{Black, Red, Yellow, Pink}

// Classify returns the bucket an HSV color falls in, or false if none.
func (r Ranges) Classify(c colorutil.HSV) (Bucket, bool) {
	for _, b := range precedence {
		for _, box := range r.boxes(b) {
			if box.Contains(c) {
				return b, true
			}
		}
	}
	return "", false
}

// Analysis is the result of classifying one outlined region.
type Analysis struct {
	Distribution     Distribution `json:"distribution"`
	MaskedPixels     int          `json:"masked_pixels"`
	ClassifiedPixels int          `json:"classified_pixels"`
	RedIntensity     float64      `json:"red_intensity"` // mean V of red pixels
}
