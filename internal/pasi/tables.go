// Package pasi scores a measured lesion on the Psoriasis Area and Severity
// Index scale. All lookup tables are package-level and read-only.
package pasi

import (
	"math"
	"strings"
)

// BodyRegion is one of the four PASI body regions.
type BodyRegion string

const (
	Head       BodyRegion = "head"
	UpperLimbs BodyRegion = "upper_limbs"
	Trunk      BodyRegion = "trunk"
	LowerLimbs BodyRegion = "lower_limbs"
)

// DefaultRegion is used when no region, or an unknown one, is given.
const DefaultRegion = Trunk

// Regions lists every body region.
var Regions = []BodyRegion{Head, UpperLimbs, Trunk, LowerLimbs}

// regionWeights is the fraction of body surface area per region.
var regionWeights = map[BodyRegion]float64{
	Head:       0.1,
	UpperLimbs: 0.2,
	Trunk:      0.3,
	LowerLimbs: 0.4,
}

// ParseBodyRegion maps a region name to a BodyRegion, falling back to
// DefaultRegion for empty or unrecognized input.
func ParseBodyRegion(s string) BodyRegion {
	r := BodyRegion(strings.ToLower(strings.TrimSpace(s)))
	if r.Valid() {
		return r
	}
	return DefaultRegion
}

// Valid reports whether r is a known region.
func (r BodyRegion) Valid() bool {
	_, ok := regionWeights[r]
	return ok
}

// Weight returns the region's share of body surface area. Unknown regions
// get the default region's weight.
func (r BodyRegion) Weight() float64 {
	if w, ok := regionWeights[r]; ok {
		return w
	}
	return regionWeights[DefaultRegion]
}

// Area bands: score i applies from areaBandLower[i] (inclusive) up to the next
// band's lower bound (exclusive). 0% alone scores 0, the top band is closed.
var areaBandLower = []float64{0, 0, 10, 30, 50, 70, 90}

// MaxAreaScore is the highest area score.
const MaxAreaScore = 6

// AreaScore maps an affected-area percentage to a score 0-6.
func AreaScore(percentage float64) int {
	if math.IsNaN(percentage) || percentage <= 0 {
		return 0
	}
	for score := MaxAreaScore; score > 1; score-- {
		if percentage >= areaBandLower[score] {
			return score
		}
	}
	return 1
}

// erythemaBandLower is the red percentage at which each erythema score starts.
var erythemaBandLower = []float64{0, 10, 30, 50, 70}

// MaxSymptomScore is the highest erythema, induration or desquamation score.
const MaxSymptomScore = 4

// ErythemaScore maps the red-pixel percentage to a score 0-4.
func ErythemaScore(redPercentage float64) int {
	if math.IsNaN(redPercentage) {
		return 0
	}
	for score := MaxSymptomScore; score > 0; score-- {
		if redPercentage >= erythemaBandLower[score] {
			return score
		}
	}
	return 0
}

// Severity is the clinical severity tier of a composite score.
type Severity string

const (
	SeverityNone       Severity = "None"
	SeverityMild       Severity = "Mild"
	SeverityModerate   Severity = "Moderate"
	SeveritySevere     Severity = "Severe"
	SeverityVerySevere Severity = "VerySevere"
)

// Severity thresholds on the composite score.
const (
	ModerateThreshold = 5.0
	SevereThreshold   = 10.0
)

// ClassifySeverity maps a composite score to a tier:
// [0,5) Mild, [5,10) Moderate, [10,∞) Severe. Negative or NaN scores are
// not meaningful and yield SeverityNone.
func ClassifySeverity(composite float64) Severity {
	switch {
	case math.IsNaN(composite) || composite < 0:
		return SeverityNone
	case composite < ModerateThreshold:
		return SeverityMild
	case composite < SevereThreshold:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}

var recommendations = map[Severity][]string{
	SeverityMild: {
		"Topical corticosteroids (low to medium potency)",
		"Topical calcineurin inhibitors",
		"Coal tar preparations",
		"Regular moisturizing",
		"Lifestyle modifications (stress reduction, trigger avoidance)",
	},
	SeverityModerate: {
		"Topical corticosteroids (medium to high potency)",
		"Vitamin D analogs (calcipotriene)",
		"Phototherapy (narrow-band UVB)",
		"Consider topical retinoids",
		"Regular moisturizing and stress management",
	},
	SeveritySevere: {
		"Systemic therapies (methotrexate, cyclosporine)",
		"Biologic therapies (TNF-alpha inhibitors, IL-17 inhibitors)",
		"Oral retinoids",
		"Combined phototherapy",
		"Dermatologist referral for specialized care",
	},
	SeverityNone: {
		"Please try again with a different image",
	},
}

// Recommendations returns a copy of the ordered treatment suggestions for a
// tier. Tiers without a list return an empty, non-nil slice.
func Recommendations(s Severity) []string {
	recs := recommendations[s]
	out := make([]string, len(recs))
	copy(out, recs)
	return out
}
