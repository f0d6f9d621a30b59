package pasi

import (
	"fmt"
	"math"
)

// Symptoms holds the three PASI symptom scores. Induration and desquamation
// are optional: without thickness or texture sensing they are derived from
// erythema (see Resolve).
type Symptoms struct {
	Erythema     int
	Induration   *int
	Desquamation *int
}

// Resolve returns the erythema, induration and desquamation scores, filling
// the defaults: induration = erythema, desquamation = max(0, erythema-1).
// All scores are clamped to 0-4.
func (s Symptoms) Resolve() (erythema, induration, desquamation int) {
	erythema = clampScore(s.Erythema)
	induration = erythema
	if s.Induration != nil {
		induration = clampScore(*s.Induration)
	}
	desquamation = max(0, erythema-1)
	if s.Desquamation != nil {
		desquamation = clampScore(*s.Desquamation)
	}
	return erythema, induration, desquamation
}

func clampScore(v int) int {
	return min(max(v, 0), MaxSymptomScore)
}

// Assessment is the PASI scoring of one lesion in one body region.
type Assessment struct {
	BodyRegion        BodyRegion `json:"body_region"`
	RegionWeight      float64    `json:"region_weight"`
	AreaScore         int        `json:"area_score"`
	ErythemaScore     int        `json:"erythema_score"`
	IndurationScore   int        `json:"induration_score"`
	DesquamationScore int        `json:"desquamation_score"`
	CompositeScore    float64    `json:"pasi_score"`
	Severity          Severity   `json:"pasi_severity"`
	Recommendations   []string   `json:"recommendations"`
}

// Score composes the area and symptom scores for a region:
//
//	composite = weight × areaScore × (E + I + D) / 3
//
// rounded to one decimal place. The severity tier is taken from the rounded
// score so the reported number and tier always agree.
func Score(areaPercentage float64, symptoms Symptoms, region BodyRegion) Assessment {
	if !region.Valid() {
		region = DefaultRegion
	}
	e, i, d := symptoms.Resolve()
	weight := region.Weight()
	areaScore := AreaScore(areaPercentage)

	composite := Round(weight*float64(areaScore)*float64(e+i+d)/3, 1)
	severity := ClassifySeverity(composite)

	return Assessment{
		BodyRegion:        region,
		RegionWeight:      weight,
		AreaScore:         areaScore,
		ErythemaScore:     e,
		IndurationScore:   i,
		DesquamationScore: d,
		CompositeScore:    composite,
		Severity:          severity,
		Recommendations:   Recommendations(severity),
	}
}

// Empty returns the all-zero assessment reported when analysis failed.
func Empty(region BodyRegion) Assessment {
	if !region.Valid() {
		region = DefaultRegion
	}
	return Assessment{
		BodyRegion:      region,
		RegionWeight:    region.Weight(),
		Severity:        SeverityNone,
		Recommendations: Recommendations(SeverityNone),
	}
}

// Diagnosis is the human-readable summary of an assessment.
type Diagnosis struct {
	Severity        Severity `json:"severity"`
	Description     string   `json:"description"`
	Recommendations []string `json:"recommendations"`
}

// Diagnose builds the summary for an assessment.
func (a Assessment) Diagnose() Diagnosis {
	desc := fmt.Sprintf("%s psoriasis with noticeable plaque formation.", a.Severity)
	if a.Severity == SeverityNone {
		desc = "Analysis failed"
	}
	return Diagnosis{
		Severity:        a.Severity,
		Description:     desc,
		Recommendations: append([]string(nil), a.Recommendations...),
	}
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
