package pasi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestRegionWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, r := range Regions {
		sum += r.Weight()
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.Len(t, Regions, 4)

	assert.Equal(t, 0.1, Head.Weight())
	assert.Equal(t, 0.2, UpperLimbs.Weight())
	assert.Equal(t, 0.3, Trunk.Weight())
	assert.Equal(t, 0.4, LowerLimbs.Weight())
}

func TestParseBodyRegion(t *testing.T) {
	tests := map[string]BodyRegion{
		"head":          Head,
		" Upper_Limbs ": UpperLimbs,
		"trunk":         Trunk,
		"lower_limbs":   LowerLimbs,
		"":              Trunk,
		"elbow":         Trunk,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseBodyRegion(in), "input %q", in)
	}
	assert.Equal(t, Trunk.Weight(), BodyRegion("tail").Weight())
}

func TestAreaScore(t *testing.T) {
	tests := []struct {
		pct  float64
		want int
	}{
		{0, 0},
		{-3, 0},
		{math.NaN(), 0},
		{0.0001, 1},
		{3.14, 1},
		{9.999, 1},
		{10, 2},
		{29.9, 2},
		{30, 3},
		{50, 4},
		{70, 5},
		{89.99, 5},
		{90, 6},
		{100, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AreaScore(tt.pct), "pct %v", tt.pct)
	}
}

func TestAreaScore_Totality(t *testing.T) {
	for i := 0; i <= 100000; i++ {
		pct := float64(i) / 1000
		score := AreaScore(pct)
		require.GreaterOrEqual(t, score, 0)
		require.LessOrEqual(t, score, MaxAreaScore)

		var want int
		switch {
		case pct == 0:
			want = 0
		case pct < 10:
			want = 1
		case pct < 30:
			want = 2
		case pct < 50:
			want = 3
		case pct < 70:
			want = 4
		case pct < 90:
			want = 5
		default:
			want = 6
		}
		require.Equal(t, want, score, "pct %v", pct)
	}
}

func TestErythemaScore(t *testing.T) {
	tests := []struct {
		pct  float64
		want int
	}{
		{0, 0}, {9.9, 0}, {10, 1}, {29.9, 1}, {30, 2}, {49.9, 2},
		{50, 3}, {69.9, 3}, {70, 4}, {100, 4}, {-1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErythemaScore(tt.pct), "pct %v", tt.pct)
	}
}

func TestClassifySeverity(t *testing.T) {
	assert.Equal(t, SeverityMild, ClassifySeverity(0))
	assert.Equal(t, SeverityMild, ClassifySeverity(4.9))
	assert.Equal(t, SeverityModerate, ClassifySeverity(5))
	assert.Equal(t, SeverityModerate, ClassifySeverity(9.9))
	assert.Equal(t, SeveritySevere, ClassifySeverity(10))
	assert.Equal(t, SeveritySevere, ClassifySeverity(250))
	assert.Equal(t, SeverityNone, ClassifySeverity(-1))
}

func TestRecommendationsAreCopies(t *testing.T) {
	recs := Recommendations(SeverityMild)
	require.Len(t, recs, 5)
	recs[0] = "changed"
	assert.Equal(t, "Topical corticosteroids (low to medium potency)", Recommendations(SeverityMild)[0])
	assert.Empty(t, Recommendations(SeverityVerySevere))
	assert.NotNil(t, Recommendations(SeverityVerySevere))
}

func TestSymptomsResolve(t *testing.T) {
	e, i, d := Symptoms{Erythema: 3}.Resolve()
	assert.Equal(t, []int{3, 3, 2}, []int{e, i, d})

	e, i, d = Symptoms{Erythema: 0}.Resolve()
	assert.Equal(t, []int{0, 0, 0}, []int{e, i, d})

	e, i, d = Symptoms{Erythema: 2, Induration: intPtr(4), Desquamation: intPtr(9)}.Resolve()
	assert.Equal(t, []int{2, 4, 4}, []int{e, i, d})
}

func TestScore(t *testing.T) {
	t.Run("formula", func(t *testing.T) {
		// area 35% -> 3; erythema 4 -> I 4, D 3; lower limbs 0.4
		a := Score(35, Symptoms{Erythema: 4}, LowerLimbs)
		assert.Equal(t, 3, a.AreaScore)
		assert.Equal(t, 4, a.IndurationScore)
		assert.Equal(t, 3, a.DesquamationScore)
		assert.Equal(t, 4.4, a.CompositeScore) // 0.4*3*11/3
		assert.Equal(t, SeverityMild, a.Severity)
		assert.Equal(t, Recommendations(SeverityMild), a.Recommendations)
	})

	t.Run("severe", func(t *testing.T) {
		a := Score(95, Symptoms{Erythema: 4}, LowerLimbs)
		assert.Equal(t, 6, a.AreaScore)
		assert.Equal(t, 8.8, a.CompositeScore)
		assert.Equal(t, SeverityModerate, a.Severity)

		full := Score(95, Symptoms{Erythema: 4, Desquamation: intPtr(4)}, LowerLimbs)
		assert.Equal(t, 9.6, full.CompositeScore)
		assert.Equal(t, SeverityModerate, full.Severity)
	})

	t.Run("zero erythema", func(t *testing.T) {
		a := Score(3.14, Symptoms{}, Trunk)
		assert.Equal(t, 1, a.AreaScore)
		assert.Equal(t, 0.0, a.CompositeScore)
		assert.Equal(t, SeverityMild, a.Severity)
	})

	t.Run("unknown region", func(t *testing.T) {
		a := Score(20, Symptoms{Erythema: 1}, BodyRegion("tail"))
		assert.Equal(t, Trunk, a.BodyRegion)
		assert.Equal(t, 0.3, a.RegionWeight)
	})
}

func TestEmptyAndDiagnose(t *testing.T) {
	e := Empty("")
	assert.Equal(t, Trunk, e.BodyRegion)
	assert.Equal(t, SeverityNone, e.Severity)
	d := e.Diagnose()
	assert.Equal(t, "Analysis failed", d.Description)
	assert.Equal(t, []string{"Please try again with a different image"}, d.Recommendations)

	m := Score(40, Symptoms{Erythema: 2}, Head).Diagnose()
	assert.Equal(t, SeverityMild, m.Severity)
	assert.Equal(t, "Mild psoriasis with noticeable plaque formation.", m.Description)
	assert.Len(t, m.Recommendations, 5)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 3.1, Round(3.14159, 1))
	assert.Equal(t, 3.14, Round(3.14159, 2))
	assert.Equal(t, 0.3, Round(0.25, 1))
}
