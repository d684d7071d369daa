package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConditionFor_InclusiveBounds(t *testing.T) {
	cases := []struct {
		pct       float64
		condition Condition
		safety    SafetyStatus
		months    int
	}{
		{0, ConditionExcellent, SafetySafe, 24},
		{25.0, ConditionExcellent, SafetySafe, 24},
		{25.01, ConditionGood, SafetySafe, 12},
		{50.0, ConditionGood, SafetySafe, 12},
		{50.01, ConditionFair, SafetyCaution, 6},
		{75.0, ConditionFair, SafetyCaution, 6},
		{75.01, ConditionPoor, SafetyReplaceSoon, 1},
		{100, ConditionPoor, SafetyReplaceSoon, 1},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%.2f", tc.pct), func(t *testing.T) {
			band := ConditionFor(tc.pct)
			require.Equal(t, tc.condition, band.Condition)
			require.Equal(t, tc.safety, band.Safety)
			require.Equal(t, tc.months, band.RemainingLifeMonths)
			require.NotEmpty(t, band.Recommendations)
		})
	}
}

func TestCompositeWear_PerfectTread(t *testing.T) {
	f := TreadFeatures{TreadDepthScore: 100, PatternIntegrity: 100, GrooveCount: 50, PatternRegularity: 100}
	res := NewWearResult(f, DefaultWearWeights(), nil)
	require.Equal(t, 0.0, res.WearPercentage)
	require.Equal(t, ConditionExcellent, res.Condition)

	f.GrooveCount = 500
	require.Equal(t, 0.0, CompositeWear(f, DefaultWearWeights()))
}

func TestCompositeWear_EmptyPatternMap(t *testing.T) {
	f := TreadFeatures{TreadDepthScore: 40, PatternRegularity: PatternRegularity(make([]float64, 16), 1000)}
	res := NewWearResult(f, DefaultWearWeights(), nil)
	require.Equal(t, 100.0, res.WearPercentage)
	require.Equal(t, ConditionPoor, res.Condition)
	require.Equal(t, SafetyReplaceSoon, res.SafetyStatus)
}

func TestCompositeWear_Formula(t *testing.T) {
	f := TreadFeatures{TreadDepthScore: 50, PatternIntegrity: 20, GrooveCount: 10, PatternRegularity: 80}
	// 100 - (0.4*50 + 0.3*20 + 0.2*20 + 0.1*80) = 100 - 38
	require.InDelta(t, 62.0, CompositeWear(f, DefaultWearWeights()), 1e-9)
}

func TestCompositeWear_Monotonic(t *testing.T) {
	w := DefaultWearWeights()
	base := TreadFeatures{TreadDepthScore: 30, PatternIntegrity: 10, GrooveCount: 5, PatternRegularity: 40}

	step := func(mut func(f *TreadFeatures, i int)) {
		prev := CompositeWear(base, w)
		for i := 1; i <= 100; i++ {
			f := base
			mut(&f, i)
			cur := CompositeWear(f, w)
			require.LessOrEqual(t, cur, prev)
			prev = cur
		}
	}

	step(func(f *TreadFeatures, i int) { f.TreadDepthScore = float64(i) })
	step(func(f *TreadFeatures, i int) { f.PatternIntegrity = float64(i) })
	step(func(f *TreadFeatures, i int) { f.GrooveCount = i })
	step(func(f *TreadFeatures, i int) { f.PatternRegularity = float64(i) })
}

func TestCompositeWear_GrooveCap(t *testing.T) {
	w := DefaultWearWeights()
	f := TreadFeatures{TreadDepthScore: 10, PatternIntegrity: 10, GrooveCount: 50}
	capped := CompositeWear(f, w)
	f.GrooveCount = 80
	require.Equal(t, capped, CompositeWear(f, w))
}

func TestPatternRegularity(t *testing.T) {
	uniform := []float64{0.2, 0.2, 0.2, 0.2}
	require.Equal(t, 100.0, PatternRegularity(uniform, 1000))

	// σ = 0.05 → 100 - 50
	uneven := []float64{0.15, 0.25, 0.15, 0.25}
	require.InDelta(t, 50.0, PatternRegularity(uneven, 1000), 1e-9)

	// сильный разброс обрезается до нуля
	require.Equal(t, 0.0, PatternRegularity([]float64{0, 0.5, 0, 0.5}, 1000))
	require.Equal(t, 0.0, PatternRegularity(nil, 1000))
}

func TestPatternRegularity_EmptyGridIsNotRegular(t *testing.T) {
	empty := make([]float64, 16)
	// по формуле σ=0 дало бы 100, пустая сетка считается нерегулярной
	require.Equal(t, 0.0, PatternRegularity(empty, 1000))

	f := TreadFeatures{PatternRegularity: PatternRegularity(empty, 1000)}
	res := NewWearResult(f, DefaultWearWeights(), nil)
	require.Equal(t, 0.0, res.TreadFeatures.PatternRegularity)
	require.Equal(t, 100.0, res.WearPercentage)
	require.Equal(t, ConditionPoor, res.Condition)
}

func TestWearResult_WithVisualizationPath(t *testing.T) {
	res := NewWearResult(TreadFeatures{PatternIntegrity: 50, GrooveCount: 3}, DefaultWearWeights(), nil)
	saved := res.WithVisualizationPath("/tmp/wear.png")
	require.Equal(t, "/tmp/wear.png", saved.VisualizationPath)
	require.Empty(t, res.VisualizationPath)
	require.Equal(t, res.WearPercentage, saved.WearPercentage)
}

func TestAnalysisError(t *testing.T) {
	cause := errors.New("empty grayscale")
	var err error = NewAnalysisError("grayscale", cause)

	require.ErrorIs(t, err, ErrAnalysis)
	require.ErrorIs(t, err, cause)

	var ae *AnalysisError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, "grayscale", ae.Stage)
	require.Contains(t, err.Error(), "grayscale")
}

func TestPlausibilityVerdict(t *testing.T) {
	s := Subscores{Darkness: true, Curvature: true, EdgeDensity: true, DarkRatio: true}
	v := NewPlausibilityVerdict(s, Measurements{}, 4)
	require.Equal(t, 4, v.ScoreCount)
	require.True(t, v.Passed)

	s.DarkRatio = false
	v = NewPlausibilityVerdict(s, Measurements{}, 4)
	require.Equal(t, 3, v.ScoreCount)
	require.False(t, v.Passed)

	require.Equal(t, PlausibilityVerdict{}, RejectedVerdict())
}
