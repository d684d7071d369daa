//go:build gocv
// +build gocv

package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tread-bot/internal/domain/entity"
)

func TestAnalyze_UniformImageIsFullyWorn(t *testing.T) {
	res, err := NewWearEngine().Analyze(solidRaster(120, 120, 60))
	require.NoError(t, err)

	require.Equal(t, 0, res.TreadFeatures.GrooveCount)
	require.Equal(t, 0.0, res.TreadFeatures.PatternIntegrity)
	require.Equal(t, 0.0, res.TreadFeatures.TreadDepthScore)
	require.Equal(t, 100.0, res.WearPercentage)
	require.Equal(t, entity.ConditionPoor, res.Condition)
	require.NotNil(t, res.Visualization)
}

func TestAnalyze_StripedTread(t *testing.T) {
	e := NewWearEngine()
	res, err := e.Analyze(stripes(200, 160, 8))
	require.NoError(t, err)

	f := res.TreadFeatures
	require.Greater(t, f.GrooveCount, 0)
	require.Greater(t, f.PatternIntegrity, 0.0)
	require.Greater(t, f.TreadDepthScore, 0.0)
	require.Greater(t, f.EdgeDensity, 0.0)
	require.Less(t, res.WearPercentage, 100.0)
	require.Equal(t, entity.ConditionFor(res.WearPercentage).Condition, res.Condition)
	require.Empty(t, res.VisualizationPath)
}

func TestAnalyze_CorruptInput(t *testing.T) {
	res, err := NewWearEngine().Analyze(entity.RasterBuffer{Width: 5, Height: 5, Channels: 3})
	require.Nil(t, res)
	require.ErrorIs(t, err, entity.ErrAnalysis)
	require.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestExtractFeatures_Deterministic(t *testing.T) {
	e := NewWearEngine()
	buf := stripes(160, 160, 5)

	a, err := e.ExtractFeatures(buf)
	require.NoError(t, err)
	b, err := e.ExtractFeatures(buf)
	require.NoError(t, err)
	require.Equal(t, a, b)
}
