package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"tread-bot/internal/domain/entity"
)

func TestMarkdownDescriber_WearReport(t *testing.T) {
	features := entity.TreadFeatures{GrooveCount: 12, TreadDepthScore: 20, PatternIntegrity: 10, PatternRegularity: 30}
	wear := entity.NewWearResult(features, entity.DefaultWearWeights(), nil).WithVisualizationPath("wear.png")

	insp := &entity.TyreInspection{
		ImageWidth:  640,
		ImageHeight: 480,
		Verdict: entity.NewPlausibilityVerdict(entity.Subscores{
			Darkness: true, Curvature: true, EdgeDensity: true, DarkRatio: true, Rectangularity: true,
		}, entity.Measurements{MeanIntensity: 72.5, CircleCount: 1}, 4),
		Wear: wear,
	}

	desc, err := NewMarkdownDescriber().Describe(context.Background(), insp)
	require.NoError(t, err)

	require.Equal(t, reportTitle, desc.Title)
	require.Contains(t, desc.Text, "# Tyre Inspection Report")
	require.Contains(t, desc.Text, "5 of 6 checks passed")
	require.Contains(t, desc.Text, "mean 72.5")
	require.Contains(t, desc.Text, string(wear.Condition))
	require.Contains(t, desc.Text, "Replace Soon")
	require.Contains(t, desc.Text, wear.Recommendations[0])
	require.Contains(t, desc.Text, "![Wear comparison](wear.png)")
}

func TestMarkdownDescriber_Rejected(t *testing.T) {
	insp := &entity.TyreInspection{ImageWidth: 10, ImageHeight: 10, Verdict: entity.RejectedVerdict()}

	desc, err := NewMarkdownDescriber().Describe(context.Background(), insp)
	require.NoError(t, err)
	require.Contains(t, desc.Text, "0 of 6 checks passed: rejected")
	require.Contains(t, desc.Text, "does not look like a tyre photo")
	require.NotContains(t, desc.Text, "Tread wear")
}

func TestMarkdownDescriber_AnalysisError(t *testing.T) {
	insp := &entity.TyreInspection{
		Verdict: entity.NewPlausibilityVerdict(entity.Subscores{Darkness: true, DarkRatio: true, TextRatio: true, Rectangularity: true}, entity.Measurements{}, 4),
		WearErr: entity.NewAnalysisError("grayscale", errors.New("empty")),
	}

	desc, err := NewMarkdownDescriber().Describe(context.Background(), insp)
	require.NoError(t, err)
	require.Contains(t, desc.Text, "wear analysis failed at grayscale")
}

func TestMarkdownDescriber_NilInspection(t *testing.T) {
	_, err := NewMarkdownDescriber().Describe(context.Background(), nil)
	require.Error(t, err)
}
