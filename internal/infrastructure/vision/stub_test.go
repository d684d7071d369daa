//go:build !gocv
// +build !gocv

package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tread-bot/internal/domain/entity"
)

func TestStub_ClassifyRejects(t *testing.T) {
	require.False(t, Enabled)
	v := NewSubjectClassifier().Classify(stripes(50, 50, 4))
	require.Equal(t, entity.RejectedVerdict(), v)
}

func TestStub_AnalyzeReturnsAnalysisError(t *testing.T) {
	res, err := NewWearEngine().Analyze(stripes(50, 50, 4))
	require.Nil(t, res)
	require.ErrorIs(t, err, entity.ErrAnalysis)

	_, err = NewWearEngine().Analyze(entity.RasterBuffer{})
	require.ErrorIs(t, err, entity.ErrInvalidInput)
}
