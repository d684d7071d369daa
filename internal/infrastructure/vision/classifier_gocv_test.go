//go:build gocv
// +build gocv

package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tread-bot/internal/domain/entity"
)

// darkDisc рисует тёмный кадр с более светлым кругом, грубое подобие шины.
func darkDisc(size int) entity.RasterBuffer {
	buf := solidRaster(size, size, 30)
	c, r := size/2, size/3
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := x-c, y-c
			if dx*dx+dy*dy <= r*r {
				fillRect(buf, x, y, x+1, y+1, 90, 90, 90)
			}
		}
	}
	return buf
}

// document рисует белый лист с рамками, как у блок-схемы.
func document(w, h int) entity.RasterBuffer {
	buf := solidRaster(w, h, 255)
	for i := 0; i < 12; i++ {
		x0, y0 := 10+(i%4)*70, 10+(i/4)*60
		fillRect(buf, x0, y0, x0+50, y0+2, 0, 0, 0)
		fillRect(buf, x0, y0+38, x0+50, y0+40, 0, 0, 0)
		fillRect(buf, x0, y0, x0+2, y0+40, 0, 0, 0)
		fillRect(buf, x0+48, y0, x0+50, y0+40, 0, 0, 0)
	}
	return buf
}

func TestClassify_Deterministic(t *testing.T) {
	c := NewSubjectClassifier()
	buf := stripes(200, 150, 6)

	first := c.Classify(buf)
	second := c.Classify(buf)
	require.Equal(t, first, second)
}

func TestClassify_CorruptInput(t *testing.T) {
	c := NewSubjectClassifier()

	require.Equal(t, entity.RejectedVerdict(), c.Classify(entity.RasterBuffer{}))
	require.Equal(t, entity.RejectedVerdict(), c.Classify(entity.RasterBuffer{Width: 4, Height: 4, Channels: 3, Pix: []byte{1, 2}}))
}

func TestClassify_DarkDiscPasses(t *testing.T) {
	v := NewSubjectClassifier().Classify(darkDisc(300))

	require.True(t, v.Subscores.Darkness)
	require.True(t, v.Subscores.DarkRatio)
	require.True(t, v.Subscores.TextRatio)
	require.True(t, v.Subscores.Rectangularity)
	require.True(t, v.Subscores.Curvature)
	require.GreaterOrEqual(t, v.Measurements.CircleCount, 1)
	require.True(t, v.Passed)
	require.Equal(t, v.Subscores.Count(), v.ScoreCount)
}

func TestClassify_DocumentRejected(t *testing.T) {
	v := NewSubjectClassifier().Classify(document(300, 200))

	require.False(t, v.Subscores.Darkness)
	require.False(t, v.Subscores.DarkRatio)
	require.False(t, v.Passed)
	require.Greater(t, v.Measurements.MeanIntensity, 180.0)

	// двенадцать рамок дают больше допустимых десяти четырёхугольников
	require.Greater(t, v.Measurements.RectangleCount, 10)
	require.False(t, v.Subscores.Rectangularity)
}

func TestClassify_FineStripesAreEdgeDense(t *testing.T) {
	v := NewSubjectClassifier().Classify(stripes(200, 150, 3))

	require.Greater(t, v.Measurements.EdgeRatio, 0.15)
	require.True(t, v.Subscores.EdgeDensity)
}

func TestClassify_UniformFrameHasNoCircles(t *testing.T) {
	v := NewSubjectClassifier().Classify(solidRaster(200, 200, 30))

	require.Zero(t, v.Measurements.CircleCount)
	require.False(t, v.Subscores.Curvature)
	require.False(t, v.Subscores.EdgeDensity)
}
