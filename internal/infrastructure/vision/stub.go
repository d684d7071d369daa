//go:build !gocv
// +build !gocv

package vision

import (
	"errors"

	"tread-bot/internal/domain/entity"
)

// Enabled сообщает, что сборка использует OpenCV.
const Enabled = false

var errNoGoCV = errors.New("gocv build tag is not enabled")

// Classify без OpenCV отклоняет любое изображение.
func (c *SubjectClassifier) Classify(buf entity.RasterBuffer) entity.PlausibilityVerdict {
	_ = buf
	return entity.RejectedVerdict()
}

// Analyze возвращает ошибку анализа, если сборка без тега gocv.
func (e *WearEngine) Analyze(buf entity.RasterBuffer) (*entity.WearResult, error) {
	if err := buf.Validate(); err != nil {
		return nil, entity.NewAnalysisError("decode", err)
	}
	return nil, entity.NewAnalysisError("features", errNoGoCV)
}

// ExtractFeatures возвращает ошибку анализа, если сборка без тега gocv.
func (e *WearEngine) ExtractFeatures(buf entity.RasterBuffer) (entity.TreadFeatures, error) {
	_ = buf
	return entity.TreadFeatures{}, entity.NewAnalysisError("features", errNoGoCV)
}
