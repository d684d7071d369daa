package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput: буфер нарушает контракт (нулевой размер, неверная длина данных).
	ErrInvalidInput = errors.New("invalid raster buffer")

	// ErrNoContent: на снимке не нашлось пикселей темнее фона.
	ErrNoContent = errors.New("no content found")

	// ErrAnalysis: конвейер оценки износа не смог завершиться.
	ErrAnalysis = errors.New("wear analysis failed")
)

// AnalysisError помечает результат оценки износа, который нельзя использовать.
type AnalysisError struct {
	Stage string // этап конвейера, на котором произошёл сбой
	Err   error
}

// NewAnalysisError создаёт ошибку анализа для указанного этапа.
func NewAnalysisError(stage string, err error) *AnalysisError {
	return &AnalysisError{Stage: stage, Err: err}
}

func (e *AnalysisError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("wear analysis failed at %s", e.Stage)
	}
	return fmt.Sprintf("wear analysis failed at %s: %v", e.Stage, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Is позволяет проверять любую ошибку анализа через errors.Is(err, ErrAnalysis).
func (e *AnalysisError) Is(target error) bool {
	return target == ErrAnalysis
}
