package vision

import (
	"tread-bot/internal/domain/entity"
	"tread-bot/internal/domain/port"
)

// WearEngine извлекает признаки протектора и считает износ.
type WearEngine struct {
	BlurKernel         int     `yaml:"blur_kernel"`
	CannyLow           float32 `yaml:"canny_low"`
	CannyHigh          float32 `yaml:"canny_high"`
	CloseKernel        int     `yaml:"close_kernel"`
	LineKernel         int     `yaml:"line_kernel"` // длина линейного элемента для выделения канавок
	MinGrooveArea      float64 `yaml:"min_groove_area"`
	GradientNormalizer float64 `yaml:"gradient_normalizer"` // средний градиент, соответствующий 100 баллам
	GridSize           int     `yaml:"grid_size"`

	Weights    entity.WearWeights  `yaml:"weights"`
	Visualizer port.WearVisualizer `yaml:"-"` // nil отключает панель
}

// NewWearEngine создаёт движок с параметрами по умолчанию и визуализатором.
func NewWearEngine() *WearEngine {
	return &WearEngine{
		BlurKernel:         5,
		CannyLow:           50,
		CannyHigh:          150,
		CloseKernel:        3,
		LineKernel:         25,
		MinGrooveArea:      50,
		GradientNormalizer: 128,
		GridSize:           4,
		Weights:            entity.DefaultWearWeights(),
		Visualizer:         NewWearVisualizer(),
	}
}

// depthScore переводит средний модуль градиента в баллы 0..100.
func (e *WearEngine) depthScore(meanGradient float64) float64 {
	if e.GradientNormalizer <= 0 {
		return 0
	}
	return min(100, max(0, meanGradient/e.GradientNormalizer*100))
}

// result собирает итог: числа считаются в entity, панель рисуется отдельно.
func (e *WearEngine) result(buf entity.RasterBuffer, f entity.TreadFeatures) (*entity.WearResult, error) {
	if e.Visualizer == nil {
		return entity.NewWearResult(f, e.Weights, nil), nil
	}

	panel, err := e.Visualizer.Render(buf, entity.CompositeWear(f, e.Weights))
	if err != nil {
		return nil, entity.NewAnalysisError("visualization", err)
	}
	return entity.NewWearResult(f, e.Weights, panel), nil
}
