package port

import (
	"image"

	"tread-bot/internal/domain/entity"
)

// BoundaryDetector интерфейс поиска содержимого на скриншоте
type BoundaryDetector interface {
	// Detect возвращает прямоугольник вокруг пикселей темнее фона
	// или entity.ErrNoContent, если таких пикселей нет
	Detect(buf entity.RasterBuffer) (entity.BoundingBox, error)
}

// SubjectClassifier интерфейс проверки «это фото шины?»
type SubjectClassifier interface {
	// Classify никогда не возвращает ошибку: нечитаемое изображение просто не проходит
	Classify(buf entity.RasterBuffer) entity.PlausibilityVerdict
}

// WearAnalyzer интерфейс оценки износа протектора
type WearAnalyzer interface {
	// Analyze возвращает результат или *entity.AnalysisError
	Analyze(buf entity.RasterBuffer) (*entity.WearResult, error)
}

// WearVisualizer интерфейс построения сравнительной панели
type WearVisualizer interface {
	// Render рисует панель 2x2 с эталонными уровнями износа
	Render(buf entity.RasterBuffer, wearPercentage float64) (image.Image, error)
}
