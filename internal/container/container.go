package container

import (
	"log/slog"

	"tread-bot/config"
	app "tread-bot/internal/application"
	"tread-bot/internal/domain/port"
	"tread-bot/internal/infrastructure/imageio"
	"tread-bot/internal/infrastructure/report"
	"tread-bot/internal/infrastructure/vision"
)

type Container struct {
	UserService       *app.UserService
	InspectionService *app.InspectionService
}

// New собирает сервисы приложения из готовых портов.
func New(userRepo port.UserRepository, analyzers app.Analyzers, logger *slog.Logger) *Container {
	userService := app.NewUserService(userRepo)
	inspectionService := app.NewInspectionService(userService, analyzers, logger)

	return &Container{
		UserService:       userService,
		InspectionService: inspectionService,
	}
}

// NewAnalyzers создаёт детекторы с параметрами из конфигурации.
func NewAnalyzers(cfg *config.Analysis) app.Analyzers {
	if cfg == nil {
		cfg = config.DefaultAnalysis()
	}
	return app.Analyzers{
		Codec:      imageio.NewCodec(),
		Boundary:   cfg.Boundary,
		Classifier: cfg.Classifier,
		Wear:       cfg.Wear,
		Describer:  report.NewMarkdownDescriber(),
	}
}

// Проверка, что детекторы из vision подходят к портам
var (
	_ port.BoundaryDetector  = (*vision.BoundaryDetector)(nil)
	_ port.SubjectClassifier = (*vision.SubjectClassifier)(nil)
	_ port.WearAnalyzer      = (*vision.WearEngine)(nil)
	_ port.WearVisualizer    = (*vision.WearVisualizer)(nil)
)
