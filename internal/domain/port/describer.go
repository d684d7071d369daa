package port

import (
	"context"

	"tread-bot/internal/domain/entity"
)

// InspectionDescriber интерфейс построения текстового отчёта
type InspectionDescriber interface {
	// Describe генерирует отчёт по результату проверки шины
	Describe(ctx context.Context, inspection *entity.TyreInspection) (*entity.Description, error)
}
