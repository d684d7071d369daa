package port

import (
	"context"

	"tread-bot/internal/domain/entity"
)

// UserRepository интерфейс хранилища пользователей
type UserRepository interface {
	// Get возвращает копию пользователя по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет состояние пользователя
	Save(ctx context.Context, user *entity.User) error

	// UpdateState обновляет состояние пользователя
	UpdateState(ctx context.Context, userID int64, state entity.UserState) error

	// Transition атомарно переводит пользователя в состояние to, если текущее
	// состояние входит в from. Второе значение сообщает, был ли переход.
	Transition(ctx context.Context, userID, chatID int64, from []entity.UserState, to entity.UserState) (*entity.User, bool, error)
}
