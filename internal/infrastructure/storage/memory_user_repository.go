package storage

import (
	"context"
	"slices"
	"sync"

	"tread-bot/internal/domain/entity"
	"tread-bot/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище пользователей.
// Наружу отдаются копии, поэтому обработчики разных чатов не делят один *entity.User.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[int64]entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]entity.User),
	}
}

// Get возвращает пользователя по ID, создаёт нового если не найден
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.loadLocked(userID, chatID)
	return &user, nil
}

// Save сохраняет состояние пользователя
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	r.users[user.ID] = *user
	r.mu.Unlock()

	return nil
}

// UpdateState обновляет состояние пользователя, неизвестные ID пропускаются
func (r *MemoryUserRepository) UpdateState(ctx context.Context, userID int64, state entity.UserState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if user, exists := r.users[userID]; exists {
		user.SetState(state)
		r.users[userID] = user
	}

	return nil
}

// Transition меняет состояние под одной блокировкой
func (r *MemoryUserRepository) Transition(ctx context.Context, userID, chatID int64, from []entity.UserState, to entity.UserState) (*entity.User, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.loadLocked(userID, chatID)
	if !slices.Contains(from, user.State) {
		return &user, false, nil
	}

	user.SetState(to)
	r.users[userID] = user
	return &user, true, nil
}

func (r *MemoryUserRepository) loadLocked(userID, chatID int64) entity.User {
	if user, exists := r.users[userID]; exists {
		return user
	}
	user := *entity.NewUser(userID, chatID)
	r.users[userID] = user
	return user
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
