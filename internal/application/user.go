package app

import (
	"context"
	"errors"

	"tread-bot/internal/domain/entity"
	"tread-bot/internal/domain/port"
)

// ErrBusy возвращается, пока для пользователя идёт обработка изображения.
var ErrBusy = errors.New("previous image is still being processed")

// idleStates перечисляет состояния, из которых можно начать новый сценарий.
var idleStates = []entity.UserState{
	entity.StateMainMenu,
	entity.StateAwaitingTyrePhoto,
	entity.StateAwaitingScreenshot,
}

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// BeginCheck ждёт от пользователя фото шины.
func (s *UserService) BeginCheck(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.begin(ctx, userID, chatID, entity.StateAwaitingTyrePhoto)
}

// BeginCrop ждёт от пользователя скриншот для обрезки.
func (s *UserService) BeginCrop(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.begin(ctx, userID, chatID, entity.StateAwaitingScreenshot)
}

// Cancel возвращает пользователя в главное меню. Идущую обработку не прерывает.
func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.begin(ctx, userID, chatID, entity.StateMainMenu)
}

// StartProcessing занимает пользователя на время анализа.
// Возвращает ErrBusy, если предыдущее изображение ещё обрабатывается.
func (s *UserService) StartProcessing(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.begin(ctx, userID, chatID, entity.StateProcessing)
}

// FinishProcessing освобождает пользователя после анализа.
func (s *UserService) FinishProcessing(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

func (s *UserService) begin(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, ok, err := s.repo.Transition(ctx, userID, chatID, idleStates, state)
	if err != nil {
		return nil, err
	}
	if !ok {
		return user, ErrBusy
	}
	return user, nil
}
