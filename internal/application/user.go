package app

import (
	"context"
	"time"

	"ish-detector/internal/domain/entity"
	"ish-detector/internal/domain/port"
)

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

func (s *UserService) BeginAnalysis(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingImage)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateIdle)
}

// Complete сохраняет сводку анализа и возвращает пользователя в ожидание команды
func (s *UserService) Complete(ctx context.Context, userID, chatID int64, summary entity.Summary) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.Record(summary)
	user.SetState(entity.StateIdle)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// PruneIdle забывает пользователей, молчавших дольше ttl
func (s *UserService) PruneIdle(ctx context.Context, ttl time.Duration) int {
	return s.repo.Prune(ctx, time.Now().Add(-ttl))
}
