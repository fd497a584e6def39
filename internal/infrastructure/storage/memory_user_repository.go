package storage

import (
	"context"
	"sync"
	"time"

	"ish-detector/internal/domain/entity"
	"ish-detector/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище собеседников бота
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]*entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]*entity.User),
	}
}

// Get возвращает пользователя по ID, создаёт нового если не найден
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.RLock()
	user, exists := r.users[userID]
	r.mu.RUnlock()

	if exists {
		return user, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// пока ждали блокировку, пользователя мог создать другой обработчик
	if user, exists := r.users[userID]; exists {
		return user, nil
	}
	user = entity.NewUser(userID, chatID)
	user.LastActive = time.Now()
	r.users[userID] = user

	return user, nil
}

// Save сохраняет состояние пользователя
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	r.users[user.ID] = user
	r.mu.Unlock()

	return nil
}

// Prune удаляет пользователей, неактивных с момента before, и возвращает их число
func (r *MemoryUserRepository) Prune(ctx context.Context, before time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, user := range r.users {
		if user.LastActive.Before(before) {
			delete(r.users, id)
			removed++
		}
	}
	return removed
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
