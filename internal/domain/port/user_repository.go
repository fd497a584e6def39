package port

import (
	"context"
	"time"

	"ish-detector/internal/domain/entity"
)

// UserRepository интерфейс хранилища пользователей
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет состояние пользователя
	Save(ctx context.Context, user *entity.User) error

	// Prune удаляет пользователей, неактивных с момента before
	Prune(ctx context.Context, before time.Time) int
}
