package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ish-detector/internal/domain/entity"
)

func TestMemoryUserRepository_GetCreatesOnce(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	u1, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateIdle, u1.State)

	u1.SetState(entity.StateAwaitingImage)
	require.NoError(t, repo.Save(ctx, u1))

	u2, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Same(t, u1, u2)
	require.Equal(t, entity.StateAwaitingImage, u2.State)
}

func TestMemoryUserRepository_Prune(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	old, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	old.LastActive = time.Now().Add(-48 * time.Hour)

	_, err = repo.Get(ctx, 2, 20)
	require.NoError(t, err)

	require.Equal(t, 1, repo.Prune(ctx, time.Now().Add(-24*time.Hour)))

	fresh, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.NotSame(t, old, fresh)
}
