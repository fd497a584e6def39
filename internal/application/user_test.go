package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ish-detector/internal/domain/entity"
	"ish-detector/internal/infrastructure/storage"
)

func TestUserService_BeginAnalysisAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginAnalysis(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingImage, user.State)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateIdle, user.State)
}

func TestUserService_Complete(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.SetState(ctx, 2, 20, entity.StateAnalyzing)
	require.NoError(t, err)

	user, err := svc.Complete(ctx, 2, 20, entity.Summary{Loc: "upload", Cep: 3, Gene: 6, Ratio: 2})
	require.NoError(t, err)
	require.Equal(t, entity.StateIdle, user.State)
	require.Equal(t, 1, user.Analyzed)
	require.Equal(t, 2.0, user.Last.Ratio)

	stored, err := svc.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, user, stored)
}

func TestUserService_PruneIdle(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.Get(ctx, 1, 10)
	require.NoError(t, err)
	user.LastActive = time.Now().Add(-2 * time.Hour)

	_, err = svc.Get(ctx, 2, 20)
	require.NoError(t, err)

	require.Equal(t, 1, svc.PruneIdle(ctx, time.Hour))
}
