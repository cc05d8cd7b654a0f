package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manus-labs/manus-backend/internal/projects/domain"
)

func TestProgressTicker_TickAdvancesEveryOwner(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.store.SaveProjects(ctx, "alice", []domain.Project{
		{ID: "1", Title: "A", Category: domain.CategoryAll, Status: domain.StatusPending, Progress: 10},
	}))
	require.NoError(t, svc.store.SaveProjects(ctx, "bob", []domain.Project{
		{ID: "2", Title: "B", Category: domain.CategoryAll, Status: domain.StatusPending, Progress: 98},
	}))

	ticker := NewProgressTicker(svc, "@every 1m")
	ticker.Tick()

	a, err := svc.Get(ctx, "alice", "1")
	require.NoError(t, err)
	assert.Equal(t, 10+progressStep, a.Progress)

	b, err := svc.Get(ctx, "bob", "2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, b.Status)
	assert.Equal(t, 0, b.Progress)
}

func TestProgressTicker_BadSpecIsNotFatal(t *testing.T) {
	svc := setupService(t)

	ticker := NewProgressTicker(svc, "every full moon")
	ticker.Start()
	ticker.Stop()
}
