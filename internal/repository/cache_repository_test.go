package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/placement-tracker-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil)
	ctx := context.Background()

	var dest map[string]int
	err := repo.Get(ctx, "dash:tpo:all", &dest)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
	require.NoError(t, repo.Set(ctx, "dash:tpo:all", map[string]int{"total": 1}, time.Minute))
	require.NoError(t, repo.DeleteByPattern(ctx, "dash:tpo:*"))
	require.NoError(t, repo.Ping(ctx))
}
