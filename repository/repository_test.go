package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-advisor/domain"
)

func TestMemoryCache_SetGet(t *testing.T) {
	cache := NewMemoryCache()

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	require.NoError(t, cache.Set("k", "v", 0))
	val, ok := cache.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", val)
}

func TestMemoryCache_TTLExpires(t *testing.T) {
	cache := NewMemoryCache()

	require.NoError(t, cache.Set("k", "v", 10*time.Millisecond))
	_, ok := cache.Get("k")
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = cache.Get("k")
	assert.False(t, ok)
}

func TestDecisionRepositoryMemory_Save(t *testing.T) {
	repo := NewDecisionRepositoryMemory()
	assert.Equal(t, 0, repo.Len())

	rec := EvaluationRecord{
		Result:      domain.DecisionResult{Verdict: domain.VerdictBuy},
		EvaluatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Save(rec))
	assert.Equal(t, 1, repo.Len())
}
