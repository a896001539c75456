package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/domain"
)

func TestObtainError_NotObtainedIsConflict(t *testing.T) {
	err := obtainError("production:abc", redislock.ErrNotObtained)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "production:abc")

	other := obtainError("transfer:1", errors.New("dial tcp: refused"))
	assert.NotErrorIs(t, other, domain.ErrConflict)
}

func TestStatsCache_KeyPrefix(t *testing.T) {
	c := NewStatsCache(nil, "produccion")
	assert.Equal(t, "produccion:stats:movimientos", c.key("stats:movimientos"))
	assert.Equal(t, "stats:movimientos", NewStatsCache(nil, "").key("stats:movimientos"))
}

func TestStatsCache_SetWithoutTTLIsNoop(t *testing.T) {
	c := NewStatsCache(nil, "")
	require.NoError(t, c.Set(context.Background(), "k", map[string]int{"a": 1}, 0))
	require.NoError(t, c.Invalidate(context.Background()))
}

func TestStatsCache_UnreachableServerReturnsError(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()
	c := NewStatsCache(rdb, "")

	var dest map[string]int
	found, err := c.Get(context.Background(), "stats", &dest)
	assert.False(t, found)
	assert.Error(t, err)
}
