package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheService_SetGet(t *testing.T) {
	cs := NewCacheService()

	cs.Set("key", "value", time.Minute)
	value, found := cs.Get("key")
	require.True(t, found)
	assert.Equal(t, "value", value)

	_, found = cs.Get("missing")
	assert.False(t, found)
}

func TestCacheService_ExpiredEntryNotReturned(t *testing.T) {
	cs := NewCacheService()

	cs.Set("key", "value", -time.Second)
	_, found := cs.Get("key")
	assert.False(t, found)
}

func TestCacheService_InvalidateByPrefix(t *testing.T) {
	cs := NewCacheService()

	cs.Set("stats:dashboard", 1, time.Minute)
	cs.Set("stats:weekly", 2, time.Minute)
	cs.Set("proposal:abc", 3, time.Minute)

	cs.InvalidateByPrefix("stats:")

	_, found := cs.Get("stats:dashboard")
	assert.False(t, found)
	_, found = cs.Get("stats:weekly")
	assert.False(t, found)
	_, found = cs.Get("proposal:abc")
	assert.True(t, found)
}

func TestCacheService_InvalidateProposalCacheDropsStats(t *testing.T) {
	cs := NewCacheService()
	proposalID := uuid.New()

	cs.Set(ProposalCacheKey(proposalID), "proposal", time.Minute)
	cs.Set(StatsCacheKey(), "stats", time.Minute)

	cs.InvalidateProposalCache(proposalID)

	_, found := cs.Get(ProposalCacheKey(proposalID))
	assert.False(t, found)
	_, found = cs.Get(StatsCacheKey())
	assert.False(t, found)
}

func TestCacheService_GetOrSet(t *testing.T) {
	cs := NewCacheService()
	ctx := context.Background()
	calls := 0

	compute := func() (interface{}, error) {
		calls++
		return "computed", nil
	}

	value, err := cs.GetOrSet(ctx, "key", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, "computed", value)

	value, err = cs.GetOrSet(ctx, "key", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, "computed", value)
	assert.Equal(t, 1, calls)
}

func TestCacheService_GetOrSetErrorNotCached(t *testing.T) {
	cs := NewCacheService()
	ctx := context.Background()

	_, err := cs.GetOrSet(ctx, "key", time.Minute, func() (interface{}, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)

	_, found := cs.Get("key")
	assert.False(t, found)
}
