package warnings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAccumulatesDuplicates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Append(ctx, "a", "w1"))
	require.NoError(t, s.Append(ctx, "a", "w1", "w2"))
	require.NoError(t, s.Append(ctx, "b", "other"))

	got, err := s.List(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"w1", "w1", "w2"}, got)

	require.NoError(t, s.Clear(ctx, "a"))
	got, err = s.List(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	got, _ = s.List(ctx, "b")
	assert.Equal(t, []string{"other"}, got)
}

func TestMemoryStoreListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Append(ctx, "a", "w1"))

	got, _ := s.List(ctx, "a")
	got[0] = "mutated"

	again, _ := s.List(ctx, "a")
	assert.Equal(t, []string{"w1"}, again)
}

func TestMemoryStoreConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Append(ctx, "a", "w")
		}()
	}
	wg.Wait()
	got, _ := s.List(ctx, "a")
	assert.Len(t, got, 50)
}

func TestNewFallsBackToMemory(t *testing.T) {
	_, ok := New(nil, time.Hour).(*MemoryStore)
	assert.True(t, ok)
	assert.Equal(t, "warnings:abc", key("abc"))
}
