package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"MedlyChatbot/pkg/nlp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	classic = nlp.ProductRef{ID: "classic", Name: "Classic", Price: "₹799"}
	prime   = nlp.ProductRef{ID: "prime", Name: "Prime", Price: "₹1,300"}
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Set(ctx, "a", classic))
	got, err = s.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, classic, *got)

	require.NoError(t, s.Set(ctx, "a", prime))
	got, _ = s.Get(ctx, "a")
	assert.Equal(t, prime, *got)
}

func TestMemoryStoreSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	require.NoError(t, s.Set(ctx, "alice", classic))
	require.NoError(t, s.Set(ctx, "bob", prime))

	a, _ := s.Get(ctx, "alice")
	b, _ := s.Get(ctx, "bob")
	assert.Equal(t, "classic", a.ID)
	assert.Equal(t, "prime", b.ID)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	require.NoError(t, s.Set(ctx, "a", classic))

	got, _ := s.Get(ctx, "a")
	got.Price = "free"

	again, _ := s.Get(ctx, "a")
	assert.Equal(t, "₹799", again.Price)
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	s := NewMemoryStore(30 * time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "a", classic))

	now = now.Add(29 * time.Minute)
	got, _ := s.Get(ctx, "a")
	assert.NotNil(t, got)

	now = now.Add(time.Minute)
	got, _ = s.Get(ctx, "a")
	assert.Nil(t, got)
}

func TestMemoryStoreZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	s := NewMemoryStore(0)
	s.now = func() time.Time { return now }
	require.NoError(t, s.Set(ctx, "a", classic))

	now = now.Add(1000 * time.Hour)
	got, _ := s.Get(ctx, "a")
	assert.NotNil(t, got)
}

func TestMemoryStoreSweepsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }
	s.sweepGap = 4

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Set(ctx, fmt.Sprintf("old-%d", i), classic))
	}
	assert.Equal(t, 3, s.size())

	now = now.Add(2 * time.Minute)
	require.NoError(t, s.Set(ctx, "fresh", prime))

	assert.Equal(t, 1, s.size())
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("session-%d", i%8)
			for j := 0; j < 100; j++ {
				_ = s.Set(ctx, id, classic)
				_, _ = s.Get(ctx, id)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, s.size())
}
