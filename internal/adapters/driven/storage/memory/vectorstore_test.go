package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

func point(id string, vec ...float32) domain.Point {
	return domain.Point{
		ID:      id,
		Vector:  vec,
		Payload: domain.PointPayload{OriginalID: id, Title: "T-" + id},
	}
}

func TestNewVectorStore(t *testing.T) {
	store := NewVectorStore()
	require.NotNil(t, store)

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, store.Close())
}

func TestVectorStore_UpsertReplaces(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []domain.Point{point("a", 1, 0), point("b", 0, 1)}))
	replacement := point("a", 0, 1)
	replacement.Payload.Title = "replaced"
	require.NoError(t, store.Upsert(ctx, []domain.Point{replacement}))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, "replaced", got.Payload.Title)
	assert.Equal(t, []float32{0, 1}, got.Vector)
}

func TestVectorStore_UpsertCopiesVector(t *testing.T) {
	store := NewVectorStore()
	vec := []float32{1, 2}

	require.NoError(t, store.Upsert(context.Background(), []domain.Point{{ID: "a", Vector: vec}}))
	vec[0] = 99

	got, _ := store.Get("a")
	assert.Equal(t, []float32{1, 2}, got.Vector)
}

func TestVectorStore_UpsertValidation(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	// A bad point rejects the whole batch.
	err := store.Upsert(ctx, []domain.Point{point("ok", 1), point("")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = store.Upsert(ctx, []domain.Point{point("empty")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	n, _ := store.Count(ctx)
	assert.Zero(t, n)
}

func TestVectorStore_Query(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []domain.Point{
		point("tie-1", 0, 1),
		point("best", 1, 0),
		point("tie-2", 0, 1),
	}))

	hits, err := store.Query(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "best", hits[0].ID)
	assert.Equal(t, "T-best", hits[0].Payload.Title)
	// Equal scores keep insertion order.
	assert.Equal(t, "tie-1", hits[1].ID)
	assert.Equal(t, "tie-2", hits[2].ID)

	hits, err = store.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	_, err = store.Query(ctx, []float32{1, 0, 0}, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = store.Query(ctx, nil, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVectorStore_ConcurrentAccess(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			_ = store.Upsert(ctx, []domain.Point{point(id, 1, float32(i))})
			_, _ = store.Query(ctx, []float32{1, 0}, 3)
		}(i)
	}
	wg.Wait()

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}
