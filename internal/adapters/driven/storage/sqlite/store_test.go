package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testPoint(id, title string, vec ...float32) domain.Point {
	return domain.Point{
		ID:     id,
		Vector: vec,
		Payload: domain.PointPayload{
			OriginalID: "orig-" + id,
			Title:      title,
			Text:       "text of " + title,
			Metadata:   domain.ChunkMetadata{Source: title, Type: domain.DefaultChunkType},
		},
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "store")

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "vectors.db"), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_ReopenKeepsPoints(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Upsert(ctx, []domain.Point{testPoint("a", "A", 1, 0)}))
	require.NoError(t, store.Close())

	// Migrations must not re-run against an existing schema.
	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_UpsertReplacesByID(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []domain.Point{
		testPoint("a", "Old", 1, 0),
		testPoint("b", "B", 0, 1),
	}))
	require.NoError(t, store.Upsert(ctx, []domain.Point{testPoint("a", "New", 1, 0)}))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	hits, err := store.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, "New", hits[0].Payload.Title)
	assert.Equal(t, "orig-a", hits[0].Payload.OriginalID)
	assert.Equal(t, domain.DefaultChunkType, hits[0].Payload.Metadata.Type)
}

func TestStore_UpsertRejectsInvalidPoints(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	err := store.Upsert(ctx, []domain.Point{testPoint("", "x", 1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = store.Upsert(ctx, []domain.Point{testPoint("a", "x")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_QueryRanksByCosine(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []domain.Point{
		testPoint("far", "Far", 0, 1),
		testPoint("near", "Near", 0.9, 0.1),
		testPoint("exact", "Exact", 2, 0),
	}))

	hits, err := store.Query(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, []string{"exact", "near", "far"}, []string{hits[0].ID, hits[1].ID, hits[2].ID})
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.InDelta(t, 0.0, hits[2].Score, 1e-6)
}

func TestStore_QueryEdgeCases(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	hits, err := store.Query(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)

	_, err = store.Query(ctx, nil, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, store.Upsert(ctx, []domain.Point{testPoint("a", "A", 1, 0, 0)}))

	_, err = store.Query(ctx, []float32{1, 0}, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	hits, err = store.Query(ctx, []float32{1, 0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFloat32BlobRoundTrip(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3.4028235e38}

	blob := float32SliceToBytes(in)
	assert.Len(t, blob, 16)
	assert.Equal(t, []byte{0, 0, 0xc0, 0x3f}, blob[4:8])
	assert.Equal(t, in, bytesToFloat32Slice(blob))

	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
