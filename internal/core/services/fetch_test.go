package services

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
)

func readAll[T any](t *testing.T, r driven.RecordReader[T], openErr error) []T {
	t.Helper()
	require.NoError(t, openErr)
	defer r.Close()

	var out []T
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec)
	}
}

func keptEntry(title string) domain.IndexEntry {
	return domain.IndexEntry{
		Candidate: domain.Candidate{Title: title},
		Verdict:   domain.Verdict{Status: domain.StatusKept, Reason: "Match: relations"},
	}
}

func ignoredEntry(title string) domain.IndexEntry {
	return domain.IndexEntry{
		Candidate: domain.Candidate{Title: title},
		Verdict:   domain.Verdict{Status: domain.StatusIgnored, Reason: "Noise: football"},
	}
}

func TestNewFetcher_ClampsBatchSize(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero", 0, MaxFetchBatchSize},
		{"negative", -3, MaxFetchBatchSize},
		{"too large", 500, MaxFetchBatchSize},
		{"in range", 20, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFetcher(&fakeContent{}, testArtifacts(t), domain.FetchSettings{BatchSize: tt.in}, Observers{})
			assert.Equal(t, tt.want, f.settings.BatchSize)
		})
	}
}

func TestBatchTitles(t *testing.T) {
	batches := batchTitles([]string{"a", "b", "c", "d", "e"}, 2)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, batches)
	assert.Empty(t, batchTitles(nil, 2))
}

func TestFetcher_Fetch(t *testing.T) {
	store := testArtifacts(t)
	require.NoError(t, store.SaveIndex([]domain.IndexEntry{
		keptEntry("A"),
		ignoredEntry("Football"),
		keptEntry("B"),
		keptEntry("C"),
		keptEntry("Missing"),
		keptEntry("E"),
	}))

	source := &fakeContent{content: map[string]string{
		"A": "alpha", "B": "bravo", "C": "charlie", "E": "echo",
	}}

	var slept []time.Duration
	progress := &recordingProgress{}
	f := NewFetcher(source, store, domain.FetchSettings{BatchSize: 2, BatchDelay: time.Second},
		Observers{Progress: progress})
	f.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	summary, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"A", "B"}, {"C", "Missing"}, {"E"}}, source.batches)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, slept)

	assert.Equal(t, 5, summary.PagesKept)
	assert.Equal(t, 3, summary.BatchesFetched)
	assert.Equal(t, 4, summary.PagesFetched)
	assert.Equal(t, 1, summary.PagesMissing)
	assert.Zero(t, summary.BatchesFailed)
	assert.Equal(t, 3, progress.steps)

	r, err := store.OpenRaw()
	docs := readAll(t, r, err)
	require.Len(t, docs, 4)
	assert.Equal(t, domain.RawDocument{Title: "A", RawContent: "alpha"}, docs[0])
	assert.Equal(t, "E", docs[3].Title)
}

func TestFetcher_FailedBatchIsSkipped(t *testing.T) {
	store := testArtifacts(t)
	require.NoError(t, store.SaveIndex([]domain.IndexEntry{
		keptEntry("A"), keptEntry("B"), keptEntry("C"),
	}))

	source := &fakeContent{
		content: map[string]string{"A": "alpha", "B": "bravo", "C": "charlie"},
		failOn:  map[int]bool{1: true},
	}
	f := NewFetcher(source, store, domain.FetchSettings{BatchSize: 2}, Observers{})

	summary, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.BatchesFailed)
	assert.Equal(t, 1, summary.BatchesFetched)
	assert.Equal(t, 1, summary.PagesFetched)

	r, err := store.OpenRaw()
	docs := readAll(t, r, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "C", docs[0].Title)
}

func TestFetcher_Limit(t *testing.T) {
	store := testArtifacts(t)
	require.NoError(t, store.SaveIndex([]domain.IndexEntry{
		keptEntry("A"), keptEntry("B"), keptEntry("C"),
	}))

	source := &fakeContent{content: map[string]string{"A": "alpha", "B": "bravo", "C": "charlie"}}
	f := NewFetcher(source, store, domain.FetchSettings{BatchSize: 50, Limit: 2}, Observers{})

	summary, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A", "B"}}, source.batches)
	assert.Equal(t, 2, summary.PagesFetched)
}

func TestFetcher_RequiresKeepColumn(t *testing.T) {
	store := testArtifacts(t)
	require.NoError(t, os.WriteFile(store.Paths().Index, []byte("title,revid\nA,1\n"), 0o600))

	source := &fakeContent{}
	f := NewFetcher(source, store, domain.FetchSettings{}, Observers{})

	_, err := f.Fetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, source.batches)
}

func TestFetcher_MissingIndex(t *testing.T) {
	f := NewFetcher(&fakeContent{}, testArtifacts(t), domain.FetchSettings{}, Observers{})

	_, err := f.Fetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFetcher_CancelledDuringDelay(t *testing.T) {
	store := testArtifacts(t)
	require.NoError(t, store.SaveIndex([]domain.IndexEntry{keptEntry("A"), keptEntry("B")}))

	source := &fakeContent{content: map[string]string{"A": "alpha", "B": "bravo"}}
	f := NewFetcher(source, store, domain.FetchSettings{BatchSize: 1, BatchDelay: time.Hour}, Observers{})

	ctx, cancel := context.WithCancel(context.Background())
	f.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleepContext(ctx, d)
	}

	_, err := f.Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, source.batches, 1)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
