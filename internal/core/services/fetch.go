package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driving"
	"github.com/custodia-labs/wikicorpus/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driving.FetchService = (*Fetcher)(nil)

// MaxFetchBatchSize is the most titles the API accepts in one query.
const MaxFetchBatchSize = 50

// Fetcher downloads raw wikitext for KEPT index entries in batches.
type Fetcher struct {
	source    driven.ContentSource
	artifacts driven.ArtifactStore
	settings  domain.FetchSettings
	observers Observers
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewFetcher creates a new fetcher.
func NewFetcher(
	source driven.ContentSource,
	artifacts driven.ArtifactStore,
	settings domain.FetchSettings,
	observers Observers,
) *Fetcher {
	if settings.BatchSize <= 0 || settings.BatchSize > MaxFetchBatchSize {
		settings.BatchSize = MaxFetchBatchSize
	}
	return &Fetcher{
		source:    source,
		artifacts: artifacts,
		settings:  settings,
		observers: observers,
		sleep:     sleepContext,
	}
}

// Fetch reads the index, fetches every KEPT title and writes the raw corpus.
// A missing keep column is fatal. A failed batch is logged and skipped.
func (f *Fetcher) Fetch(ctx context.Context) (domain.StageSummary, error) {
	start := time.Now()
	summary := domain.StageSummary{Stage: domain.StageFetch}

	logger.Section("Fetch")

	entries, err := f.artifacts.LoadIndex(true)
	if err != nil {
		return summary, fmt.Errorf("load index: %w", err)
	}

	titles := keptTitles(entries)
	if f.settings.Limit > 0 && len(titles) > f.settings.Limit {
		logger.Info("Limiting fetch to %d of %d titles", f.settings.Limit, len(titles))
		titles = titles[:f.settings.Limit]
	}
	summary.PagesKept = len(titles)

	w, err := f.artifacts.CreateRaw()
	if err != nil {
		return summary, fmt.Errorf("create raw corpus: %w", err)
	}

	batches := batchTitles(titles, f.settings.BatchSize)
	logger.Info("Fetching %d titles in %d batches", len(titles), len(batches))
	f.observers.start("fetch", len(batches))

	for i, batch := range batches {
		if i > 0 && f.settings.BatchDelay > 0 {
			if err := f.sleep(ctx, f.settings.BatchDelay); err != nil {
				w.Close()
				return summary, err
			}
		}

		docs, err := f.source.FetchContent(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				w.Close()
				return summary, ctx.Err()
			}
			summary.BatchesFailed++
			logger.Warn("batch %d/%d (%s ...): %v", i+1, len(batches), batch[0], err)
			f.observers.step(fmt.Sprintf("batch %d failed", i+1))
			continue
		}

		for _, doc := range docs {
			if err := w.Write(doc); err != nil {
				w.Close()
				return summary, fmt.Errorf("write raw document %s: %w", doc.Title, err)
			}
		}
		summary.BatchesFetched++
		summary.PagesFetched += len(docs)
		summary.PagesMissing += len(batch) - len(docs)
		f.observers.step(fmt.Sprintf("batch %d: %d/%d pages", i+1, len(docs), len(batch)))
	}

	if err := w.Close(); err != nil {
		return summary, fmt.Errorf("close raw corpus: %w", err)
	}

	summary.Duration = time.Since(start)
	logger.Info("Fetched %d pages (%d missing, %d failed batches)",
		summary.PagesFetched, summary.PagesMissing, summary.BatchesFailed)
	f.observers.finish(summary)
	return summary, nil
}

// keptTitles returns the KEPT titles of entries in index order.
func keptTitles(entries []domain.IndexEntry) []string {
	var titles []string
	for _, e := range entries {
		if e.Kept() {
			titles = append(titles, e.Title)
		}
	}
	return titles
}

// batchTitles splits titles into consecutive batches of at most size.
func batchTitles(titles []string, size int) [][]string {
	var batches [][]string
	for len(titles) > 0 {
		n := min(size, len(titles))
		batches = append(batches, titles[:n:n])
		titles = titles[n:]
	}
	return batches
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
