package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driving"
	"github.com/custodia-labs/wikicorpus/internal/logger"
)

// Ensure Cleaner implements the interface.
var _ driving.CleanService = (*Cleaner)(nil)

// skipCounter is implemented by artifact readers that drop malformed records.
type skipCounter interface {
	Skipped() int
}

// Cleaner streams the raw corpus through a normaliser into the cleaned corpus.
type Cleaner struct {
	normaliser driven.Normaliser
	artifacts  driven.ArtifactStore
	observers  Observers
}

// NewCleaner creates a new cleaner.
func NewCleaner(normaliser driven.Normaliser, artifacts driven.ArtifactStore, observers Observers) *Cleaner {
	return &Cleaner{
		normaliser: normaliser,
		artifacts:  artifacts,
		observers:  observers,
	}
}

// Clean normalises every raw document, dropping those that end up too short.
func (c *Cleaner) Clean(ctx context.Context) (domain.StageSummary, error) {
	start := time.Now()
	summary := domain.StageSummary{Stage: domain.StageClean}

	logger.Section("Clean")

	r, err := c.artifacts.OpenRaw()
	if err != nil {
		return summary, fmt.Errorf("open raw corpus: %w", err)
	}
	defer r.Close()

	w, err := c.artifacts.CreateClean()
	if err != nil {
		return summary, fmt.Errorf("create cleaned corpus: %w", err)
	}

	c.observers.start("clean", 0)
	for {
		if err := ctx.Err(); err != nil {
			w.Close()
			return summary, err
		}

		raw, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			w.Close()
			return summary, fmt.Errorf("read raw corpus: %w", err)
		}

		res, err := c.normaliser.Normalise(ctx, &raw)
		if err != nil {
			w.Close()
			return summary, fmt.Errorf("normalise %s: %w", raw.Title, err)
		}
		if res.Dropped {
			summary.DocumentsShort++
			logger.Debug("dropping %s: shorter than minimum after cleaning", raw.Title)
			c.observers.step(raw.Title + " (short)")
			continue
		}

		if err := w.Write(*res.Document); err != nil {
			w.Close()
			return summary, fmt.Errorf("write cleaned document %s: %w", raw.Title, err)
		}
		summary.DocumentsCleaned++
		c.observers.step(raw.Title)
	}

	if err := w.Close(); err != nil {
		return summary, fmt.Errorf("close cleaned corpus: %w", err)
	}
	if sc, ok := r.(skipCounter); ok {
		summary.LinesMalformed = sc.Skipped()
	}

	summary.Duration = time.Since(start)
	logger.Info("Cleaned %d documents (%d too short, %d malformed lines)",
		summary.DocumentsCleaned, summary.DocumentsShort, summary.LinesMalformed)
	c.observers.finish(summary)
	return summary, nil
}
