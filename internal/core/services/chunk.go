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

// Ensure Chunker implements the interface.
var _ driving.ChunkService = (*Chunker)(nil)

// PipelineFactory builds a fresh post-processor pipeline. It is called once
// per run so per-run state such as the dedup seen set starts empty.
type PipelineFactory func() (driven.PostProcessorPipeline, error)

// Chunker streams the cleaned corpus through the post-processor pipeline.
type Chunker struct {
	newPipeline PipelineFactory
	artifacts   driven.ArtifactStore
	observers   Observers
}

// NewChunker creates a new chunker.
func NewChunker(newPipeline PipelineFactory, artifacts driven.ArtifactStore, observers Observers) *Chunker {
	return &Chunker{
		newPipeline: newPipeline,
		artifacts:   artifacts,
		observers:   observers,
	}
}

// Chunk splits every cleaned document and writes the surviving chunks in
// document then chunk order.
func (c *Chunker) Chunk(ctx context.Context) (domain.StageSummary, error) {
	start := time.Now()
	summary := domain.StageSummary{Stage: domain.StageChunk}

	logger.Section("Chunk")

	pipeline, err := c.newPipeline()
	if err != nil {
		return summary, fmt.Errorf("build pipeline: %w", err)
	}

	r, err := c.artifacts.OpenClean()
	if err != nil {
		return summary, fmt.Errorf("open cleaned corpus: %w", err)
	}
	defer r.Close()

	w, err := c.artifacts.CreateChunks()
	if err != nil {
		return summary, fmt.Errorf("create chunk file: %w", err)
	}

	c.observers.start("chunk", 0)
	for {
		if err := ctx.Err(); err != nil {
			w.Close()
			return summary, err
		}

		doc, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			w.Close()
			return summary, fmt.Errorf("read cleaned corpus: %w", err)
		}

		chunks, err := pipeline.Process(ctx, &doc)
		if err != nil {
			w.Close()
			return summary, fmt.Errorf("chunk %s: %w", doc.Title, err)
		}
		for _, chunk := range chunks {
			if err := w.Write(chunk); err != nil {
				w.Close()
				return summary, fmt.Errorf("write chunk of %s: %w", doc.Title, err)
			}
		}

		summary.DocumentsCleaned++
		summary.ChunksEmitted += len(chunks)
		c.observers.step(fmt.Sprintf("%s: %d chunks", doc.Title, len(chunks)))
	}

	if err := w.Close(); err != nil {
		return summary, fmt.Errorf("close chunk file: %w", err)
	}
	if sc, ok := r.(skipCounter); ok {
		summary.LinesMalformed = sc.Skipped()
	}
	summary.DuplicatesDropped = droppedBy(pipeline)

	summary.Duration = time.Since(start)
	logger.Info("Emitted %d chunks from %d documents (%d duplicates dropped)",
		summary.ChunksEmitted, summary.DocumentsCleaned, summary.DuplicatesDropped)
	c.observers.finish(summary)
	return summary, nil
}

// droppedBy sums the drop counters of every processor in the pipeline.
func droppedBy(pipeline driven.PostProcessorPipeline) int {
	lister, ok := pipeline.(interface {
		Processors() []driven.PostProcessor
	})
	if !ok {
		return 0
	}

	total := 0
	for _, p := range lister.Processors() {
		if d, ok := p.(interface{ Dropped() int }); ok {
			total += d.Dropped()
		}
	}
	return total
}
