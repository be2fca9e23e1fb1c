package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driving"
	"github.com/custodia-labs/wikicorpus/internal/logger"
)

// Ensure CorpusPipeline implements the interface.
var _ driving.PipelineService = (*CorpusPipeline)(nil)

// CorpusPipeline runs stage services in sequence. Any service may be nil;
// asking for its stage then fails.
type CorpusPipeline struct {
	Harvester driving.HarvestService
	Classify  driving.ClassifyService
	Fetcher   driving.FetchService
	Cleaner   driving.CleanService
	Chunker   driving.ChunkService
	Ingester  driving.IngestService

	// Sweep selects the sweep entry point for the harvest stage.
	Sweep bool

	// Metrics is flushed after the last stage, even on failure.
	Metrics driven.MetricsRecorder
}

// Run executes stages in the order given and stops at the first error.
func (p *CorpusPipeline) Run(ctx context.Context, stages []domain.Stage) ([]domain.StageSummary, error) {
	for _, st := range stages {
		if !st.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStage, st)
		}
	}

	summaries := make([]domain.StageSummary, 0, len(stages))
	runErr := func() error {
		for _, st := range stages {
			if err := ctx.Err(); err != nil {
				return err
			}

			summary, err := p.runStage(ctx, st)
			if err != nil {
				return fmt.Errorf("stage %s: %w", st, err)
			}
			summaries = append(summaries, summary)
		}
		return nil
	}()

	if p.Metrics != nil {
		if err := p.Metrics.Flush(); err != nil {
			logger.Warn("writing metrics: %v", err)
		}
	}
	return summaries, runErr
}

func (p *CorpusPipeline) runStage(ctx context.Context, st domain.Stage) (domain.StageSummary, error) {
	unavailable := func() (domain.StageSummary, error) {
		return domain.StageSummary{Stage: st}, fmt.Errorf("%s stage is not configured", st)
	}

	switch st {
	case domain.StageHarvest:
		if p.Harvester == nil {
			return unavailable()
		}
		return p.Harvester.Harvest(ctx, p.Sweep)
	case domain.StageClassify:
		if p.Classify == nil {
			return unavailable()
		}
		return p.Classify.ClassifyIndex(ctx)
	case domain.StageFetch:
		if p.Fetcher == nil {
			return unavailable()
		}
		return p.Fetcher.Fetch(ctx)
	case domain.StageClean:
		if p.Cleaner == nil {
			return unavailable()
		}
		return p.Cleaner.Clean(ctx)
	case domain.StageChunk:
		if p.Chunker == nil {
			return unavailable()
		}
		return p.Chunker.Chunk(ctx)
	case domain.StageIngest:
		if p.Ingester == nil {
			return unavailable()
		}
		return p.Ingester.Ingest(ctx)
	default:
		return domain.StageSummary{Stage: st}, fmt.Errorf("%w: %q", domain.ErrUnknownStage, st)
	}
}
