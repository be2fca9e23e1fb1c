package driving

import (
	"context"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

// FetchService downloads raw wikitext for every KEPT index entry.
type FetchService interface {
	Fetch(ctx context.Context) (domain.StageSummary, error)
}

// CleanService turns the raw corpus into the cleaned corpus.
type CleanService interface {
	Clean(ctx context.Context) (domain.StageSummary, error)
}

// ChunkService splits the cleaned corpus into deduplicated chunks.
type ChunkService interface {
	Chunk(ctx context.Context) (domain.StageSummary, error)
}

// IngestService embeds chunks and stores them in the vector store.
type IngestService interface {
	Ingest(ctx context.Context) (domain.StageSummary, error)
}

// PipelineService runs a sequence of stages in order.
type PipelineService interface {
	// Run executes stages in the order given and stops at the first error.
	// Summaries of the stages that completed are returned either way.
	Run(ctx context.Context, stages []domain.Stage) ([]domain.StageSummary, error)
}
