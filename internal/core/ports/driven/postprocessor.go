package driven

import (
	"context"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

// PostProcessor processes cleaned document content to produce chunks.
// PostProcessors are chained in a pipeline (e.g., chunking, deduplication).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and returns chunks.
	// If the processor filters chunks (e.g., dedup), it receives and returns chunks.
	// If the processor creates chunks (e.g., chunker), it receives nil and returns new chunks.
	Process(ctx context.Context, doc *domain.CleanedDocument, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	// Returns the final chunks after all processing.
	Process(ctx context.Context, doc *domain.CleanedDocument) ([]domain.Chunk, error)
}

// Tokenizer measures text in model-tokenizer units.
type Tokenizer interface {
	// Count returns the number of tokens in text.
	Count(text string) int

	// Name returns the encoding name.
	Name() string
}
