package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driving"
	"github.com/custodia-labs/wikicorpus/internal/logger"
)

// Ensure Ingester implements the interface.
var _ driving.IngestService = (*Ingester)(nil)

// Ingester embeds chunks in batches and upserts them into the vector store.
type Ingester struct {
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	artifacts driven.ArtifactStore
	batchSize int
	observers Observers
}

// NewIngester creates a new ingester.
// The embedder and store are optional; Ingest fails without them.
func NewIngester(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	artifacts driven.ArtifactStore,
	batchSize int,
	observers Observers,
) *Ingester {
	if batchSize <= 0 {
		batchSize = domain.DefaultIngestBatchSize
	}
	return &Ingester{
		embedder:  embedder,
		store:     store,
		artifacts: artifacts,
		batchSize: batchSize,
		observers: observers,
	}
}

// Ingest streams the chunk file into the vector store.
func (i *Ingester) Ingest(ctx context.Context) (domain.StageSummary, error) {
	start := time.Now()
	summary := domain.StageSummary{Stage: domain.StageIngest}

	logger.Section("Ingest")

	if i.embedder == nil {
		return summary, domain.ErrEmbeddingUnavailable
	}
	if i.store == nil {
		return summary, domain.ErrVectorStoreUnavailable
	}

	r, err := i.artifacts.OpenChunks()
	if err != nil {
		return summary, fmt.Errorf("open chunk file: %w", err)
	}
	defer r.Close()

	logger.Info("Embedding with %s (%d dimensions), batches of %d",
		i.embedder.ModelName(), i.embedder.Dimensions(), i.batchSize)
	i.observers.start("ingest", 0)

	batch := make([]domain.Chunk, 0, i.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := i.ingestBatch(ctx, batch)
		if err != nil {
			return err
		}
		summary.PointsIngested += n
		i.observers.step(fmt.Sprintf("%d points", summary.PointsIngested))
		batch = batch[:0]
		return nil
	}

	for {
		chunk, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("read chunk file: %w", err)
		}

		batch = append(batch, chunk)
		if len(batch) == i.batchSize {
			if err := flush(); err != nil {
				return summary, err
			}
		}
	}
	if err := flush(); err != nil {
		return summary, err
	}

	if sc, ok := r.(skipCounter); ok {
		summary.LinesMalformed = sc.Skipped()
	}

	summary.Duration = time.Since(start)
	logger.Info("Ingested %d points", summary.PointsIngested)
	i.observers.finish(summary)
	return summary, nil
}

// ingestBatch embeds one batch and upserts it.
func (i *Ingester) ingestBatch(ctx context.Context, chunks []domain.Chunk) (int, error) {
	texts := make([]string, len(chunks))
	for j, c := range chunks {
		texts[j] = c.Text
	}

	vectors, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embed batch: got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	points := make([]domain.Point, len(chunks))
	for j, c := range chunks {
		points[j] = domain.Point{
			ID:     PointID(c.ID),
			Vector: vectors[j],
			Payload: domain.PointPayload{
				OriginalID: c.ID,
				Title:      c.Title,
				Text:       c.Text,
				Metadata:   c.Metadata,
			},
		}
	}

	if err := i.store.Upsert(ctx, points); err != nil {
		return 0, fmt.Errorf("upsert batch: %w", err)
	}
	return len(points), nil
}

// PointID formats a chunk id as a UUID. An md5 hex id maps onto the UUID
// with the same 16 bytes; any other id is hashed into a name-based UUID.
func PointID(chunkID string) string {
	if len(chunkID) == 32 {
		if id, err := uuid.Parse(chunkID); err == nil {
			return id.String()
		}
	}
	return uuid.NewMD5(uuid.NameSpaceOID, []byte(chunkID)).String()
}
