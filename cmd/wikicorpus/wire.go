package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/custodia-labs/wikicorpus/internal/adapters/driven/ai"
	"github.com/custodia-labs/wikicorpus/internal/adapters/driven/artifacts"
	"github.com/custodia-labs/wikicorpus/internal/adapters/driven/config/file"
	"github.com/custodia-labs/wikicorpus/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/wikicorpus/internal/adapters/driven/tokenizer"
	"github.com/custodia-labs/wikicorpus/internal/adapters/driving/cli"
	"github.com/custodia-labs/wikicorpus/internal/classifier"
	"github.com/custodia-labs/wikicorpus/internal/connectors/mediawiki"
	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
	"github.com/custodia-labs/wikicorpus/internal/core/services"
	"github.com/custodia-labs/wikicorpus/internal/logger"
	"github.com/custodia-labs/wikicorpus/internal/metrics"
	"github.com/custodia-labs/wikicorpus/internal/normalisers/wikitext"
	"github.com/custodia-labs/wikicorpus/internal/postprocessors"
	"github.com/custodia-labs/wikicorpus/internal/progress"
)

// dotEnvFile is loaded before settings are resolved.
const dotEnvFile = ".env"

// progressOut receives stage progress. Stdout is left for results.
var progressOut io.Writer = os.Stderr

// build assembles the services for one invocation.
func build(_ context.Context, req cli.Request) (*cli.Services, error) {
	if err := services.LoadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}

	configStore, err := file.NewConfigStore(req.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	if req.Adjust != nil {
		req.Adjust(settings)
		if err := settings.Validate(); err != nil {
			return nil, err
		}
	}

	newPipeline, err := pipelineFactory(settings.Chunk)
	if err != nil {
		return nil, err
	}

	client := mediawiki.NewClient(mediawiki.Config{
		BaseURL:         settings.API.URL,
		UserAgent:       settings.API.UserAgent,
		Timeout:         settings.API.Timeout,
		RequestInterval: settings.API.RequestInterval,
		MaxPagesPerNode: settings.Harvest.MaxPagesPerNode,
	})
	store := artifacts.NewStore(settings.Paths)
	recorder := metrics.New(settings.MetricsTextfile)
	observers := services.Observers{
		Progress: progress.New(progressOut),
		Metrics:  recorder,
	}

	harvester := services.NewHarvester(client, classifier.NewDefault(), store, settings.Harvest, observers)
	fetcher := services.NewFetcher(client, store, settings.Fetch, observers)
	cleaner := services.NewCleaner(wikitext.New(settings.Clean.MinLength), store, observers)
	chunker := services.NewChunker(newPipeline, store, observers)

	embedder, vectors, err := openEmbedding(req.Embedding, settings)
	if err != nil {
		return nil, err
	}
	ingester := services.NewIngester(embedder, vectors, store, settings.Ingest.BatchSize, observers)
	searcher := services.NewSearcher(embedder, vectors)

	return &cli.Services{
		Settings: settingsService,
		Harvest:  harvester,
		Classify: harvester,
		Fetch:    fetcher,
		Clean:    cleaner,
		Chunk:    chunker,
		Ingest:   ingester,
		Search:   searcher,
		Pipeline: &services.CorpusPipeline{
			Harvester: harvester,
			Classify:  harvester,
			Fetcher:   fetcher,
			Cleaner:   cleaner,
			Chunker:   chunker,
			Ingester:  ingester,
			Sweep:     req.Sweep,
			Metrics:   recorder,
		},
		Close: closeAll(embedder, vectors),
	}, nil
}

// pipelineFactory returns a builder for the chunker then dedup chain.
// The tokenizer is resolved once so a bad encoding fails before any stage runs.
func pipelineFactory(cfg domain.ChunkSettings) (services.PipelineFactory, error) {
	tok, err := tokenizer.New(cfg.Encoding)
	if err != nil {
		return nil, fmt.Errorf("chunk.encoding: %w", err)
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	config := map[string]map[string]any{
		"chunker": {
			"chunk_size": cfg.Size,
			"overlap":    cfg.Overlap,
			"type_tag":   cfg.TypeTag,
			"tokenizer":  tok,
		},
	}

	return func() (driven.PostProcessorPipeline, error) {
		pipeline, err := registry.BuildPipeline(postprocessors.DefaultChain, config)
		if err != nil {
			return nil, err
		}
		return pipeline, nil
	}, nil
}

// openEmbedding opens the embedding service and vector store when the
// command needs them. An optional embedding that fails to start is logged
// and left nil so the file stages still run.
func openEmbedding(need cli.EmbeddingNeed, settings *domain.Settings) (driven.EmbeddingService, driven.VectorStore, error) {
	var (
		embedder driven.EmbeddingService
		err      error
	)

	switch need {
	case cli.EmbeddingUnused:
		return nil, nil, nil
	case cli.EmbeddingRequired:
		embedder, err = ai.CreateAndValidateEmbeddingService(&settings.Embedding)
		if err != nil {
			return nil, nil, err
		}
		if embedder == nil {
			return nil, nil, fmt.Errorf("%w: set embedding.provider and embedding.model in %s",
				domain.ErrEmbeddingUnavailable, file.DefaultFileName)
		}
	case cli.EmbeddingOptional:
		embedder, err = ai.CreateEmbeddingService(&settings.Embedding)
		if err != nil {
			logger.Warn("embedding disabled: %v", err)
			embedder = nil
		}
	}

	vectors, err := sqlite.NewStore(settings.StoreDir)
	if err != nil {
		if embedder != nil {
			embedder.Close()
		}
		return nil, nil, fmt.Errorf("opening vector store: %w", err)
	}
	return embedder, vectors, nil
}

// closeAll releases whichever adapters were opened.
func closeAll(embedder driven.EmbeddingService, vectors driven.VectorStore) func() error {
	return func() error {
		var errs []error
		if vectors != nil {
			errs = append(errs, vectors.Close())
		}
		if embedder != nil {
			errs = append(errs, embedder.Close())
		}
		return errors.Join(errs...)
	}
}
