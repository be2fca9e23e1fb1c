package domain

import (
	"fmt"
	"time"
)

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderNone disables embedding.
	AIProviderNone AIProvider = "none"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderNone:
		return true
	default:
		return false
	}
}

// Settings is the resolved configuration of a pipeline run.
type Settings struct {
	API       APISettings
	Harvest   HarvestSettings
	Fetch     FetchSettings
	Clean     CleanSettings
	Chunk     ChunkSettings
	Embedding EmbeddingSettings
	Ingest    IngestSettings
	Paths     PathSettings
	StoreDir  string

	// MetricsTextfile is written with stage counters when non-empty.
	MetricsTextfile string
}

// APISettings configures the MediaWiki API client.
type APISettings struct {
	URL             string
	UserAgent       string
	Timeout         time.Duration
	RequestInterval time.Duration
}

// HarvestSettings configures the category traversal.
type HarvestSettings struct {
	Root            string
	MaxDepth        int
	MaxNodes        int
	MaxPagesPerNode int
	SweepFilter     string
	SweepDepth      int
}

// FetchSettings configures raw content download.
type FetchSettings struct {
	BatchSize  int
	BatchDelay time.Duration
	Limit      int
}

// CleanSettings configures markup cleaning.
type CleanSettings struct {
	MinLength int
}

// ChunkSettings configures chunking. Sizes are in tokenizer units.
type ChunkSettings struct {
	Size     int
	Overlap  int
	Encoding string
	TypeTag  string
}

// EmbeddingSettings configures the embedding service.
type EmbeddingSettings struct {
	Provider   AIProvider
	BaseURL    string
	Model      string
	Dimensions int
	APIKey     string
}

// IngestSettings configures vector store ingestion.
type IngestSettings struct {
	BatchSize int
}

// PathSettings locates the file-based hand-off artifacts.
type PathSettings struct {
	Index   string
	Raw     string
	Clean   string
	Chunks  string
	Results string
}

// Default settings values.
const (
	DefaultAPIURL          = "https://en.wikipedia.org/w/api.php"
	DefaultUserAgent       = "wikicorpus/1.0 (https://github.com/custodia-labs/wikicorpus)"
	DefaultRoot            = "Category:Bilateral relations by country"
	DefaultMaxDepth        = 2
	DefaultMaxPagesPerNode = 5000
	DefaultSweepFilter     = "relations"
	DefaultSweepDepth      = 1
	DefaultFetchBatchSize  = 50
	DefaultChunkSize       = 300
	DefaultChunkOverlap    = 50
	DefaultEncoding        = "cl100k_base"
	DefaultIngestBatchSize = 512
)

// DefaultSettings returns the settings used when no config is present.
func DefaultSettings() Settings {
	return Settings{
		API: APISettings{
			URL:             DefaultAPIURL,
			UserAgent:       DefaultUserAgent,
			Timeout:         30 * time.Second,
			RequestInterval: 100 * time.Millisecond,
		},
		Harvest: HarvestSettings{
			Root:            DefaultRoot,
			MaxDepth:        DefaultMaxDepth,
			MaxPagesPerNode: DefaultMaxPagesPerNode,
			SweepFilter:     DefaultSweepFilter,
			SweepDepth:      DefaultSweepDepth,
		},
		Fetch: FetchSettings{
			BatchSize:  DefaultFetchBatchSize,
			BatchDelay: 100 * time.Millisecond,
		},
		Clean: CleanSettings{
			MinLength: MinCleanedLength,
		},
		Chunk: ChunkSettings{
			Size:     DefaultChunkSize,
			Overlap:  DefaultChunkOverlap,
			Encoding: DefaultEncoding,
			TypeTag:  DefaultChunkType,
		},
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOllama,
			Model:      "all-minilm",
			Dimensions: 384,
		},
		Ingest: IngestSettings{
			BatchSize: DefaultIngestBatchSize,
		},
		Paths: PathSettings{
			Index:   "wiki_bilateral_relations.csv",
			Raw:     "rag_corpus_raw.jsonl",
			Clean:   "rag_corpus_clean.txt",
			Chunks:  "rag_corpus_chunked.jsonl",
			Results: "search_results.txt",
		},
		StoreDir: "vector_storage",
	}
}

// IsConfigured reports whether an embedding provider is selected and has
// what it needs to run.
func (e EmbeddingSettings) IsConfigured() bool {
	switch e.Provider {
	case AIProviderOllama:
		return e.Model != ""
	case AIProviderOpenAI:
		return e.Model != "" && e.APIKey != ""
	default:
		return false
	}
}

// Validate checks settings that would otherwise fail deep inside a stage.
func (s Settings) Validate() error {
	switch {
	case s.API.URL == "":
		return fmt.Errorf("%w: api.url is empty", ErrInvalidInput)
	case s.Harvest.Root == "":
		return fmt.Errorf("%w: harvest.root is empty", ErrInvalidInput)
	case s.Harvest.MaxDepth < 0:
		return fmt.Errorf("%w: harvest.max_depth must not be negative", ErrInvalidInput)
	case s.Fetch.BatchSize <= 0 || s.Fetch.BatchSize > 50:
		return fmt.Errorf("%w: fetch.batch_size must be between 1 and 50", ErrInvalidInput)
	case s.Chunk.Size <= 0:
		return fmt.Errorf("%w: chunk.size must be positive", ErrInvalidInput)
	case s.Chunk.Overlap < 0 || s.Chunk.Overlap >= s.Chunk.Size:
		return fmt.Errorf("%w: chunk.overlap must be in [0, chunk.size)", ErrInvalidInput)
	case s.Ingest.BatchSize <= 0:
		return fmt.Errorf("%w: ingest.batch_size must be positive", ErrInvalidInput)
	case !s.Embedding.Provider.IsValid():
		return fmt.Errorf("%w: unknown embedding provider %q", ErrInvalidInput, s.Embedding.Provider)
	}
	return nil
}
