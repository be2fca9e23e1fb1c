package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driving"
	"github.com/custodia-labs/wikicorpus/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyAPIURL             = "api.url"
	keyAPIUserAgent       = "api.user_agent"
	keyAPITimeout         = "api.timeout"
	keyAPIRequestInterval = "api.request_interval"
	keyHarvestRoot        = "harvest.root"
	keyHarvestMaxDepth    = "harvest.max_depth"
	keyHarvestMaxNodes    = "harvest.max_nodes"
	keyHarvestMaxPages    = "harvest.max_pages_per_node"
	keyHarvestSweepFilter = "harvest.sweep_filter"
	keyHarvestSweepDepth  = "harvest.sweep_depth"
	keyFetchBatchSize     = "fetch.batch_size"
	keyFetchBatchDelay    = "fetch.batch_delay"
	keyFetchLimit         = "fetch.limit"
	keyCleanMinLength     = "clean.min_length"
	keyChunkSize          = "chunk.size"
	keyChunkOverlap       = "chunk.overlap"
	keyChunkEncoding      = "chunk.encoding"
	keyChunkTypeTag       = "chunk.type_tag"
	keyEmbedProvider      = "embedding.provider"
	keyEmbedBaseURL       = "embedding.base_url"
	keyEmbedModel         = "embedding.model"
	keyEmbedDimensions    = "embedding.dimensions"
	keyEmbedAPIKey        = "embedding.api_key"
	keyIngestBatchSize    = "ingest.batch_size"
	keyStoreDir           = "store.dir"
	keyPathIndex          = "paths.index"
	keyPathRaw            = "paths.raw"
	keyPathClean          = "paths.clean"
	keyPathChunks         = "paths.chunks"
	keyPathResults        = "paths.results"
	keyMetricsTextfile    = "metrics.textfile"
)

// Environment variables that override the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvAPIURL         = "WIKICORPUS_API_URL"
	EnvUserAgent      = "WIKICORPUS_USER_AGENT"
	EnvEmbedProvider  = "WIKICORPUS_EMBEDDING_PROVIDER"
	EnvEmbedBaseURL   = "WIKICORPUS_EMBEDDING_URL"
	EnvEmbedModel     = "WIKICORPUS_EMBEDDING_MODEL"
	EnvOpenAIAPIKey   = "WIKICORPUS_OPENAI_API_KEY"
	EnvStoreDir       = "WIKICORPUS_STORE_DIR"
	envOpenAIFallback = "OPENAI_API_KEY"
)

var knownKeys = map[string]bool{
	keyAPIURL: true, keyAPIUserAgent: true, keyAPITimeout: true, keyAPIRequestInterval: true,
	keyHarvestRoot: true, keyHarvestMaxDepth: true, keyHarvestMaxNodes: true, keyHarvestMaxPages: true,
	keyHarvestSweepFilter: true, keyHarvestSweepDepth: true,
	keyFetchBatchSize: true, keyFetchBatchDelay: true, keyFetchLimit: true,
	keyCleanMinLength: true,
	keyChunkSize: true, keyChunkOverlap: true, keyChunkEncoding: true, keyChunkTypeTag: true,
	keyEmbedProvider: true, keyEmbedBaseURL: true, keyEmbedModel: true, keyEmbedDimensions: true, keyEmbedAPIKey: true,
	keyIngestBatchSize: true, keyStoreDir: true,
	keyPathIndex: true, keyPathRaw: true, keyPathClean: true, keyPathChunks: true, keyPathResults: true,
	keyMetricsTextfile: true,
}

// SettingsService resolves run settings. Precedence, lowest first:
// built-in defaults, config file, environment.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service reading the process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// WithEnv replaces the environment lookup, for tests.
func (s *SettingsService) WithEnv(lookup func(string) (string, bool)) *SettingsService {
	s.lookupEnv = lookup
	return s
}

// Get retrieves current settings and validates them.
func (s *SettingsService) Get() (*domain.Settings, error) {
	d := domain.DefaultSettings()

	for _, key := range s.configStore.Keys() {
		if !knownKeys[key] {
			logger.Warn("%s: unknown config key %q ignored", s.configStore.Path(), key)
		}
	}

	settings := &domain.Settings{
		API: domain.APISettings{
			URL:             s.getString(keyAPIURL, d.API.URL),
			UserAgent:       s.getString(keyAPIUserAgent, d.API.UserAgent),
			Timeout:         s.getDuration(keyAPITimeout, d.API.Timeout),
			RequestInterval: s.getDuration(keyAPIRequestInterval, d.API.RequestInterval),
		},
		Harvest: domain.HarvestSettings{
			Root:            s.getString(keyHarvestRoot, d.Harvest.Root),
			MaxDepth:        s.getInt(keyHarvestMaxDepth, d.Harvest.MaxDepth),
			MaxNodes:        s.getInt(keyHarvestMaxNodes, d.Harvest.MaxNodes),
			MaxPagesPerNode: s.getInt(keyHarvestMaxPages, d.Harvest.MaxPagesPerNode),
			SweepFilter:     s.getString(keyHarvestSweepFilter, d.Harvest.SweepFilter),
			SweepDepth:      s.getInt(keyHarvestSweepDepth, d.Harvest.SweepDepth),
		},
		Fetch: domain.FetchSettings{
			BatchSize:  s.getInt(keyFetchBatchSize, d.Fetch.BatchSize),
			BatchDelay: s.getDuration(keyFetchBatchDelay, d.Fetch.BatchDelay),
			Limit:      s.getInt(keyFetchLimit, d.Fetch.Limit),
		},
		Clean: domain.CleanSettings{
			MinLength: s.getInt(keyCleanMinLength, d.Clean.MinLength),
		},
		Chunk: domain.ChunkSettings{
			Size:     s.getInt(keyChunkSize, d.Chunk.Size),
			Overlap:  s.getInt(keyChunkOverlap, d.Chunk.Overlap),
			Encoding: s.getString(keyChunkEncoding, d.Chunk.Encoding),
			TypeTag:  s.getString(keyChunkTypeTag, d.Chunk.TypeTag),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:   domain.AIProvider(s.getString(keyEmbedProvider, string(d.Embedding.Provider))),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // No default - adapters know their own
			Model:      s.getString(keyEmbedModel, d.Embedding.Model),
			Dimensions: s.getInt(keyEmbedDimensions, d.Embedding.Dimensions),
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
		},
		Ingest: domain.IngestSettings{
			BatchSize: s.getInt(keyIngestBatchSize, d.Ingest.BatchSize),
		},
		Paths: domain.PathSettings{
			Index:   s.getString(keyPathIndex, d.Paths.Index),
			Raw:     s.getString(keyPathRaw, d.Paths.Raw),
			Clean:   s.getString(keyPathClean, d.Paths.Clean),
			Chunks:  s.getString(keyPathChunks, d.Paths.Chunks),
			Results: s.getString(keyPathResults, d.Paths.Results),
		},
		StoreDir:        s.getString(keyStoreDir, d.StoreDir),
		MetricsTextfile: s.configStore.GetString(keyMetricsTextfile),
	}

	s.applyEnv(settings)

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// applyEnv overlays environment variables onto settings.
func (s *SettingsService) applyEnv(settings *domain.Settings) {
	if v, ok := s.env(EnvAPIURL); ok {
		settings.API.URL = v
	}
	if v, ok := s.env(EnvUserAgent); ok {
		settings.API.UserAgent = v
	}
	if v, ok := s.env(EnvEmbedProvider); ok {
		settings.Embedding.Provider = domain.AIProvider(strings.ToLower(v))
	}
	if v, ok := s.env(EnvEmbedBaseURL); ok {
		settings.Embedding.BaseURL = v
	}
	if v, ok := s.env(EnvEmbedModel); ok {
		settings.Embedding.Model = v
	}
	if v, ok := s.env(EnvStoreDir); ok {
		settings.StoreDir = v
	}
	if v, ok := s.env(EnvOpenAIAPIKey); ok {
		settings.Embedding.APIKey = v
	} else if v, ok := s.env(envOpenAIFallback); ok && settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = v
	}
}

// env returns a non-blank environment value.
func (s *SettingsService) env(name string) (string, bool) {
	v, ok := s.lookupEnv(name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// LoadDotEnv loads variables from .env style files into the process
// environment without overriding variables that are already set.
// Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", path, err)
		}
		logger.Debug("Loaded environment from %s", path)
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt returns defaultVal only when the key is absent, so an explicit
// zero (max_depth = 0) is honoured.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	d := s.configStore.GetDuration(key)
	if d < 0 {
		return defaultVal
	}
	return d
}
