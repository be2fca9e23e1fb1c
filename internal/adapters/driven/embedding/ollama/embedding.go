// Package ollama embeds chunks with a local Ollama server.
package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/wikicorpus/internal/adapters/driven/embedding"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const provider = "ollama"

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultModel      = "all-minilm"
	DefaultTimeout    = 120 * time.Second
	DefaultDimensions = 384 // all-minilm (MiniLM-L6-v2)
)

// Config holds configuration for the Ollama embedding service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the embedding model to use (default: all-minilm).
	Model string

	// Timeout is the request timeout (default: 120s). Batches of several
	// hundred chunks take a while on CPU.
	Timeout time.Duration

	// Dimensions is the vector size the store expects. Responses of any
	// other size are rejected.
	Dimensions int
}

// EmbeddingService embeds texts through the /api/embed endpoint.
type EmbeddingService struct {
	api        *embedding.Client
	baseURL    string
	model      string
	dimensions int
}

// embedRequest asks for one vector per input. Long chunks are truncated to
// the model context rather than failing the batch.
type embedRequest struct {
	Model    string   `json:"model"`
	Input    []string `json:"input"`
	Truncate bool     `json:"truncate"`
}

type embedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float64 `json:"embeddings"`
}

// NewEmbeddingService creates a new Ollama embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}

	return &EmbeddingService{
		api: &embedding.Client{
			HTTP:         &http.Client{Timeout: cfg.Timeout},
			Provider:     provider,
			ErrorMessage: errorMessage,
		},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// Embed returns the vector of a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in one request, in input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp embedResponse
	req := embedRequest{Model: s.model, Input: texts, Truncate: true}
	if err := s.api.Do(ctx, http.MethodPost, s.baseURL+"/api/embed", req, &resp); err != nil {
		return nil, err
	}

	vecs := make([][]float32, len(resp.Embeddings))
	for i, v := range resp.Embeddings {
		vecs[i] = embedding.Float32(v)
	}
	if err := embedding.CheckVectors(provider, vecs, len(texts), s.dimensions); err != nil {
		return nil, err
	}
	return vecs, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping checks the server answers /api/tags, which lists models without
// running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.api.Do(ctx, http.MethodGet, s.baseURL+"/api/tags", nil, nil)
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// errorMessage reads Ollama's {"error": "..."} body.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) != nil {
		return ""
	}
	return e.Error
}
