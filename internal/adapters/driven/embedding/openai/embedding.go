// Package openai embeds chunks with the OpenAI embeddings API or any
// endpoint compatible with it.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/wikicorpus/internal/adapters/driven/embedding"
	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const provider = "openai"

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "text-embedding-3-small"
	DefaultTimeout = 60 * time.Second

	// MaxInputsPerRequest is the API limit on inputs in one call. Larger
	// batches are split.
	MaxInputsPerRequest = 2048
)

// ErrMissingAPIKey indicates the service was configured without a key.
var ErrMissingAPIKey = errors.New("openai: API key is required")

// Native sizes of the hosted models.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config holds configuration for the OpenAI embedding service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Model is the embedding model to use (default: text-embedding-3-small).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Dimensions is the vector size the store expects. text-embedding-3-*
	// models are asked to shorten their output to it; other models must
	// already produce it. Zero uses the model's native size.
	Dimensions int
}

// EmbeddingService embeds texts through the /embeddings endpoint.
type EmbeddingService struct {
	api        *embedding.Client
	baseURL    string
	model      string
	dimensions int
	shorten    bool
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// NewEmbeddingService creates a new OpenAI embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	native, known := modelDimensions[cfg.Model]
	dimensions := cfg.Dimensions
	if dimensions == 0 {
		dimensions = native
	}

	return &EmbeddingService{
		api: &embedding.Client{
			HTTP:         &http.Client{Timeout: cfg.Timeout},
			Provider:     provider,
			Header:       http.Header{"Authorization": {"Bearer " + cfg.APIKey}},
			ErrorMessage: errorMessage,
		},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		dimensions: dimensions,
		shorten:    strings.HasPrefix(cfg.Model, "text-embedding-3-") && known && dimensions != native,
	}, nil
}

// Embed returns the vector of a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in input order, splitting batches above
// MaxInputsPerRequest.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vecs := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += MaxInputsPerRequest {
		end := min(start+MaxInputsPerRequest, len(texts))
		part, err := s.embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vecs = append(vecs, part...)
	}
	return vecs, nil
}

func (s *EmbeddingService) embed(ctx context.Context, texts []string) ([][]float32, error) {
	req := embeddingRequest{Model: s.model, Input: texts}
	if s.shorten {
		req.Dimensions = s.dimensions
	}

	var resp embeddingResponse
	if err := s.api.Do(ctx, http.MethodPost, s.baseURL+"/embeddings", req, &resp); err != nil {
		return nil, err
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai: returned %d embeddings for %d inputs: %w",
			len(resp.Data), len(texts), domain.ErrDecode)
	}

	// Data may come back in any order; Index points at the input.
	vecs := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) || vecs[d.Index] != nil {
			return nil, fmt.Errorf("openai: bad embedding index %d: %w", d.Index, domain.ErrDecode)
		}
		vecs[d.Index] = embedding.Float32(d.Embedding)
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

// Ping lists models, which checks the key without running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.api.Do(ctx, http.MethodGet, s.baseURL+"/models", nil, nil)
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// errorMessage reads the {"error": {"message": "..."}} body.
func errorMessage(body []byte) string {
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &e) != nil {
		return ""
	}
	return e.Error.Message
}
