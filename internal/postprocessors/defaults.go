package postprocessors

import (
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
	"github.com/custodia-labs/wikicorpus/internal/postprocessors/chunker"
	"github.com/custodia-labs/wikicorpus/internal/postprocessors/dedup"
)

// DefaultChain is the processor order used by the chunk stage.
var DefaultChain = []string{"chunker", "dedup"}

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
	r.Register("dedup", buildDedup)
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Tokens per chunk (default: 300)
//   - overlap (int): Overlapping tokens between chunks (default: 50)
//   - type_tag (string): Metadata type (default: geopolitical_event)
//   - tokenizer (driven.Tokenizer): Token counter (default: words)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size, ok := getIntFromConfig(cfg, "chunk_size"); ok {
			opts = append(opts, chunker.WithChunkSize(size))
		}
		if overlap, ok := getIntFromConfig(cfg, "overlap"); ok {
			opts = append(opts, chunker.WithOverlap(overlap))
		}
		if tag, ok := cfg["type_tag"].(string); ok {
			opts = append(opts, chunker.WithTypeTag(tag))
		}
		if tok, ok := cfg["tokenizer"].(driven.Tokenizer); ok {
			opts = append(opts, chunker.WithTokenizer(tok))
		}
	}

	return chunker.New(opts...), nil
}

// buildDedup creates a dedup processor with a fresh seen set.
func buildDedup(_ map[string]any) (driven.PostProcessor, error) {
	return dedup.New(), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
