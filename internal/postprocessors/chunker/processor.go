// Package chunker provides a token-aware recursive text chunking processor.
package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of tokens per chunk.
const DefaultChunkSize = 300

// DefaultChunkOverlap is the default number of overlapping tokens.
const DefaultChunkOverlap = 50

// Processor splits document content into overlapping chunks measured in
// tokenizer units. It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
	typeTag   string
	tokenizer driven.Tokenizer
	splitter  textsplitter.RecursiveCharacter
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in tokens.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in tokens.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithTokenizer sets the tokenizer used to measure chunks.
func WithTokenizer(t driven.Tokenizer) Option {
	return func(p *Processor) {
		if t != nil {
			p.tokenizer = t
		}
	}
}

// WithTypeTag sets the type written into chunk metadata.
func WithTypeTag(tag string) Option {
	return func(p *Processor) {
		if tag != "" {
			p.typeTag = tag
		}
	}
}

// New creates a new chunker processor with the given options.
// Without a tokenizer, chunks are measured in whitespace-separated words.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		typeTag:   domain.DefaultChunkType,
		tokenizer: wordCounter{},
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	p.splitter = textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(p.chunkSize),
		textsplitter.WithChunkOverlap(p.overlap),
		textsplitter.WithLenFunc(p.tokenizer.Count),
	)

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured chunk size in tokens.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap in tokens.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Tokenizer returns the tokenizer measuring chunks.
func (p *Processor) Tokenizer() driven.Tokenizer {
	return p.tokenizer
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
// Each chunk id is the content hash of its text.
func (p *Processor) Process(_ context.Context, doc *domain.CleanedDocument, _ []domain.Chunk) ([]domain.Chunk, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return nil, nil
	}

	parts, err := p.splitter.SplitText(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("split %q: %w", doc.Title, err)
	}

	chunks := make([]domain.Chunk, 0, len(parts))
	for _, text := range parts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ID:    domain.ContentHash(text),
			Title: doc.Title,
			Text:  text,
			Metadata: domain.ChunkMetadata{
				Source: doc.Title,
				Type:   p.typeTag,
			},
		})
	}

	return chunks, nil
}

// wordCounter measures text in whitespace-separated words.
type wordCounter struct{}

func (wordCounter) Count(text string) int { return len(strings.Fields(text)) }
func (wordCounter) Name() string          { return "words" }
