// Package dedup provides a processor that drops chunks already seen in the run.
package dedup

import (
	"context"
	"sync"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

// Processor filters out chunks whose content hash was seen before.
// The seen set lives as long as the processor, so build one per run.
type Processor struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	dropped int
}

// New creates a dedup processor with an empty seen set.
func New() *Processor {
	return &Processor{seen: make(map[string]struct{})}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "dedup"
}

// Process keeps the first occurrence of every chunk text and drops the rest.
// Chunks without an id are hashed here.
func (p *Processor) Process(_ context.Context, _ *domain.CleanedDocument, chunks []domain.Chunk) ([]domain.Chunk, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := make([]domain.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if c.ID == "" {
			c.ID = domain.ContentHash(c.Text)
		}
		if _, ok := p.seen[c.ID]; ok {
			p.dropped++
			continue
		}
		p.seen[c.ID] = struct{}{}
		kept = append(kept, c)
	}
	return kept, nil
}

// Dropped returns how many duplicates have been dropped.
func (p *Processor) Dropped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Seen returns how many distinct chunks have passed through.
func (p *Processor) Seen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.seen)
}

// Reset clears the seen set and counters.
func (p *Processor) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = make(map[string]struct{})
	p.dropped = 0
}
