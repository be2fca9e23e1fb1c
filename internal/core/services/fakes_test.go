package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/custodia-labs/wikicorpus/internal/adapters/driven/artifacts"
	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
)

// --- Mock implementations shared by the stage tests ---

// fakeGraph implements driven.CategorySource over an in-memory category graph.
// Members of each category are delivered pageSize at a time.
type fakeGraph struct {
	members  map[string][]domain.Member
	pageSize int
	// failAfter makes a category fail once this many pages were delivered.
	failAfter map[string]int

	mu       sync.Mutex
	expanded []string
}

var _ driven.CategorySource = (*fakeGraph)(nil)

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		members:   make(map[string][]domain.Member),
		pageSize:  2,
		failAfter: make(map[string]int),
	}
}

// cat adds subcategories to a category.
func (g *fakeGraph) cat(parent string, children ...string) *fakeGraph {
	for _, c := range children {
		g.members[parent] = append(g.members[parent], domain.Member{Title: c, Namespace: domain.NamespaceCategory})
	}
	return g
}

// page adds pages to a category. Revision ids derive from the title length.
func (g *fakeGraph) page(parent string, titles ...string) *fakeGraph {
	for _, t := range titles {
		g.members[parent] = append(g.members[parent], domain.Member{
			Title:      t,
			Namespace:  domain.NamespacePage,
			RevisionID: int64(len(t)),
		})
	}
	return g
}

func (g *fakeGraph) ListMembers(_ context.Context, q domain.MemberQuery) (*domain.MemberPage, error) {
	return nil, fmt.Errorf("ListMembers not used by traversal: %s", q.Root)
}

func (g *fakeGraph) WalkMembers(
	ctx context.Context,
	q domain.MemberQuery,
	visit func(*domain.MemberPage) error,
) error {
	g.mu.Lock()
	g.expanded = append(g.expanded, q.Root)
	g.mu.Unlock()

	var filtered []domain.Member
	for _, m := range g.members[q.Root] {
		switch q.Types {
		case domain.MemberPages:
			if m.Namespace != domain.NamespacePage {
				continue
			}
		case domain.MemberSubcategories:
			if m.Namespace != domain.NamespaceCategory {
				continue
			}
		}
		filtered = append(filtered, m)
	}

	limit, failing := g.failAfter[q.Root]
	delivered := 0
	for start := 0; start < len(filtered); start += g.pageSize {
		if failing && delivered == limit {
			return fmt.Errorf("%w: HTTP 503", domain.ErrTransport)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+g.pageSize, len(filtered))
		if err := visit(&domain.MemberPage{Members: filtered[start:end]}); err != nil {
			return err
		}
		delivered++
	}
	if failing {
		return fmt.Errorf("%w: HTTP 503", domain.ErrTransport)
	}
	return nil
}

func (g *fakeGraph) expansions() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.expanded...)
}

// fakeContent implements driven.ContentSource.
type fakeContent struct {
	content map[string]string
	failOn  map[int]bool // 1-based batch numbers that fail
	batches [][]string
}

var _ driven.ContentSource = (*fakeContent)(nil)

func (c *fakeContent) FetchContent(_ context.Context, titles []string) ([]domain.RawDocument, error) {
	c.batches = append(c.batches, append([]string(nil), titles...))
	if c.failOn[len(c.batches)] {
		return nil, fmt.Errorf("%w: connection reset", domain.ErrTransport)
	}

	var docs []domain.RawDocument
	for _, t := range titles {
		if text, ok := c.content[t]; ok && text != "" {
			docs = append(docs, domain.RawDocument{Title: t, RawContent: text})
		}
	}
	return docs, nil
}

// fakeEmbedder implements driven.EmbeddingService with a bag-of-letters vector.
type fakeEmbedder struct {
	batches  []int
	embedErr error
}

var _ driven.EmbeddingService = (*fakeEmbedder)(nil)

func letterVector(text string) []float32 {
	vec := make([]float32, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	return vec
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.embedErr != nil {
		return nil, e.embedErr
	}
	return letterVector(text), nil
}

func (e *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if e.embedErr != nil {
		return nil, e.embedErr
	}
	e.batches = append(e.batches, len(texts))
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = letterVector(t)
	}
	return out, nil
}

func (e *fakeEmbedder) Dimensions() int              { return 26 }
func (e *fakeEmbedder) ModelName() string            { return "letters" }
func (e *fakeEmbedder) Ping(_ context.Context) error { return nil }
func (e *fakeEmbedder) Close() error                 { return nil }

// recordingProgress implements driven.ProgressReporter.
type recordingProgress struct {
	labels    []string
	steps     int
	summaries []domain.StageSummary
}

func (p *recordingProgress) Start(label string, _ int) { p.labels = append(p.labels, label) }
func (p *recordingProgress) Step(_ string)             { p.steps++ }
func (p *recordingProgress) Finish(s domain.StageSummary) {
	p.summaries = append(p.summaries, s)
}

// recordingMetrics implements driven.MetricsRecorder.
type recordingMetrics struct {
	stages   []domain.Stage
	flushed  int
	flushErr error
}

func (m *recordingMetrics) RecordStage(s domain.StageSummary) { m.stages = append(m.stages, s.Stage) }
func (m *recordingMetrics) Flush() error {
	m.flushed++
	return m.flushErr
}

// testArtifacts returns an artifact store rooted in a temp dir.
func testArtifacts(t *testing.T) *artifacts.Store {
	t.Helper()
	dir := t.TempDir()
	return artifacts.NewStore(domain.PathSettings{
		Index:   filepath.Join(dir, "index.csv"),
		Raw:     filepath.Join(dir, "raw.jsonl"),
		Clean:   filepath.Join(dir, "clean.txt"),
		Chunks:  filepath.Join(dir, "chunks.jsonl"),
		Results: filepath.Join(dir, "results.txt"),
	})
}

var errBoom = errors.New("boom")
