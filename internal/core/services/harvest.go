package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driving"
	"github.com/custodia-labs/wikicorpus/internal/logger"
)

// Ensure Harvester implements the interfaces.
var (
	_ driving.HarvestService  = (*Harvester)(nil)
	_ driving.ClassifyService = (*Harvester)(nil)
)

// Harvester walks the category graph and writes the harvest index.
type Harvester struct {
	source     driven.CategorySource
	classifier driven.TitleClassifier
	artifacts  driven.ArtifactStore
	settings   domain.HarvestSettings
	observers  Observers
}

// NewHarvester creates a new harvester.
func NewHarvester(
	source driven.CategorySource,
	classifier driven.TitleClassifier,
	artifacts driven.ArtifactStore,
	settings domain.HarvestSettings,
	observers Observers,
) *Harvester {
	return &Harvester{
		source:     source,
		classifier: classifier,
		artifacts:  artifacts,
		settings:   settings,
		observers:  observers,
	}
}

// Drill traverses from root down to maxDepth.
func (h *Harvester) Drill(ctx context.Context, root string, maxDepth int) (*domain.HarvestResult, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("%w: empty root category", domain.ErrInvalidInput)
	}
	if maxDepth < 0 {
		return nil, fmt.Errorf("%w: negative max depth %d", domain.ErrInvalidInput, maxDepth)
	}

	t := h.newTraversal(nil)
	if err := t.run(ctx, domain.CategoryTitle(root), maxDepth); err != nil {
		return t.result, err
	}
	return t.result, nil
}

// Sweep lists the subcategories of root and drills into each of them with
// the configured sweep depth. Below each entry point only subcategories
// whose title contains filter (case-insensitive) are expanded. All entry
// points share one visited set.
func (h *Harvester) Sweep(ctx context.Context, root, filter string) (*domain.HarvestResult, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("%w: empty root category", domain.ErrInvalidInput)
	}
	root = domain.CategoryTitle(root)

	depth := h.settings.SweepDepth
	if depth < 0 {
		depth = 0
	}

	needle := strings.ToLower(filter)
	t := h.newTraversal(func(title string) bool {
		return strings.Contains(strings.ToLower(title), needle)
	})

	var countries []string
	err := h.source.WalkMembers(ctx, domain.MemberQuery{Root: root, Types: domain.MemberSubcategories},
		func(page *domain.MemberPage) error {
			for _, m := range page.Members {
				if m.Namespace == domain.NamespaceCategory {
					countries = append(countries, m.Title)
				}
			}
			return nil
		})
	// A failed listing keeps the entry points already delivered.
	if err != nil {
		if ctx.Err() != nil {
			return t.result, ctx.Err()
		}
		t.result.Failures++
		logger.Warn("listing entry points of %s: %v", root, err)
	}

	t.result.Visited[root] = domain.CategoryNode{Title: root, Namespace: domain.NamespaceCategory}
	logger.Info("Sweeping %d entry points under %s (depth %d, filter %q)", len(countries), root, depth, filter)

	for _, country := range countries {
		if err := t.run(ctx, country, depth); err != nil {
			return t.result, err
		}
		if t.exhausted {
			break
		}
	}
	return t.result, nil
}

// Harvest runs the harvest stage: traverse, classify and write the index.
func (h *Harvester) Harvest(ctx context.Context, sweep bool) (domain.StageSummary, error) {
	start := time.Now()
	summary := domain.StageSummary{Stage: domain.StageHarvest}

	logger.Section("Harvest")
	h.observers.start("harvest", 0)

	var (
		result *domain.HarvestResult
		err    error
	)
	if sweep {
		result, err = h.Sweep(ctx, h.settings.Root, h.settings.SweepFilter)
	} else {
		result, err = h.Drill(ctx, h.settings.Root, h.settings.MaxDepth)
	}
	if err != nil {
		return summary, err
	}

	entries := make([]domain.IndexEntry, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		entry := domain.IndexEntry{Candidate: c, Verdict: h.classifier.Classify(c.Title)}
		countVerdict(&summary, entry.Verdict)
		entries = append(entries, entry)
	}

	if err := h.artifacts.SaveIndex(entries); err != nil {
		return summary, fmt.Errorf("save index: %w", err)
	}

	summary.CategoriesVisited = result.NodesExpanded
	summary.CategoryFailures = result.Failures
	summary.PagesHarvested = len(result.Candidates)
	summary.Duration = time.Since(start)

	logger.Info("Harvested %d pages from %d categories (%d kept, %d failed categories)",
		summary.PagesHarvested, summary.CategoriesVisited, summary.PagesKept, summary.CategoryFailures)
	h.observers.finish(summary)
	return summary, nil
}

// ClassifyIndex re-applies the classifier to every entry of the index.
// Running it twice yields the same index.
func (h *Harvester) ClassifyIndex(_ context.Context) (domain.StageSummary, error) {
	start := time.Now()
	summary := domain.StageSummary{Stage: domain.StageClassify}

	logger.Section("Classify")

	entries, err := h.artifacts.LoadIndex(false)
	if err != nil {
		return summary, fmt.Errorf("load index: %w", err)
	}

	h.observers.start("classify", len(entries))
	for i := range entries {
		entries[i].Verdict = h.classifier.Classify(entries[i].Title)
		countVerdict(&summary, entries[i].Verdict)
		h.observers.step(entries[i].Title)
	}

	if err := h.artifacts.SaveIndex(entries); err != nil {
		return summary, fmt.Errorf("save index: %w", err)
	}

	summary.PagesHarvested = len(entries)
	summary.Duration = time.Since(start)
	logger.Info("Classified %d titles: %d kept, %d ignored", len(entries), summary.PagesKept, summary.PagesIgnored)
	h.observers.finish(summary)
	return summary, nil
}

func countVerdict(summary *domain.StageSummary, v domain.Verdict) {
	if v.Kept() {
		summary.PagesKept++
	} else {
		summary.PagesIgnored++
	}
}

// frame is one pending category on the worklist.
type frame struct {
	title string
	depth int
}

// traversal is the per-run state of a category walk. The visited set lives
// in result.Visited and is discarded with the traversal.
type traversal struct {
	source    driven.CategorySource
	admit     func(title string) bool
	maxNodes  int
	observers Observers
	result    *domain.HarvestResult
	exhausted bool
}

func (h *Harvester) newTraversal(admit func(string) bool) *traversal {
	return &traversal{
		source:    h.source,
		admit:     admit,
		maxNodes:  h.settings.MaxNodes,
		observers: h.observers,
		result: &domain.HarvestResult{
			Visited: make(map[string]domain.CategoryNode),
		},
	}
}

// run expands root and everything reachable from it down to maxDepth.
// The worklist is a LIFO stack, so categories are expanded in the same
// pre-order a recursive walk would use. A title is marked visited when it
// is popped; a category reached twice is expanded only the first time.
func (t *traversal) run(ctx context.Context, root string, maxDepth int) error {
	stack := []frame{{title: root, depth: 0}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := t.result.Visited[f.title]; seen {
			continue
		}
		if t.maxNodes > 0 && t.result.NodesExpanded >= t.maxNodes {
			if !t.exhausted {
				logger.Warn("node budget of %d categories exhausted, stopping traversal", t.maxNodes)
			}
			t.exhausted = true
			return nil
		}

		t.result.Visited[f.title] = domain.CategoryNode{
			Title:     f.title,
			Namespace: domain.NamespaceCategory,
			Depth:     f.depth,
		}

		subcats, err := t.expand(ctx, f, f.depth < maxDepth)
		if err != nil {
			return err
		}

		// Push in reverse so the first observed subcategory is expanded first.
		for i := len(subcats) - 1; i >= 0; i-- {
			if _, seen := t.result.Visited[subcats[i]]; seen {
				continue
			}
			stack = append(stack, frame{title: subcats[i], depth: f.depth + 1})
		}
	}
	return nil
}

// expand lists every member of one category. Pages become candidates;
// subcategories are returned when descend is set. An API failure keeps
// whatever was listed before it and is counted, not returned. Only
// cancellation is returned as an error.
func (t *traversal) expand(ctx context.Context, f frame, descend bool) ([]string, error) {
	var subcats []string
	pages := 0

	err := t.source.WalkMembers(ctx, domain.MemberQuery{Root: f.title, Types: domain.MemberBoth},
		func(page *domain.MemberPage) error {
			for _, m := range page.Members {
				switch m.Namespace {
				case domain.NamespacePage:
					if t.addCandidate(m, f) {
						pages++
					}
				case domain.NamespaceCategory:
					if descend && (t.admit == nil || t.admit(m.Title)) {
						subcats = append(subcats, m.Title)
					}
				}
			}
			return nil
		})

	t.result.NodesExpanded++
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		t.result.Failures++
		logger.Warn("category %s: %v", f.title, err)
	}

	logger.Debug("%s (depth %d): %d pages, %d subcategories", f.title, f.depth, pages, len(subcats))
	t.observers.step(fmt.Sprintf("%s [depth %d, %d pages]", f.title, f.depth, len(t.result.Candidates)))
	return subcats, nil
}

// addCandidate records a page the first time its title is seen.
func (t *traversal) addCandidate(m domain.Member, f frame) bool {
	if _, seen := t.result.Visited[m.Title]; seen {
		return false
	}
	t.result.Visited[m.Title] = domain.CategoryNode{
		Title:     m.Title,
		Namespace: domain.NamespacePage,
		Depth:     f.depth,
	}
	t.result.Candidates = append(t.result.Candidates, domain.Candidate{
		Title:          m.Title,
		RevisionID:     m.RevisionID,
		SourceCategory: f.title,
		Depth:          f.depth,
	})
	return true
}
