package driving

import (
	"context"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

// HarvestService discovers page titles by walking the category graph.
type HarvestService interface {
	// Drill traverses from root down to maxDepth.
	Drill(ctx context.Context, root string, maxDepth int) (*domain.HarvestResult, error)

	// Sweep treats every subcategory of root as an entry point and drills
	// into each, admitting only subcategories whose title contains filter.
	Sweep(ctx context.Context, root, filter string) (*domain.HarvestResult, error)

	// Harvest runs the harvest stage: traverse, classify and write the index.
	Harvest(ctx context.Context, sweep bool) (domain.StageSummary, error)
}

// ClassifyService re-applies the title classifier to an existing index.
type ClassifyService interface {
	ClassifyIndex(ctx context.Context) (domain.StageSummary, error)
}
