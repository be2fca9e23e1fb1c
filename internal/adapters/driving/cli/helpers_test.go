package cli

import (
	"context"
	"testing"

	"github.com/spf13/pflag"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

// stubServices implements every driving port the commands use.
type stubServices struct {
	settings *domain.Settings
	err      error
	calls    []string

	sweep bool
	query string
	topK  int
	hits  []domain.ScoredPoint
}

func (s *stubServices) record(name string, summary domain.StageSummary) (domain.StageSummary, error) {
	s.calls = append(s.calls, name)
	return summary, s.err
}

func (s *stubServices) Get() (*domain.Settings, error) { return s.settings, nil }

func (s *stubServices) Drill(context.Context, string, int) (*domain.HarvestResult, error) {
	return &domain.HarvestResult{}, s.err
}

func (s *stubServices) Sweep(context.Context, string, string) (*domain.HarvestResult, error) {
	return &domain.HarvestResult{}, s.err
}

func (s *stubServices) Harvest(_ context.Context, sweep bool) (domain.StageSummary, error) {
	s.sweep = sweep
	return s.record("harvest", domain.StageSummary{
		Stage: domain.StageHarvest, PagesHarvested: 40, CategoriesVisited: 12, PagesKept: 31, PagesIgnored: 9,
	})
}

func (s *stubServices) ClassifyIndex(context.Context) (domain.StageSummary, error) {
	return s.record("classify", domain.StageSummary{Stage: domain.StageClassify, PagesKept: 31, PagesIgnored: 9})
}

func (s *stubServices) Fetch(context.Context) (domain.StageSummary, error) {
	return s.record("fetch", domain.StageSummary{Stage: domain.StageFetch, PagesFetched: 30, PagesMissing: 1})
}

func (s *stubServices) Clean(context.Context) (domain.StageSummary, error) {
	return s.record("clean", domain.StageSummary{Stage: domain.StageClean, DocumentsCleaned: 28, DocumentsShort: 2})
}

func (s *stubServices) Chunk(context.Context) (domain.StageSummary, error) {
	return s.record("chunk", domain.StageSummary{Stage: domain.StageChunk, ChunksEmitted: 90, DuplicatesDropped: 4})
}

func (s *stubServices) Ingest(context.Context) (domain.StageSummary, error) {
	return s.record("ingest", domain.StageSummary{Stage: domain.StageIngest, PointsIngested: 90})
}

func (s *stubServices) Search(_ context.Context, query string, topK int) ([]domain.ScoredPoint, error) {
	s.query = query
	s.topK = topK
	return s.hits, s.err
}

func (s *stubServices) Run(_ context.Context, stages []domain.Stage) ([]domain.StageSummary, error) {
	var summaries []domain.StageSummary
	for _, st := range stages {
		s.calls = append(s.calls, string(st))
		if s.err != nil {
			return summaries, s.err
		}
		summaries = append(summaries, domain.StageSummary{Stage: st})
	}
	return summaries, nil
}

// setupTestServices installs stub services and resets flag state.
func setupTestServices(t *testing.T) *stubServices {
	t.Helper()

	settings := domain.DefaultSettings()
	stubs := &stubServices{settings: &settings}
	setServices(&Services{
		Settings: stubs,
		Harvest:  stubs,
		Classify: stubs,
		Fetch:    stubs,
		Clean:    stubs,
		Chunk:    stubs,
		Ingest:   stubs,
		Search:   stubs,
		Pipeline: stubs,
	})

	t.Cleanup(func() {
		setServices(nil)
		bootstrap = nil
		resetFlags()
	})
	return stubs
}

// resetFlags restores flag variables changed by a test run.
func resetFlags() {
	configPath = ""
	verbose = false
	harvestSweep = false
	harvestRoot = ""
	harvestMaxDepth = domain.DefaultMaxDepth
	fetchLimit = 0
	queryOut = ""
	queryTopK = 5
	runStages = defaultRunStages()

	unchange := func(f *pflag.Flag) { f.Changed = false }
	rootCmd.PersistentFlags().VisitAll(unchange)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(unchange)
	}
}
