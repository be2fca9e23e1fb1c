package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

var (
	harvestSweep    bool
	harvestRoot     string
	harvestMaxDepth int
	fetchLimit      int
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Walk the category tree and write the harvest index",
	Long: `Walks the category tree below harvest.root down to harvest.max_depth,
classifies every page title found and writes the harvest index.

With --sweep every subcategory of the root is treated as an entry point
and only subcategories whose title contains harvest.sweep_filter are
followed below it.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNeeds: needNothing},
	RunE:        runHarvest,
}

var classifyCmd = &cobra.Command{
	Use:         "classify",
	Short:       "Re-apply the title rules to an existing index",
	Long:        `Reclassifies every title of the harvest index in place. Running it twice gives the same index.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNeeds: needNothing},
	RunE:        runClassify,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download wikitext for every KEPT title",
	Long: `Reads the harvest index and downloads the current wikitext of every KEPT
title in batches. Pages that are missing or empty are skipped.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNeeds: needNothing},
	RunE:        runFetch,
}

var cleanCmd = &cobra.Command{
	Use:         "clean",
	Short:       "Strip wiki markup from the raw corpus",
	Long:        `Turns the raw corpus into plain prose and drops documents that end up shorter than clean.min_length.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNeeds: needNothing},
	RunE:        runClean,
}

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Split the cleaned corpus into deduplicated chunks",
	Long: `Splits every cleaned document into overlapping chunks measured in
tokenizer units. A passage already emitted in this run is dropped.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNeeds: needNothing},
	RunE:        runChunk,
}

var ingestCmd = &cobra.Command{
	Use:         "ingest",
	Short:       "Embed chunks and load them into the vector store",
	Long:        `Embeds the chunk file in batches with the configured embedding provider and upserts the vectors.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNeeds: needEmbedding},
	RunE:        runIngest,
}

func init() {
	harvestCmd.Flags().BoolVar(&harvestSweep, "sweep", false, "treat each subcategory of the root as an entry point")
	harvestCmd.Flags().StringVar(&harvestRoot, "root", "", "root category (overrides harvest.root)")
	harvestCmd.Flags().IntVar(&harvestMaxDepth, "max-depth", domain.DefaultMaxDepth, "traversal depth (overrides harvest.max_depth)")
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 0, "fetch at most this many KEPT titles")

	rootCmd.AddCommand(harvestCmd, classifyCmd, fetchCmd, cleanCmd, chunkCmd, ingestCmd)
}

func runHarvest(cmd *cobra.Command, _ []string) error {
	if harvestService == nil {
		return errNotConfigured("harvest")
	}

	summary, err := harvestService.Harvest(cmd.Context(), harvestSweep)
	if err != nil {
		return fmt.Errorf("harvest failed: %w", err)
	}
	printSummary(cmd, summary)
	return nil
}

func runClassify(cmd *cobra.Command, _ []string) error {
	if classifyService == nil {
		return errNotConfigured("classify")
	}

	summary, err := classifyService.ClassifyIndex(cmd.Context())
	if err != nil {
		return fmt.Errorf("classify failed: %w", err)
	}
	printSummary(cmd, summary)
	return nil
}

func runFetch(cmd *cobra.Command, _ []string) error {
	if fetchService == nil {
		return errNotConfigured("fetch")
	}

	summary, err := fetchService.Fetch(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	printSummary(cmd, summary)
	return nil
}

func runClean(cmd *cobra.Command, _ []string) error {
	if cleanService == nil {
		return errNotConfigured("clean")
	}

	summary, err := cleanService.Clean(cmd.Context())
	if err != nil {
		return fmt.Errorf("clean failed: %w", err)
	}
	printSummary(cmd, summary)
	return nil
}

func runChunk(cmd *cobra.Command, _ []string) error {
	if chunkService == nil {
		return errNotConfigured("chunk")
	}

	summary, err := chunkService.Chunk(cmd.Context())
	if err != nil {
		return fmt.Errorf("chunk failed: %w", err)
	}
	printSummary(cmd, summary)
	return nil
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errNotConfigured("ingest")
	}

	summary, err := ingestService.Ingest(cmd.Context())
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	printSummary(cmd, summary)
	return nil
}

// printSummary prints the one-line result of a stage.
func printSummary(cmd *cobra.Command, s domain.StageSummary) {
	cmd.Printf("%s: %s\n", s.Stage, headline(s))
}

// headline condenses the counters that matter for a stage.
func headline(s domain.StageSummary) string {
	switch s.Stage {
	case domain.StageHarvest:
		return fmt.Sprintf("%d pages from %d categories, %d kept, %d ignored",
			s.PagesHarvested, s.CategoriesVisited, s.PagesKept, s.PagesIgnored)
	case domain.StageClassify:
		return fmt.Sprintf("%d kept, %d ignored", s.PagesKept, s.PagesIgnored)
	case domain.StageFetch:
		return fmt.Sprintf("%d pages fetched, %d missing, %d failed batches",
			s.PagesFetched, s.PagesMissing, s.BatchesFailed)
	case domain.StageClean:
		return fmt.Sprintf("%d documents cleaned, %d too short", s.DocumentsCleaned, s.DocumentsShort)
	case domain.StageChunk:
		return fmt.Sprintf("%d chunks emitted, %d duplicates dropped", s.ChunksEmitted, s.DuplicatesDropped)
	case domain.StageIngest:
		return fmt.Sprintf("%d points ingested", s.PointsIngested)
	default:
		return "done"
	}
}
