package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

var runStages []string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run several stages in order",
	Long: `Runs the given stages one after the other and stops at the first failure.

Example:
  wikicorpus run --stages harvest,fetch,clean,chunk,ingest`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNeeds: needOptional},
	RunE:        runPipeline,
}

func init() {
	runCmd.Flags().StringSliceVar(&runStages, "stages", defaultRunStages(), "comma-separated stages to run")
	runCmd.Flags().BoolVar(&harvestSweep, "sweep", false, "harvest with the sweep entry point")
	runCmd.Flags().IntVar(&fetchLimit, "limit", 0, "fetch at most this many KEPT titles")
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	stages, err := domain.ParseStages(runStages)
	if err != nil {
		return err
	}
	if len(stages) == 0 {
		return fmt.Errorf("%w: no stages given", domain.ErrInvalidInput)
	}
	if pipelineService == nil {
		return errNotConfigured("pipeline")
	}

	summaries, err := pipelineService.Run(cmd.Context(), stages)
	for _, s := range summaries {
		printSummary(cmd, s)
	}
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}

// defaultRunStages is every stage except classify, which harvest already does.
func defaultRunStages() []string {
	names := make([]string, 0, len(domain.AllStages()))
	for _, st := range domain.AllStages() {
		if st == domain.StageClassify {
			continue
		}
		names = append(names, string(st))
	}
	return names
}
