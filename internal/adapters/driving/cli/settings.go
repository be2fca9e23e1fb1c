package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the resolved settings",
	Long: `Prints the settings a run would use: built-in defaults, overridden by
the config file, overridden by WIKICORPUS_* environment variables.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNeeds: needNothing},
	RunE:        runSettingsShow,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[API]")
	cmd.Printf("  URL: %s\n", settings.API.URL)
	cmd.Printf("  User agent: %s\n", settings.API.UserAgent)
	cmd.Printf("  Timeout: %s\n", settings.API.Timeout)
	cmd.Printf("  Request interval: %s\n", settings.API.RequestInterval)
	cmd.Println()

	cmd.Println("[Harvest]")
	cmd.Printf("  Root: %s\n", settings.Harvest.Root)
	cmd.Printf("  Max depth: %d\n", settings.Harvest.MaxDepth)
	cmd.Printf("  Max nodes: %s\n", unlimited(settings.Harvest.MaxNodes))
	cmd.Printf("  Max pages per category: %s\n", unlimited(settings.Harvest.MaxPagesPerNode))
	cmd.Printf("  Sweep filter: %q (depth %d)\n", settings.Harvest.SweepFilter, settings.Harvest.SweepDepth)
	cmd.Println()

	cmd.Println("[Fetch]")
	cmd.Printf("  Batch size: %d\n", settings.Fetch.BatchSize)
	cmd.Printf("  Batch delay: %s\n", settings.Fetch.BatchDelay)
	cmd.Printf("  Limit: %s\n", unlimited(settings.Fetch.Limit))
	cmd.Println()

	cmd.Println("[Clean / Chunk]")
	cmd.Printf("  Min length: %d\n", settings.Clean.MinLength)
	cmd.Printf("  Chunk size: %d (overlap %d, %s)\n", settings.Chunk.Size, settings.Chunk.Overlap, settings.Chunk.Encoding)
	cmd.Printf("  Type tag: %s\n", settings.Chunk.TypeTag)
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider)
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider == domain.AIProviderOpenAI {
		if settings.Embedding.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !settings.Embedding.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Printf("  Ingest batch size: %d\n", settings.Ingest.BatchSize)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Index: %s\n", settings.Paths.Index)
	cmd.Printf("  Raw corpus: %s\n", settings.Paths.Raw)
	cmd.Printf("  Clean corpus: %s\n", settings.Paths.Clean)
	cmd.Printf("  Chunks: %s\n", settings.Paths.Chunks)
	cmd.Printf("  Results: %s\n", settings.Paths.Results)
	cmd.Printf("  Vector store: %s\n", settings.StoreDir)
	if settings.MetricsTextfile != "" {
		cmd.Printf("  Metrics textfile: %s\n", settings.MetricsTextfile)
	}
	cmd.Println()

	cmd.Println("Configuration is valid.")
	return nil
}

func unlimited(n int) string {
	if n <= 0 {
		return "unlimited"
	}
	return fmt.Sprint(n)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
