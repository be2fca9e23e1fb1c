// Package cli provides the command-line interface of wikicorpus.
//
// Every pipeline stage is a subcommand. Services are built once per
// invocation by a Bootstrap supplied from main, after flags are parsed, so
// flag overrides reach the services' settings.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driving"
	"github.com/custodia-labs/wikicorpus/internal/logger"
)

// Command annotations read by the bootstrap.
const (
	// annotationNeeds lists what a command needs beyond the file stages.
	annotationNeeds = "wikicorpus/needs"

	needNothing   = "none"
	needEmbedding = "embedding"
	needOptional  = "embedding-optional"
)

// EmbeddingNeed tells the bootstrap how a command uses the embedding service.
type EmbeddingNeed int

const (
	// EmbeddingUnused skips the embedding service and vector store.
	EmbeddingUnused EmbeddingNeed = iota

	// EmbeddingOptional builds them if configured and carries on without.
	EmbeddingOptional

	// EmbeddingRequired builds them and fails if the service is unreachable.
	EmbeddingRequired
)

// Request describes what the invoked command needs from the bootstrap.
type Request struct {
	ConfigPath string
	Embedding  EmbeddingNeed

	// Sweep selects the sweep entry point for a chained harvest.
	Sweep bool

	// Adjust applies command-line overrides to the resolved settings.
	Adjust func(*domain.Settings)
}

// Services bundles the driving ports the commands call.
type Services struct {
	Settings driving.SettingsService
	Harvest  driving.HarvestService
	Classify driving.ClassifyService
	Fetch    driving.FetchService
	Clean    driving.CleanService
	Chunk    driving.ChunkService
	Ingest   driving.IngestService
	Search   driving.SearchService
	Pipeline driving.PipelineService

	// Close releases adapters opened for the run. May be nil.
	Close func() error
}

// Bootstrap builds the services for one invocation.
type Bootstrap func(ctx context.Context, req Request) (*Services, error)

var (
	version = "dev"

	configPath string
	verbose    bool

	bootstrap Bootstrap
	closer    func() error
)

// Services used by the commands. Set by the bootstrap or by tests.
var (
	settingsService driving.SettingsService
	harvestService  driving.HarvestService
	classifyService driving.ClassifyService
	fetchService    driving.FetchService
	cleanService    driving.CleanService
	chunkService    driving.ChunkService
	ingestService   driving.IngestService
	searchService   driving.SearchService
	pipelineService driving.PipelineService
)

var rootCmd = &cobra.Command{
	Use:   "wikicorpus",
	Short: "Build a retrieval corpus from a Wikipedia category tree",
	Long: `wikicorpus walks a Wikipedia category tree, keeps the page titles that
match the corpus rules, downloads their wikitext, cleans it into prose,
splits it into deduplicated chunks and loads the chunks into a local
vector store.

Each stage reads the artifact written by the previous one, so stages can
be run one at a time or chained with 'wikicorpus run'.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default wikicorpus.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress details")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the command tree with b building the services.
func Execute(ctx context.Context, b Bootstrap) error {
	bootstrap = b
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

// prepare configures logging and builds the services the command needs.
func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	needs := cmd.Annotations[annotationNeeds]
	if needs == "" || bootstrap == nil {
		return nil
	}

	req := Request{
		ConfigPath: configPath,
		Sweep:      harvestSweep,
		Adjust:     overrides(cmd),
	}
	switch needs {
	case needEmbedding:
		req.Embedding = EmbeddingRequired
	case needOptional:
		req.Embedding = EmbeddingOptional
	}

	services, err := bootstrap(cmd.Context(), req)
	if err != nil {
		return err
	}
	setServices(services)
	return nil
}

// setServices installs services for the commands.
func setServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	settingsService = s.Settings
	harvestService = s.Harvest
	classifyService = s.Classify
	fetchService = s.Fetch
	cleanService = s.Clean
	chunkService = s.Chunk
	ingestService = s.Ingest
	searchService = s.Search
	pipelineService = s.Pipeline
	closer = s.Close
}

func closeServices() {
	if closer == nil {
		return
	}
	if err := closer(); err != nil {
		logger.Warn("closing services: %v", err)
	}
	closer = nil
}

// overrides maps command-line flags that were set onto settings.
func overrides(cmd *cobra.Command) func(*domain.Settings) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	return func(s *domain.Settings) {
		if changed("root") {
			s.Harvest.Root = harvestRoot
		}
		if changed("max-depth") {
			s.Harvest.MaxDepth = harvestMaxDepth
		}
		if changed("limit") {
			s.Fetch.Limit = fetchLimit
		}
	}
}

// errNotConfigured reports a command run without its service.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}
