package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

// recordingBootstrap returns a bootstrap that records requests and hands
// out the stubs.
func recordingBootstrap(stubs *stubServices, reqs *[]Request, closed *int) Bootstrap {
	return func(_ context.Context, req Request) (*Services, error) {
		*reqs = append(*reqs, req)
		return &Services{
			Settings: stubs,
			Harvest:  stubs,
			Classify: stubs,
			Fetch:    stubs,
			Clean:    stubs,
			Chunk:    stubs,
			Ingest:   stubs,
			Search:   stubs,
			Pipeline: stubs,
			Close: func() error {
				*closed++
				return nil
			},
		}, nil
	}
}

func executeWith(t *testing.T, b Bootstrap, args ...string) error {
	t.Helper()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()
	return Execute(context.Background(), b)
}

func TestExecute_BuildsRequestPerCommand(t *testing.T) {
	tests := []struct {
		args      []string
		embedding EmbeddingNeed
	}{
		{[]string{"harvest"}, EmbeddingUnused},
		{[]string{"fetch"}, EmbeddingUnused},
		{[]string{"ingest"}, EmbeddingRequired},
		{[]string{"query", "rome"}, EmbeddingRequired},
		{[]string{"run"}, EmbeddingOptional},
		{[]string{"settings"}, EmbeddingUnused},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			stubs := setupTestServices(t)
			var reqs []Request
			var closed int

			err := executeWith(t, recordingBootstrap(stubs, &reqs, &closed), tt.args...)

			require.NoError(t, err)
			require.Len(t, reqs, 1)
			assert.Equal(t, tt.embedding, reqs[0].Embedding)
			assert.Equal(t, 1, closed)
		})
	}
}

func TestExecute_VersionSkipsBootstrap(t *testing.T) {
	stubs := setupTestServices(t)
	var reqs []Request
	var closed int

	err := executeWith(t, recordingBootstrap(stubs, &reqs, &closed), "version")

	require.NoError(t, err)
	assert.Empty(t, reqs)
	assert.Zero(t, closed)
}

func TestExecute_PassesFlagsThrough(t *testing.T) {
	stubs := setupTestServices(t)
	var reqs []Request
	var closed int

	err := executeWith(t, recordingBootstrap(stubs, &reqs, &closed),
		"--config", "custom.toml", "run", "--sweep", "--limit", "3")

	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "custom.toml", reqs[0].ConfigPath)
	assert.True(t, reqs[0].Sweep)

	settings := domain.DefaultSettings()
	reqs[0].Adjust(&settings)
	assert.Equal(t, 3, settings.Fetch.Limit)
	assert.Equal(t, domain.DefaultMaxDepth, settings.Harvest.MaxDepth)
	assert.Equal(t, domain.DefaultRoot, settings.Harvest.Root)
}

func TestExecute_BootstrapError(t *testing.T) {
	stubs := setupTestServices(t)
	failing := func(context.Context, Request) (*Services, error) {
		return nil, errors.New("no config")
	}

	err := executeWith(t, failing, "clean")

	require.EqualError(t, err, "no config")
	assert.Empty(t, stubs.calls)
}

func TestOverrides_HarvestFlags(t *testing.T) {
	setupTestServices(t)
	require.NoError(t, harvestCmd.ParseFlags([]string{"--root", "Category:Treaties", "--max-depth", "0"}))

	settings := domain.DefaultSettings()
	overrides(harvestCmd)(&settings)

	assert.Equal(t, "Category:Treaties", settings.Harvest.Root)
	assert.Equal(t, 0, settings.Harvest.MaxDepth)
	assert.Equal(t, 0, settings.Fetch.Limit)
}

func TestOverrides_NothingChanged(t *testing.T) {
	setupTestServices(t)

	settings := domain.DefaultSettings()
	overrides(cleanCmd)(&settings)

	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}
