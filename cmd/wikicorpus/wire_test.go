package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikicorpus/internal/adapters/driving/cli"
	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

// writeConfig writes a config whose artifacts live under dir.
func writeConfig(t *testing.T, dir, embedding string) string {
	t.Helper()

	config := `[chunk]
encoding = "words"

[store]
dir = "` + filepath.ToSlash(filepath.Join(dir, "vectors")) + `"

[paths]
index = "` + filepath.ToSlash(filepath.Join(dir, "index.csv")) + `"

` + embedding
	path := filepath.Join(dir, "wikicorpus.toml")
	require.NoError(t, os.WriteFile(path, []byte(config), 0o600))
	return path
}

func quietProgress(t *testing.T) {
	t.Helper()
	original := progressOut
	progressOut = new(bytes.Buffer)
	t.Cleanup(func() { progressOut = original })
}

func TestBuild_FileStagesOnly(t *testing.T) {
	quietProgress(t)
	dir := t.TempDir()
	t.Chdir(dir)

	svc, err := build(context.Background(), cli.Request{ConfigPath: writeConfig(t, dir, "")})
	require.NoError(t, err)

	assert.NotNil(t, svc.Harvest)
	assert.NotNil(t, svc.Fetch)
	assert.NotNil(t, svc.Clean)
	assert.NotNil(t, svc.Chunk)
	assert.NotNil(t, svc.Pipeline)
	assert.NoDirExists(t, filepath.Join(dir, "vectors"))
	assert.NoError(t, svc.Close())

	settings, err := svc.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "index.csv"), filepath.FromSlash(settings.Paths.Index))
}

func TestBuild_AppliesAdjust(t *testing.T) {
	quietProgress(t)
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := build(context.Background(), cli.Request{
		ConfigPath: writeConfig(t, dir, ""),
		Adjust:     func(s *domain.Settings) { s.Harvest.MaxDepth = -1 },
	})

	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuild_RequiredEmbeddingWithoutProvider(t *testing.T) {
	quietProgress(t)
	dir := t.TempDir()
	t.Chdir(dir)
	config := writeConfig(t, dir, "[embedding]\nprovider = \"none\"\n")

	_, err := build(context.Background(), cli.Request{ConfigPath: config, Embedding: cli.EmbeddingRequired})

	require.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestBuild_OptionalEmbeddingOpensStore(t *testing.T) {
	quietProgress(t)
	dir := t.TempDir()
	t.Chdir(dir)
	config := writeConfig(t, dir, "[embedding]\nprovider = \"none\"\n")

	svc, err := build(context.Background(), cli.Request{ConfigPath: config, Embedding: cli.EmbeddingOptional})
	require.NoError(t, err)
	defer svc.Close()

	assert.DirExists(t, filepath.Join(dir, "vectors"))

	_, err = svc.Ingest.Ingest(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestBuild_BadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "wikicorpus.toml")
	require.NoError(t, os.WriteFile(path, []byte("[harvest\n"), 0o600))

	_, err := build(context.Background(), cli.Request{ConfigPath: path})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestPipelineFactory(t *testing.T) {
	factory, err := pipelineFactory(domain.ChunkSettings{Size: 10, Overlap: 2, Encoding: "words"})
	require.NoError(t, err)

	first, err := factory()
	require.NoError(t, err)
	second, err := factory()
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestCloseAll_NothingOpened(t *testing.T) {
	assert.NoError(t, closeAll(nil, nil)())
}
