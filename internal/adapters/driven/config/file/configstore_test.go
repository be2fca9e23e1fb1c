package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[api]
url = "https://de.wikipedia.org/w/api.php"
request_interval = "250ms"
timeout = 45000

[harvest]
root = "Category:Bilateral relations of Germany"
max_depth = 3
sweep_filter = "beziehungen"

[chunk]
encoding = "words"
stages = ["harvest", "fetch"]
ratio = 0.5
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wikicorpus.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewConfigStore_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wikicorpus.toml")

	store, err := NewConfigStore(path)
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())
	assert.Empty(t, store.Keys())

	// Nothing is written until a value is set.
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNewConfigStore_DefaultPath(t *testing.T) {
	t.Chdir(t.TempDir())

	store, err := NewConfigStore("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFileName, store.Path())
}

func TestConfigStore_FlattensTables(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "https://de.wikipedia.org/w/api.php", store.GetString("api.url"))
	assert.Equal(t, 3, store.GetInt("harvest.max_depth"))
	assert.Equal(t, "beziehungen", store.GetString("harvest.sweep_filter"))
	assert.Equal(t, []string{"harvest", "fetch"}, store.GetStringSlice("chunk.stages"))
	assert.InDelta(t, 0.5, store.GetFloat("chunk.ratio"), 1e-9)

	assert.Equal(t, []string{
		"api.request_interval", "api.timeout", "api.url",
		"chunk.encoding", "chunk.ratio", "chunk.stages",
		"harvest.max_depth", "harvest.root", "harvest.sweep_filter",
	}, store.Keys())
}

func TestConfigStore_GetDuration(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, store.GetDuration("api.request_interval"))
	assert.Equal(t, 45*time.Second, store.GetDuration("api.timeout"))
	assert.Zero(t, store.GetDuration("harvest.root"))
	assert.Zero(t, store.GetDuration("missing"))
}

func TestConfigStore_TypeMismatchReturnsZero(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Zero(t, store.GetInt("harvest.root"))
	assert.Empty(t, store.GetString("harvest.max_depth"))
	assert.False(t, store.GetBool("api.url"))
	assert.Nil(t, store.GetStringSlice("harvest.max_depth"))
	assert.Zero(t, store.GetFloat("api.url"))
}

func TestConfigStore_StringConversions(t *testing.T) {
	store, err := NewConfigStore(filepath.Join(t.TempDir(), "c.toml"))
	require.NoError(t, err)

	require.NoError(t, store.Set("fetch.limit", " 25 "))
	require.NoError(t, store.Set("run.stages", "harvest, fetch ,,clean"))

	assert.Equal(t, 25, store.GetInt("fetch.limit"))
	assert.Equal(t, []string{"harvest", "fetch", "clean"}, store.GetStringSlice("run.stages"))
}

func TestConfigStore_SaveWritesTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "wikicorpus.toml")
	store, err := NewConfigStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set("harvest.max_depth", 4))
	require.NoError(t, store.Set("harvest.root", "Category:X"))
	require.NoError(t, store.Set("verbose", true))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[harvest]")
	assert.NotContains(t, string(raw), "'harvest.max_depth'")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reloaded, err := NewConfigStore(path)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.GetInt("harvest.max_depth"))
	assert.Equal(t, "Category:X", reloaded.GetString("harvest.root"))
	assert.True(t, reloaded.GetBool("verbose"))
}

func TestConfigStore_InvalidTOML(t *testing.T) {
	_, err := NewConfigStore(writeConfig(t, "[harvest\nmax_depth = "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestConfigStore_EmptyFile(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, ""))
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(filepath.Join(t.TempDir(), "c.toml"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetString(key)
			_, _ = store.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Keys(), 10)
}

func TestNestMap(t *testing.T) {
	got := nestMap(map[string]any{
		"a":     1,
		"a.b":   2,
		"c.d.e": "x",
		"c.f":   true,
	})

	assert.Equal(t, map[string]any{
		"a": 1,
		"c": map[string]any{
			"d": map[string]any{"e": "x"},
			"f": true,
		},
	}, got)
}
