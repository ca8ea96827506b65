package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfigStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewConfigStore("")

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(home, ".ansa", "config.toml"), store.Path())

	// Cleanup
	_ = os.Remove(store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := newTestConfigStore(t)

	err := store.Set("index.collection", "pdf_chunks")
	require.NoError(t, err)

	val, ok := store.Get("index.collection")
	assert.True(t, ok)
	assert.Equal(t, "pdf_chunks", val)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("llm.model", "gpt-5-nano"))
	require.NoError(t, store.Set("chunking.max_chars", 1000))
	require.NoError(t, store.Set("index.verbose", true))

	assert.Equal(t, "gpt-5-nano", store.GetString("llm.model"))
	assert.Equal(t, 1000, store.GetInt("chunking.max_chars"))
	assert.True(t, store.GetBool("index.verbose"))

	// Missing keys yield zero values.
	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("missing"))
	assert.False(t, store.GetBool("missing"))

	// Type mismatches yield zero values too.
	assert.Equal(t, "", store.GetString("chunking.max_chars"))
	assert.Equal(t, 0, store.GetInt("llm.model"))
	assert.False(t, store.GetBool("llm.model"))
}

func TestConfigStore_PersistsAcrossReopen(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("retrieval.top_k", 10))
	require.NoError(t, store.Set("embedding.model", "text-embedding-3-small"))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 10, reopened.GetInt("retrieval.top_k"))
	assert.Equal(t, "text-embedding-3-small", reopened.GetString("embedding.model"))
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	tmpDir := t.TempDir()

	// A hand-edited config file uses TOML tables, not dotted keys.
	content := "[chunking]\nmax_chars = 1000\noverlap_chars = 150\n\n[answer]\nrefusal = \"nope\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 1000, store.GetInt("chunking.max_chars"))
	assert.Equal(t, 150, store.GetInt("chunking.overlap_chars"))
	assert.Equal(t, "nope", store.GetString("answer.refusal"))
}

func TestConfigStore_LoadMissingFileStartsEmpty(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Load())

	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_LoadInvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not [valid toml"), 0600))

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newTestConfigStore(t)
	require.NoError(t, store.Set("embedding.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)

	// The file may hold API keys.
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFlattenMap(t *testing.T) {
	nested := map[string]any{
		"top": "value",
		"index": map[string]any{
			"backend":    "sqlite",
			"collection": "pdf_chunks",
		},
		"a": map[string]any{
			"b": map[string]any{
				"c": int64(3),
			},
		},
	}

	flat := flattenMap(nested, "")

	assert.Equal(t, "value", flat["top"])
	assert.Equal(t, "sqlite", flat["index.backend"])
	assert.Equal(t, "pdf_chunks", flat["index.collection"])
	assert.Equal(t, int64(3), flat["a.b.c"])
}
