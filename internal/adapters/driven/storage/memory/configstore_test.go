package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	err := store.Set("index.collection", "pdf_chunks")
	require.NoError(t, err)

	val, ok := store.Get("index.collection")
	assert.True(t, ok)
	assert.Equal(t, "pdf_chunks", val)
}

func TestConfigStore_Set_Update(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("chunking.max_chars", 1000))
	require.NoError(t, store.Set("chunking.max_chars", 500))

	assert.Equal(t, 500, store.GetInt("chunking.max_chars"))
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store := NewConfigStore()

	val, ok := store.Get("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_TypeAssertions(t *testing.T) {
	store := NewConfigStore()

	_ = store.Set("llm.model", "gpt-5-nano")
	_ = store.Set("retrieval.top_k", 10)
	_ = store.Set("retrieval.top_k_64", int64(12))
	_ = store.Set("chunking.overlap_chars", float64(150.0))
	_ = store.Set("verbose", true)

	assert.Equal(t, "gpt-5-nano", store.GetString("llm.model"))
	assert.Equal(t, "", store.GetString("retrieval.top_k"))

	assert.Equal(t, 10, store.GetInt("retrieval.top_k"))
	assert.Equal(t, 12, store.GetInt("retrieval.top_k_64"))
	assert.Equal(t, 150, store.GetInt("chunking.overlap_chars"))
	assert.Equal(t, 0, store.GetInt("llm.model"))

	assert.True(t, store.GetBool("verbose"))
	assert.False(t, store.GetBool("llm.model"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_SaveAndLoad_NoOp(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())

	_ = store.Set("document.path", "report.pdf")
	require.NoError(t, store.Save())
	assert.Equal(t, "report.pdf", store.GetString("document.path"))
}

func TestConfigStore_Path(t *testing.T) {
	store := NewConfigStore()
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			_ = store.Set(fmt.Sprintf("key-%d", id), id)
		}(i)
		go func(id int) {
			defer wg.Done()
			_ = store.GetInt(fmt.Sprintf("key-%d", id))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		val, ok := store.Get(fmt.Sprintf("key-%d", i))
		assert.True(t, ok)
		assert.Equal(t, i, val)
	}
}
