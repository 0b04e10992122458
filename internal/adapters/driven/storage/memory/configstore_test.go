package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.Equal(t, ":memory:", store.Path())
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())

	var _ driven.ConfigStore = store
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("embedding.model", "all-minilm"))
	require.NoError(t, store.Set("embedding.model", "nomic-embed-text"))

	val, ok := store.Get("embedding.model")
	assert.True(t, ok)
	assert.Equal(t, "nomic-embed-text", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("str", "substring")
	_ = store.Set("int", 32)
	_ = store.Set("int64", int64(64))
	_ = store.Set("float", 0.25)
	_ = store.Set("bool", true)
	_ = store.Set("strings", []string{"SKU", "SELLER"})
	_ = store.Set("anys", []any{"ranges", 3, "microwaves"})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("str"), "substring"},
		{"string wrong type", store.GetString("int"), ""},
		{"string missing", store.GetString("missing"), ""},
		{"int", store.GetInt("int"), 32},
		{"int from int64", store.GetInt("int64"), 64},
		{"int from float", store.GetInt("float"), 0},
		{"int wrong type", store.GetInt("str"), 0},
		{"float", store.GetFloat64("float"), 0.25},
		{"float from int", store.GetFloat64("int"), 32.0},
		{"float from int64", store.GetFloat64("int64"), 64.0},
		{"float wrong type", store.GetFloat64("bool"), 0.0},
		{"bool", store.GetBool("bool"), true},
		{"bool wrong type", store.GetBool("str"), false},
		{"string slice", store.GetStringSlice("strings"), []string{"SKU", "SELLER"}},
		{"any slice", store.GetStringSlice("anys"), []string{"ranges", "microwaves"}},
		{"slice wrong type", store.GetStringSlice("str"), []string(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_GetStringSlice_ReturnsCopy(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("catalog.drop_columns", []string{"SKU"})

	got := store.GetStringSlice("catalog.drop_columns")
	got[0] = "changed"

	assert.Equal(t, []string{"SKU"}, store.GetStringSlice("catalog.drop_columns"))
}

func TestConfigStore_Keys(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("match.taxonomy.laundry", []string{"washers"})
	_ = store.Set("match.taxonomy.cooking", []string{"ranges"})
	_ = store.Set("match.mode", "taxonomy")

	assert.Equal(t, []string{"match.taxonomy.cooking", "match.taxonomy.laundry"}, store.Keys("match.taxonomy."))
	assert.Len(t, store.Keys("match."), 3)
	assert.Empty(t, store.Keys("cache."))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.Set(fmt.Sprintf("key.%d", i), i)
		}(i)
		go func(i int) {
			defer wg.Done()
			_ = store.GetInt(fmt.Sprintf("key.%d", i))
			_ = store.Keys("key.")
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Keys("key."), 50)
}
