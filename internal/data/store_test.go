package data

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowsDataset(t *testing.T, n int) *Dataset {
	t.Helper()

	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i)
	}
	ds, err := NewDataset(NewNumericColumn("Value", values))
	require.NoError(t, err)
	return ds
}

func TestNewInMemoryDatasetStore(t *testing.T) {
	store := NewInMemoryDatasetStore()

	assert.NotNil(t, store)
	assert.Equal(t, DefaultStoreConfig(), store.config)

	source, loadedAt := store.Source()
	assert.Empty(t, source)
	assert.True(t, loadedAt.IsZero())
}

func TestNewInMemoryDatasetStoreWithConfigFixesLimits(t *testing.T) {
	store := NewInMemoryDatasetStoreWithConfig(StoreConfig{DefaultPreviewRows: 0, MaxPreviewRows: 5})
	assert.Equal(t, 10, store.config.DefaultPreviewRows)
	assert.Equal(t, 10, store.config.MaxPreviewRows)
}

func TestStoreEmpty(t *testing.T) {
	store := NewInMemoryDatasetStore()

	_, err := store.Dataset(context.Background())
	assert.ErrorIs(t, err, ErrEmptyDataset)

	_, err = store.Preview(context.Background(), 5)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestStoreReplace(t *testing.T) {
	store := NewInMemoryDatasetStore()

	err := store.Replace(nil, "nowhere")
	assert.ErrorIs(t, err, ErrEmptyDataset)

	ds := rowsDataset(t, 3)
	require.NoError(t, store.Replace(ds, "generated:seed=42"))

	got, err := store.Dataset(context.Background())
	require.NoError(t, err)
	assert.Same(t, ds, got)

	source, loadedAt := store.Source()
	assert.Equal(t, "generated:seed=42", source)
	assert.False(t, loadedAt.IsZero())
}

func TestStorePreview(t *testing.T) {
	store := NewInMemoryDatasetStoreWithConfig(StoreConfig{DefaultPreviewRows: 4, MaxPreviewRows: 20})
	require.NoError(t, store.Replace(rowsDataset(t, 30), "test"))

	tests := []struct {
		name     string
		limit    int
		expected int
	}{
		{name: "default", limit: 0, expected: 4},
		{name: "explicit", limit: 7, expected: 7},
		{name: "capped", limit: 500, expected: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preview, err := store.Preview(context.Background(), tt.limit)
			require.NoError(t, err)
			assert.Len(t, preview.Preview, tt.expected)
			assert.Equal(t, 30, preview.TotalRows)
			assert.Equal(t, []string{"Value"}, preview.Columns)
		})
	}
}

func TestStoreCancelledContext(t *testing.T) {
	store := NewInMemoryDatasetStore()
	require.NoError(t, store.Replace(rowsDataset(t, 3), "test"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Dataset(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewInMemoryDatasetStore()
	require.NoError(t, store.Replace(rowsDataset(t, 3), "initial"))
	next := rowsDataset(t, 5)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Replace(next, "swap")
		}()
		go func() {
			defer wg.Done()
			_, err := store.Preview(context.Background(), 2)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ds, err := store.Dataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, ds.Len())
}
