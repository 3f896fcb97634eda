package data

import (
	"ChartService/internal/model"
	"context"
	"fmt"
	"sync"
	"time"
)

// StoreConfig holds configuration for the dataset store
type StoreConfig struct {
	DefaultPreviewRows int
	MaxPreviewRows     int
}

// DefaultStoreConfig returns sensible default configuration
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		DefaultPreviewRows: 10,
		MaxPreviewRows:     100,
	}
}

// InMemoryDatasetStore holds the active dataset. Datasets are immutable, so readers
// share the pointer; only swapping it takes the write lock.
type InMemoryDatasetStore struct {
	dataset  *Dataset
	source   string
	loadedAt time.Time
	config   StoreConfig
	mu       sync.RWMutex
}

// NewInMemoryDatasetStore creates an empty store with default config
func NewInMemoryDatasetStore() *InMemoryDatasetStore {
	return NewInMemoryDatasetStoreWithConfig(DefaultStoreConfig())
}

// NewInMemoryDatasetStoreWithConfig creates an empty store with custom config
func NewInMemoryDatasetStoreWithConfig(config StoreConfig) *InMemoryDatasetStore {
	if config.DefaultPreviewRows <= 0 {
		config.DefaultPreviewRows = DefaultStoreConfig().DefaultPreviewRows
	}
	if config.MaxPreviewRows < config.DefaultPreviewRows {
		config.MaxPreviewRows = config.DefaultPreviewRows
	}
	return &InMemoryDatasetStore{config: config}
}

// Replace installs ds as the active dataset
func (s *InMemoryDatasetStore) Replace(ds *Dataset, source string) error {
	if ds == nil {
		return fmt.Errorf("replace dataset from %s: %w", source, ErrEmptyDataset)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.dataset = ds
	s.source = source
	s.loadedAt = time.Now().UTC()
	return nil
}

// Dataset returns the active dataset
func (s *InMemoryDatasetStore) Dataset(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dataset == nil {
		return nil, ErrEmptyDataset
	}
	return s.dataset, nil
}

// Preview returns the first limit rows. limit 0 means the configured default; larger
// values are capped at the configured maximum.
func (s *InMemoryDatasetStore) Preview(ctx context.Context, limit int) (model.DataPreview, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return model.DataPreview{}, err
	}

	if limit <= 0 {
		limit = s.config.DefaultPreviewRows
	}
	if limit > s.config.MaxPreviewRows {
		limit = s.config.MaxPreviewRows
	}

	return model.DataPreview{
		Preview:   ds.Head(limit),
		TotalRows: ds.Len(),
		Columns:   ds.Names(),
	}, nil
}

// Source describes where the active dataset came from
func (s *InMemoryDatasetStore) Source() (string, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source, s.loadedAt
}
