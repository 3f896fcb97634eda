package service

import (
	"ChartService/internal/data"
	"ChartService/internal/mock"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DatasetSource selects where the dataset comes from. A non-empty File wins over generation.
type DatasetSource struct {
	File    string
	Sheet   string
	Days    int
	Seed    int64
	EndDate time.Time
}

// LoadDataset builds the dataset described by src and returns a short description of its origin
func LoadDataset(src DatasetSource, logger *zap.Logger) (*data.Dataset, string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if src.File != "" {
		ds, err := data.LoadXLSXFile(src.File, src.Sheet)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load dataset from %s: %w", src.File, err)
		}
		logger.Info("dataset loaded",
			zap.String("file", src.File),
			zap.Int("rows", ds.Len()),
			zap.Int("columns", len(ds.Names())))
		return ds, "xlsx:" + src.File, nil
	}

	cfg := mock.DefaultGeneratorConfig()
	cfg.Days = src.Days
	cfg.Seed = src.Seed
	if !src.EndDate.IsZero() {
		cfg.EndDate = src.EndDate
	}

	ds, err := mock.NewFinancialDataGeneratorWithConfig(cfg).Generate()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate sample data: %w", err)
	}
	logger.Info("sample data generated",
		zap.Int("days", cfg.Days),
		zap.Int64("seed", cfg.Seed),
		zap.Int("rows", ds.Len()),
		zap.Int("columns", len(ds.Names())))
	return ds, fmt.Sprintf("generated:seed=%d", cfg.Seed), nil
}
