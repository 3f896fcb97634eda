package service

import (
	"ChartService/internal/chart"
	"ChartService/internal/core"
	"ChartService/internal/data"
	"ChartService/internal/model"
	"ChartService/internal/render"
	"bytes"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

type DatasetStore interface {
	Dataset(ctx context.Context) (*data.Dataset, error)
	Preview(ctx context.Context, limit int) (model.DataPreview, error)
}

// ChartValidator checks requests before any figure is built
type ChartValidator interface {
	Validate(ds *data.Dataset, req model.ChartRequest) model.ValidationResult
	ChartTypes() []model.ChartTypeInfo
}

type FigureBuilder interface {
	Build(ds *data.Dataset, req model.ChartRequest) (*model.Figure, error)
}

// ChartService validates chart requests and turns them into figures, images and exports
type ChartService struct {
	store     DatasetStore
	validator ChartValidator
	builder   FigureBuilder
	renderer  render.Renderer
	logger    *zap.Logger
}

// NewChartService creates a service using the built-in validator and builder
func NewChartService(store DatasetStore, renderer render.Renderer, logger *zap.Logger) *ChartService {
	return NewChartServiceWith(store, core.GetValidator(), chart.NewBuilder(), renderer, logger)
}

// NewChartServiceWith creates a service with explicit collaborators
func NewChartServiceWith(store DatasetStore, validator ChartValidator, builder FigureBuilder, renderer render.Renderer, logger *zap.Logger) *ChartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChartService{
		store:     store,
		validator: validator,
		builder:   builder,
		renderer:  renderer,
		logger:    logger,
	}
}

// Columns describes every column of the active dataset
func (cs *ChartService) Columns(ctx context.Context) ([]model.ColumnInfo, error) {
	ds, err := cs.store.Dataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}
	return ds.Info(), nil
}

// Preview returns the first rows of the active dataset
func (cs *ChartService) Preview(ctx context.Context, limit int) (model.DataPreview, error) {
	preview, err := cs.store.Preview(ctx, limit)
	if err != nil {
		return model.DataPreview{}, fmt.Errorf("failed to get preview with limit %d: %w", limit, err)
	}
	return preview, nil
}

// ChartTypes lists the supported chart types
func (cs *ChartService) ChartTypes() []model.ChartTypeInfo {
	return cs.validator.ChartTypes()
}

// Generate validates the request and builds its figure. Rule violations come back as
// an unsuccessful result with a nil error; the error is reserved for failures after
// validation passed.
func (cs *ChartService) Generate(ctx context.Context, req model.ChartRequest) (model.ChartResult, error) {
	ds, err := cs.store.Dataset(ctx)
	if err != nil {
		return model.ChartResult{}, fmt.Errorf("failed to get dataset: %w", err)
	}

	validation := cs.validator.Validate(ds, req)
	if !validation.Valid {
		cs.logger.Debug("chart request rejected",
			zap.String("graph_type", string(req.GraphType)),
			zap.Strings("errors", validation.Errors))
		return model.ChartResult{
			Success:  false,
			Errors:   validation.Errors,
			Warnings: validation.Warnings,
		}, nil
	}

	if err := ctx.Err(); err != nil {
		return model.ChartResult{}, err
	}

	fig, err := cs.builder.Build(ds, req)
	if err != nil {
		return model.ChartResult{Warnings: validation.Warnings}, err
	}

	return model.ChartResult{
		Success:  true,
		Figure:   fig,
		Warnings: validation.Warnings,
	}, nil
}

// RenderPNG generates the figure and draws it. The image is nil whenever the result
// is unsuccessful or an error is returned.
func (cs *ChartService) RenderPNG(ctx context.Context, req model.ChartRequest) ([]byte, model.ChartResult, error) {
	result, err := cs.Generate(ctx, req)
	if err != nil || !result.Success {
		return nil, result, err
	}

	var buf bytes.Buffer
	if err := cs.renderer.Render(&buf, result.Figure); err != nil {
		return nil, result, fmt.Errorf("failed to render %s chart: %w", req.GraphType, err)
	}
	return buf.Bytes(), result, nil
}

// RendererState reports the render breaker state, or "unguarded" when the renderer
// has no breaker
func (cs *ChartService) RendererState() string {
	if guarded, ok := cs.renderer.(interface{ State() string }); ok {
		return guarded.State()
	}
	return "unguarded"
}

// ExportXLSX writes the active dataset as an xlsx workbook
func (cs *ChartService) ExportXLSX(ctx context.Context, w io.Writer) error {
	ds, err := cs.store.Dataset(ctx)
	if err != nil {
		return fmt.Errorf("failed to get dataset: %w", err)
	}
	if err := data.WriteXLSX(ds, w); err != nil {
		return fmt.Errorf("failed to export dataset: %w", err)
	}
	return nil
}
