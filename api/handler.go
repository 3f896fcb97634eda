package api

import (
	"ChartService/internal/model"
	"ChartService/internal/render"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HealthCheck handles GET /health requests
func (h *APIHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   ServiceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   ServiceVersion,
		"renderer":  h.chartService.RendererState(),
	})
}

// GetColumns handles GET /api/columns requests
func (h *APIHandler) GetColumns(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	columns, err := h.chartService.Columns(ctx)
	if err != nil {
		h.handleError(c, err, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

// GetDataPreview handles GET /api/data-preview requests
func (h *APIHandler) GetDataPreview(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	limit, err := h.validator.ValidatePreviewLimit(c.Query("limit"))
	if err != nil {
		h.handleValidationError(c, err)
		return
	}

	preview, err := h.chartService.Preview(ctx, limit)
	if err != nil {
		h.handleError(c, err, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, preview)
}

// GetGraphTypes handles GET /api/graph-types requests
func (h *APIHandler) GetGraphTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"graph_types": h.chartService.ChartTypes()})
}

// GenerateGraph handles POST /api/generate-graph requests
func (h *APIHandler) GenerateGraph(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	req, ok := h.bindChartRequest(c)
	if !ok {
		return
	}

	result, err := h.chartService.Generate(ctx, req)
	if err != nil {
		h.handleError(c, err, http.StatusInternalServerError, serverError(err))
		return
	}
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RenderGraph handles POST /api/render-graph requests. Success is a PNG body with any
// warnings in a response header; failures use the same JSON shape as GenerateGraph.
func (h *APIHandler) RenderGraph(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	req, ok := h.bindChartRequest(c)
	if !ok {
		return
	}

	image, result, err := h.chartService.RenderPNG(ctx, req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, render.ErrRendererUnavailable) {
			status = http.StatusServiceUnavailable
		}
		h.handleError(c, err, status, serverError(err))
		return
	}
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}

	if len(result.Warnings) > 0 {
		c.Header(WarningsHeaderKey, strings.Join(result.Warnings, "; "))
	}
	c.Data(http.StatusOK, "image/png", image)
}

// ExportDataset handles GET /api/export requests
func (h *APIHandler) ExportDataset(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	var buf bytes.Buffer
	if err := h.chartService.ExportXLSX(ctx, &buf); err != nil {
		h.handleError(c, err, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="dataset.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// bindChartRequest decodes and validates the body, writing a 400 response on failure
func (h *APIHandler) bindChartRequest(c *gin.Context) (model.ChartRequest, bool) {
	var req model.ChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, err, http.StatusBadRequest, "Invalid request body")
		return model.ChartRequest{}, false
	}

	clean, err := h.validator.ValidateChartRequest(req)
	if err != nil {
		h.handleValidationError(c, err)
		return model.ChartRequest{}, false
	}
	return clean, true
}

func serverError(err error) string {
	return fmt.Sprintf("Server error: %v", err)
}

// handleError logs the error and sends the failure payload
func (h *APIHandler) handleError(c *gin.Context, err error, statusCode int, userMessage string) {
	requestIDStr := "unknown"
	if requestID, exists := c.Get(RequestIDContextKey); exists {
		if id, ok := requestID.(string); ok {
			requestIDStr = id
		}
	}

	h.logger.Error("API error",
		zap.String("request_id", requestIDStr),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
		zap.Int("status_code", statusCode),
	)

	c.JSON(statusCode, gin.H{
		"success":    false,
		"errors":     []string{userMessage},
		"request_id": requestIDStr,
	})
}

// handleValidationError reports a bad request with the validation message
func (h *APIHandler) handleValidationError(c *gin.Context, err error) {
	h.handleError(c, err, http.StatusBadRequest, err.Error())
}
