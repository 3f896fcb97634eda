package render

import (
	"ChartService/internal/data"
	"ChartService/internal/model"
	"errors"
	"fmt"
	"io"
	"math"
	"time"
)

const (
	DefaultWidth  = 1024
	DefaultHeight = 500
)

var (
	ErrEmptyFigure      = errors.New("figure has no traces")
	ErrUnsupportedTrace = errors.New("unsupported trace type")
	ErrNothingToDraw    = errors.New("no plottable values")
	ErrInvalidFigure    = errors.New("figure cannot be drawn")
)

// IsInputError reports whether err was caused by the figure itself rather than by
// the renderer. Such errors go back to the caller and never trip the breaker.
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyFigure) ||
		errors.Is(err, ErrUnsupportedTrace) ||
		errors.Is(err, ErrNothingToDraw) ||
		errors.Is(err, ErrInvalidFigure)
}

// Renderer turns a figure into an image
type Renderer interface {
	Render(w io.Writer, fig *model.Figure) error
}

// PNGRenderer draws figures as static PNG images
type PNGRenderer struct {
	width  int
	height int
}

// NewPNGRenderer creates a renderer with the given canvas size; zero values pick defaults
func NewPNGRenderer(width, height int) *PNGRenderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &PNGRenderer{width: width, height: height}
}

// Render writes the figure as PNG
func (r *PNGRenderer) Render(w io.Writer, fig *model.Figure) error {
	if fig == nil || len(fig.Data) == 0 {
		return ErrEmptyFigure
	}

	switch kind := fig.Data[0].Type; kind {
	case "scatter":
		return r.renderXY(w, fig)
	case "bar":
		return r.renderBar(w, fig)
	case "pie":
		return r.renderPie(w, fig)
	case "histogram":
		return r.renderHistogram(w, fig)
	case "candlestick":
		return r.renderCandlestick(w, fig)
	case "box":
		return r.renderBox(w, fig)
	case "heatmap":
		return r.renderHeatmap(w, fig)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedTrace, kind)
	}
}

func (r *PNGRenderer) size(fig *model.Figure) (int, int) {
	height := r.height
	if fig.Layout.Height > 0 {
		height = fig.Layout.Height
	}
	return r.width, height
}

func axisName(axis *model.Axis) string {
	if axis == nil || axis.Title == nil {
		return ""
	}
	return axis.Title.Text
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}

func toTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(data.DateLayout, s)
	return t, err == nil
}

func label(v any) string {
	if v == nil {
		return ""
	}
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.4g", f)
	}
	return fmt.Sprint(v)
}

func floats(values []any) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := toFloat(v); ok {
			out = append(out, f)
		}
	}
	return out
}
