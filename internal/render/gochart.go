package render

import (
	"ChartService/internal/data"
	"ChartService/internal/model"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const maxCategoryTicks = 12

var palette = []string{"3b82f6", "ef4444", "10b981", "f59e0b", "8b5cf6", "ec4899", "14b8a6", "6366f1"}

func paletteColor(i int) drawing.Color {
	return drawing.ColorFromHex(palette[i%len(palette)])
}

func traceColor(trace model.Trace, i int) drawing.Color {
	if trace.Line != nil && strings.HasPrefix(trace.Line.Color, "#") {
		return drawing.ColorFromHex(strings.TrimPrefix(trace.Line.Color, "#"))
	}
	if trace.Marker != nil && strings.HasPrefix(trace.Marker.Color, "#") {
		return drawing.ColorFromHex(strings.TrimPrefix(trace.Marker.Color, "#"))
	}
	return paletteColor(i)
}

func seriesStyle(trace model.Trace, i int) chart.Style {
	color := traceColor(trace, i)
	style := chart.Style{StrokeColor: color, StrokeWidth: 2}

	switch trace.Mode {
	case "markers":
		style.StrokeWidth = chart.Disabled
		style.DotWidth = 3
		style.DotColor = color
	case "lines+markers":
		style.DotWidth = 2
		style.DotColor = color
	}
	if trace.Fill != "" {
		style.FillColor = color.WithAlpha(76)
	}
	return style
}

// xKind decides how the x values of the first trace are laid out
type xKind int

const (
	xNumeric xKind = iota
	xTime
	xCategory
)

func detectXKind(values []any) xKind {
	for _, v := range values {
		if v == nil {
			continue
		}
		if _, ok := toFloat(v); ok {
			return xNumeric
		}
		if _, ok := toTime(v); ok {
			return xTime
		}
		return xCategory
	}
	return xNumeric
}

// renderXY draws line, area and scatter figures
func (r *PNGRenderer) renderXY(w io.Writer, fig *model.Figure) error {
	kind := detectXKind(fig.Data[0].X)
	width, height := r.size(fig)

	graph := chart.Chart{
		Title:      fig.Layout.Title.Text,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: axisName(fig.Layout.XAxis)},
		YAxis:      chart.YAxis{Name: axisName(fig.Layout.YAxis)},
	}

	var categories []string
	categoryIndex := make(map[string]int)

	for i, trace := range fig.Data {
		style := seriesStyle(trace, i)
		switch kind {
		case xTime:
			series := chart.TimeSeries{Name: trace.Name, Style: style}
			for j := range trace.X {
				t, okX := toTime(trace.X[j])
				y, okY := yAt(trace, j)
				if okX && okY {
					series.XValues = append(series.XValues, t)
					series.YValues = append(series.YValues, y)
				}
			}
			if len(series.XValues) > 0 {
				graph.Series = append(graph.Series, series)
			}
		default:
			series := chart.ContinuousSeries{Name: trace.Name, Style: style}
			for j := range trace.X {
				y, okY := yAt(trace, j)
				if !okY {
					continue
				}
				var x float64
				if kind == xCategory {
					key := label(trace.X[j])
					idx, seen := categoryIndex[key]
					if !seen {
						idx = len(categories)
						categoryIndex[key] = idx
						categories = append(categories, key)
					}
					x = float64(idx)
				} else {
					v, ok := toFloat(trace.X[j])
					if !ok {
						continue
					}
					x = v
				}
				series.XValues = append(series.XValues, x)
				series.YValues = append(series.YValues, y)
			}
			if len(series.XValues) > 0 {
				graph.Series = append(graph.Series, series)
			}
		}
	}

	if len(graph.Series) == 0 {
		return ErrNothingToDraw
	}

	switch kind {
	case xTime:
		graph.XAxis.ValueFormatter = chart.TimeValueFormatterWithFormat(data.DateLayout)
	case xCategory:
		graph.XAxis.Ticks = categoryTicks(categories)
	}
	if len(graph.Series) > 1 {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}

	return drawChart(&graph, w)
}

func yAt(trace model.Trace, j int) (float64, bool) {
	if j >= len(trace.Y) {
		return 0, false
	}
	return toFloat(trace.Y[j])
}

func categoryTicks(categories []string) []chart.Tick {
	step := int(math.Ceil(float64(len(categories)) / maxCategoryTicks))
	if step < 1 {
		step = 1
	}
	ticks := make([]chart.Tick, 0, maxCategoryTicks+1)
	for i := 0; i < len(categories); i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: categories[i]})
	}
	return ticks
}

func (r *PNGRenderer) barChart(fig *model.Figure, bars []chart.Value) chart.BarChart {
	width, height := r.size(fig)
	barWidth := width / (len(bars)*2 + 1)
	if barWidth < 4 {
		barWidth = 4
	}
	graph := chart.BarChart{
		Title:      fig.Layout.Title.Text,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 50}},
		YAxis:      chart.YAxis{Name: axisName(fig.Layout.YAxis)},
		Bars:       bars,
	}

	// go-chart refuses a zero-height value range
	lo, hi := bars[0].Value, bars[0].Value
	for _, bar := range bars {
		lo = math.Min(lo, bar.Value)
		hi = math.Max(hi, bar.Value)
	}
	if lo == hi {
		graph.YAxis.Range = &chart.ContinuousRange{Min: math.Min(0, lo), Max: math.Max(hi, lo+1)}
	}
	return graph
}

// drawChart renders a go-chart graph as PNG. go-chart only fails on data it cannot
// lay out, so its errors are reported as ErrInvalidFigure.
func drawChart(graph interface {
	Render(chart.RendererProvider, io.Writer) error
}, w io.Writer) error {
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFigure, err)
	}
	return nil
}

// renderBar draws the aggregated bar figure
func (r *PNGRenderer) renderBar(w io.Writer, fig *model.Figure) error {
	trace := fig.Data[0]
	color := traceColor(trace, 0)

	var bars []chart.Value
	for i := range trace.X {
		y, ok := yAt(trace, i)
		if !ok {
			continue
		}
		bars = append(bars, chart.Value{
			Label: label(trace.X[i]),
			Value: y,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}
	if len(bars) == 0 {
		return ErrNothingToDraw
	}

	graph := r.barChart(fig, bars)
	return drawChart(&graph, w)
}

// renderHistogram bins the raw values and draws them as bars
func (r *PNGRenderer) renderHistogram(w io.Writer, fig *model.Figure) error {
	trace := fig.Data[0]
	bins := trace.NBinsX
	if bins <= 0 {
		bins = 30
	}

	counts, edges, err := histogram(floats(trace.X), bins)
	if err != nil {
		return err
	}

	color := traceColor(trace, 0)
	bars := make([]chart.Value, len(counts))
	for i, count := range counts {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%.3g", edges[i]),
			Value: float64(count),
			Style: chart.Style{FillColor: color, StrokeColor: color},
		}
	}

	graph := r.barChart(fig, bars)
	return drawChart(&graph, w)
}

// histogram splits values into equal-width bins; edges holds each bin's lower bound
func histogram(values []float64, bins int) ([]int, []float64, error) {
	if len(values) == 0 {
		return nil, nil, ErrNothingToDraw
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		bins = 1
	}

	width := (hi - lo) / float64(bins)
	counts := make([]int, bins)
	edges := make([]float64, bins)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	for _, v := range values {
		idx := 0
		if width > 0 {
			idx = int((v - lo) / width)
		}
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	return counts, edges, nil
}

// renderPie draws positive slices only
func (r *PNGRenderer) renderPie(w io.Writer, fig *model.Figure) error {
	trace := fig.Data[0]
	width, height := r.size(fig)

	var values []chart.Value
	for i, v := range trace.Values {
		if v <= 0 || math.IsNaN(v) || i >= len(trace.Labels) {
			continue
		}
		color := paletteColor(len(values))
		values = append(values, chart.Value{
			Label: label(trace.Labels[i]),
			Value: v,
			Style: chart.Style{FillColor: color, StrokeColor: drawing.ColorWhite},
		})
	}
	if len(values) == 0 {
		return ErrNothingToDraw
	}

	pie := chart.PieChart{
		Title:  fig.Layout.Title.Text,
		Width:  width,
		Height: height,
		Values: values,
	}
	return drawChart(&pie, w)
}
