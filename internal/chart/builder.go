package chart

import (
	"ChartService/internal/core"
	"ChartService/internal/data"
	"ChartService/internal/model"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Figure styling shared by every chart
const (
	PrimaryColor      = "#3b82f6"
	AreaFillColor     = "rgba(59, 130, 246, 0.3)"
	Template          = "plotly_white"
	FigureHeight      = 500
	BarTopN           = 20
	PieTopN           = 8
	HistogramBins     = 30
	CandlestickRows   = 100
	HeatmapColorScale = "RdYlBu_r"
)

var ErrNoData = errors.New("no data to plot")

// BuildError reports a chart that could not be constructed from validated input
type BuildError struct {
	ChartType model.ChartType
	Err       error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("error generating %s chart: %v", e.ChartType, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

type buildFunc func(ds *data.Dataset, req model.ChartRequest) (*model.Figure, error)

// Builder maps validated chart requests to figures
type Builder struct {
	builders map[model.ChartType]buildFunc
}

// NewBuilder creates a builder for every built-in chart type
func NewBuilder() *Builder {
	return &Builder{
		builders: map[model.ChartType]buildFunc{
			model.ChartLine:        buildLine,
			model.ChartBar:         buildBar,
			model.ChartScatter:     buildScatter,
			model.ChartPie:         buildPie,
			model.ChartHistogram:   buildHistogram,
			model.ChartBox:         buildBox,
			model.ChartCandlestick: buildCandlestick,
			model.ChartHeatmap:     buildHeatmap,
			model.ChartArea:        buildArea,
		},
	}
}

// Build constructs the figure. The request is expected to have passed validation.
func (b *Builder) Build(ds *data.Dataset, req model.ChartRequest) (*model.Figure, error) {
	build, ok := b.builders[req.GraphType]
	if !ok {
		return nil, &BuildError{ChartType: req.GraphType, Err: core.ErrUnsupportedChartType}
	}
	if ds == nil || ds.Len() == 0 {
		return nil, &BuildError{ChartType: req.GraphType, Err: ErrNoData}
	}

	fig, err := build(ds, req)
	if err != nil {
		return nil, &BuildError{ChartType: req.GraphType, Err: err}
	}
	return fig, nil
}

func layout(title string) model.Layout {
	return model.Layout{
		Title:    model.Title{Text: title},
		Template: Template,
		Height:   FigureHeight,
	}
}

func columns(ds *data.Dataset, names ...string) ([]data.Column, error) {
	out := make([]data.Column, len(names))
	for i, name := range names {
		col, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		out[i] = col
	}
	return out, nil
}

func buildLine(ds *data.Dataset, req model.ChartRequest) (*model.Figure, error) {
	fig, err := seriesFigure(ds, req, func(i int, y data.Column) model.Trace {
		trace := model.Trace{
			Type:   "scatter",
			Mode:   "lines+markers",
			Name:   y.Name,
			Line:   &model.LineStyle{Width: 2},
			Marker: &model.MarkerStyle{Size: 4},
		}
		if i == 0 {
			trace.Line.Color = PrimaryColor
		}
		return trace
	})
	if err != nil {
		return nil, err
	}
	fig.Layout.HoverMode = "x unified"
	return fig, nil
}

func buildArea(ds *data.Dataset, req model.ChartRequest) (*model.Figure, error) {
	return seriesFigure(ds, req, func(i int, y data.Column) model.Trace {
		trace := model.Trace{
			Type: "scatter",
			Mode: "lines",
			Name: y.Name,
			Fill: "tozeroy",
			Line: &model.LineStyle{Width: 2},
		}
		if i == 0 {
			trace.Line.Color = PrimaryColor
			trace.FillColor = AreaFillColor
		}
		return trace
	})
}

// seriesFigure emits one trace per Y column against a shared X column
func seriesFigure(ds *data.Dataset, req model.ChartRequest, style func(i int, y data.Column) model.Trace) (*model.Figure, error) {
	yNames := req.YColumns()
	cols, err := columns(ds, append([]string{req.XAxis}, yNames...)...)
	if err != nil {
		return nil, err
	}

	x := cols[0].Values()
	fig := &model.Figure{Layout: layout(req.Title)}
	for i, y := range cols[1:] {
		trace := style(i, y)
		trace.X = x
		trace.Y = y.Values()
		fig.Data = append(fig.Data, trace)
	}

	fig.Layout.XAxis = model.AxisTitle(req.XAxis)
	fig.Layout.YAxis = model.AxisTitle(strings.Join(yNames, ", "))
	return fig, nil
}

func buildBar(ds *data.Dataset, req model.ChartRequest) (*model.Figure, error) {
	cols, err := columns(ds, req.XAxis, req.YAxis)
	if err != nil {
		return nil, err
	}
	x, y := cols[0], cols[1]

	groups := groupSum(x, y)
	sortBySumDesc(x, groups)
	groups = topN(groups, BarTopN)

	sums := make([]any, len(groups))
	text := make([]string, len(groups))
	for i, g := range groups {
		sums[i] = g.sum
		text[i] = strconv.FormatFloat(round2(g.sum), 'f', -1, 64)
	}

	fig := &model.Figure{
		Data: []model.Trace{{
			Type:         "bar",
			X:            labels(x, groups),
			Y:            sums,
			Marker:       &model.MarkerStyle{Color: PrimaryColor},
			Text:         text,
			TextPosition: "auto",
		}},
		Layout: layout(req.Title),
	}
	fig.Layout.XAxis = model.AxisTitle(req.XAxis)
	fig.Layout.YAxis = model.AxisTitle(req.YAxis)
	return fig, nil
}

func buildScatter(ds *data.Dataset, req model.ChartRequest) (*model.Figure, error) {
	cols, err := columns(ds, req.XAxis, req.YAxis)
	if err != nil {
		return nil, err
	}
	x, y := cols[0], cols[1]

	fig := &model.Figure{Layout: layout(req.Title)}
	fig.Layout.XAxis = model.AxisTitle(req.XAxis)
	fig.Layout.YAxis = model.AxisTitle(req.YAxis)

	if req.GroupBy == "" {
		fig.Data = []model.Trace{{
			Type:   "scatter",
			Mode:   "markers",
			X:      x.Values(),
			Y:      y.Values(),
			Marker: &model.MarkerStyle{Color: PrimaryColor},
		}}
		return fig, nil
	}

	color, err := ds.Column(req.GroupBy)
	if err != nil {
		return nil, err
	}
	for _, g := range groupBy(color) {
		fig.Data = append(fig.Data, model.Trace{
			Type: "scatter",
			Mode: "markers",
			Name: fmt.Sprint(color.Value(g.row)),
			X:    pick(x, g.rows),
			Y:    pick(y, g.rows),
		})
	}
	return fig, nil
}

func buildPie(ds *data.Dataset, req model.ChartRequest) (*model.Figure, error) {
	cols, err := columns(ds, req.XAxis, req.YAxis)
	if err != nil {
		return nil, err
	}
	x, y := cols[0], cols[1]

	groups := groupSum(x, y)
	sortBySumDesc(x, groups)
	groups = topN(groups, PieTopN)

	values := make([]float64, len(groups))
	for i, g := range groups {
		values[i] = g.sum
	}

	return &model.Figure{
		Data: []model.Trace{{
			Type:         "pie",
			Labels:       labels(x, groups),
			Values:       values,
			Hole:         0.3,
			TextPosition: "inside",
			TextInfo:     "percent+label",
		}},
		Layout: layout(req.Title),
	}, nil
}

func buildHistogram(ds *data.Dataset, req model.ChartRequest) (*model.Figure, error) {
	x, err := ds.Column(req.XAxis)
	if err != nil {
		return nil, err
	}

	fig := &model.Figure{
		Data: []model.Trace{{
			Type:   "histogram",
			X:      x.Values(),
			NBinsX: HistogramBins,
			Marker: &model.MarkerStyle{Color: PrimaryColor},
		}},
		Layout: layout(req.Title),
	}
	fig.Layout.XAxis = model.AxisTitle(req.XAxis)
	fig.Layout.YAxis = model.AxisTitle("Frequency")
	return fig, nil
}

func buildBox(ds *data.Dataset, req model.ChartRequest) (*model.Figure, error) {
	y, err := ds.Column(req.YAxis)
	if err != nil {
		return nil, err
	}

	fig := &model.Figure{Layout: layout(req.Title)}
	if req.GroupBy == "" {
		fig.Data = []model.Trace{{Type: "box", Name: req.YAxis, Y: y.Values()}}
		return fig, nil
	}

	groupCol, err := ds.Column(req.GroupBy)
	if err != nil {
		return nil, err
	}
	for _, g := range groupBy(groupCol) {
		fig.Data = append(fig.Data, model.Trace{
			Type: "box",
			Name: fmt.Sprint(groupCol.Value(g.row)),
			Y:    pick(y, g.rows),
		})
	}
	fig.Layout.XAxis = model.AxisTitle(req.GroupBy)
	fig.Layout.YAxis = model.AxisTitle(req.YAxis)
	return fig, nil
}

func buildCandlestick(ds *data.Dataset, req model.ChartRequest) (*model.Figure, error) {
	recent := ds.Tail(CandlestickRows)
	cols, err := columns(recent, core.CandlestickColumns...)
	if err != nil {
		return nil, err
	}

	fig := &model.Figure{
		Data: []model.Trace{{
			Type:  "candlestick",
			X:     cols[0].Values(),
			Open:  cols[1].Values(),
			High:  cols[2].Values(),
			Low:   cols[3].Values(),
			Close: cols[4].Values(),
		}},
		Layout: layout(req.Title),
	}
	fig.Layout.XAxis = &model.Axis{
		Title:       &model.Title{Text: "Date"},
		RangeSlider: &model.RangeSlider{Visible: false},
	}
	fig.Layout.YAxis = model.AxisTitle("Price")
	return fig, nil
}

func buildHeatmap(ds *data.Dataset, req model.ChartRequest) (*model.Figure, error) {
	if req.GroupBy == "" {
		return nil, errors.New("heatmap needs a group-by column")
	}
	cols, err := columns(ds, req.XAxis, req.GroupBy, req.YAxis)
	if err != nil {
		return nil, err
	}

	xLabels, yLabels, z := pivotMean(cols[0], cols[1], cols[2])
	if len(z) == 0 {
		return nil, ErrNoData
	}

	fig := &model.Figure{
		Data: []model.Trace{{
			Type:       "heatmap",
			X:          xLabels,
			Y:          yLabels,
			Z:          z,
			ColorScale: HeatmapColorScale,
		}},
		Layout: layout(req.Title),
	}
	fig.Layout.XAxis = model.AxisTitle(req.XAxis)
	fig.Layout.YAxis = model.AxisTitle(req.GroupBy)
	return fig, nil
}
