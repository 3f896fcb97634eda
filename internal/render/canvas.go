package render

import (
	"ChartService/internal/model"
	"fmt"
	"image/color"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	plotLeft   = 80.0
	plotRight  = 30.0
	plotTop    = 60.0
	plotBottom = 60.0
	yTicks     = 5
	maxXLabels = 10

	risingColor  = "#26a69a"
	fallingColor = "#ef5350"
	boxColor     = "#3b82f6"
)

// heatmapScale is RdYlBu reversed: low values blue, high values red
var heatmapScale = []string{
	"#313695", "#4575b4", "#74add1", "#abd9e9", "#e0f3f8",
	"#ffffbf", "#fee090", "#fdae61", "#f46d43", "#d73027", "#a50026",
}

// canvas is a gg context with a plot area and a linear y scale
type canvas struct {
	dc                       *gg.Context
	left, top, right, bottom float64
	yMin, yMax               float64
}

func newCanvas(width, height int, fig *model.Figure) *canvas {
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored(fig.Layout.Title.Text, float64(width)/2, plotTop/2, 0.5, 0.5)

	return &canvas{
		dc:     dc,
		left:   plotLeft,
		top:    plotTop,
		right:  float64(width) - plotRight,
		bottom: float64(height) - plotBottom,
	}
}

func (c *canvas) setYRange(lo, hi float64) {
	if hi == lo {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * 0.05
	c.yMin, c.yMax = lo-pad, hi+pad
}

func (c *canvas) y(v float64) float64 {
	return c.bottom - (v-c.yMin)/(c.yMax-c.yMin)*(c.bottom-c.top)
}

// slot returns the centre and width of the i-th of n equal horizontal slots
func (c *canvas) slot(i, n int) (float64, float64) {
	w := (c.right - c.left) / float64(n)
	return c.left + w*(float64(i)+0.5), w
}

func (c *canvas) drawAxes(xName, yName string) {
	dc := c.dc
	dc.SetRGB(0.85, 0.85, 0.85)
	dc.SetLineWidth(1)
	for i := 0; i <= yTicks; i++ {
		v := c.yMin + (c.yMax-c.yMin)*float64(i)/yTicks
		y := c.y(v)
		dc.DrawLine(c.left, y, c.right, y)
		dc.Stroke()

		dc.SetRGB(0.3, 0.3, 0.3)
		dc.DrawStringAnchored(strconv.FormatFloat(v, 'g', 4, 64), c.left-8, y, 1, 0.5)
		dc.SetRGB(0.85, 0.85, 0.85)
	}

	dc.SetRGB(0.3, 0.3, 0.3)
	dc.DrawLine(c.left, c.bottom, c.right, c.bottom)
	dc.DrawLine(c.left, c.top, c.left, c.bottom)
	dc.Stroke()

	if xName != "" {
		dc.DrawStringAnchored(xName, (c.left+c.right)/2, c.bottom+40, 0.5, 0.5)
	}
	if yName != "" {
		dc.DrawStringAnchored(yName, c.left, c.top-14, 0.5, 0.5)
	}
}

func (c *canvas) drawXLabels(labels []string) {
	step := int(math.Ceil(float64(len(labels)) / maxXLabels))
	if step < 1 {
		step = 1
	}
	c.dc.SetRGB(0.3, 0.3, 0.3)
	for i := 0; i < len(labels); i += step {
		x, _ := c.slot(i, len(labels))
		c.dc.DrawStringAnchored(labels[i], x, c.bottom+16, 0.5, 0.5)
	}
}

// renderCandlestick draws OHLC candles with wicks
func (r *PNGRenderer) renderCandlestick(w io.Writer, fig *model.Figure) error {
	trace := fig.Data[0]
	n := len(trace.X)
	if n == 0 {
		return ErrNothingToDraw
	}

	type candle struct{ open, high, low, close float64 }
	candles := make([]*candle, n)
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i++ {
		o, ok1 := valueAt(trace.Open, i)
		h, ok2 := valueAt(trace.High, i)
		l, ok3 := valueAt(trace.Low, i)
		cl, ok4 := valueAt(trace.Close, i)
		if !(ok1 && ok2 && ok3 && ok4) {
			continue
		}
		candles[i] = &candle{o, h, l, cl}
		lo = math.Min(lo, l)
		hi = math.Max(hi, h)
	}
	if math.IsInf(lo, 1) {
		return ErrNothingToDraw
	}

	width, height := r.size(fig)
	c := newCanvas(width, height, fig)
	c.setYRange(lo, hi)
	c.drawAxes(axisName(fig.Layout.XAxis), axisName(fig.Layout.YAxis))

	labels := make([]string, n)
	for i, cd := range candles {
		labels[i] = label(trace.X[i])
		if cd == nil {
			continue
		}

		x, slotWidth := c.slot(i, n)
		bodyWidth := math.Max(slotWidth*0.6, 1)
		if cd.close >= cd.open {
			c.dc.SetHexColor(risingColor)
		} else {
			c.dc.SetHexColor(fallingColor)
		}

		c.dc.SetLineWidth(1)
		c.dc.DrawLine(x, c.y(cd.high), x, c.y(cd.low))
		c.dc.Stroke()

		top := c.y(math.Max(cd.open, cd.close))
		bodyHeight := math.Max(c.y(math.Min(cd.open, cd.close))-top, 1)
		c.dc.DrawRectangle(x-bodyWidth/2, top, bodyWidth, bodyHeight)
		c.dc.Fill()
	}
	c.drawXLabels(labels)

	return c.dc.EncodePNG(w)
}

// boxStats holds Tukey box plot statistics
type boxStats struct {
	q1, median, q3      float64
	lowFence, highFence float64
	outliers            []float64
}

func computeBoxStats(values []float64) boxStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s := boxStats{
		q1:     quantile(sorted, 0.25),
		median: quantile(sorted, 0.5),
		q3:     quantile(sorted, 0.75),
	}
	iqr := s.q3 - s.q1
	lowLimit, highLimit := s.q1-1.5*iqr, s.q3+1.5*iqr

	s.lowFence, s.highFence = s.q1, s.q3
	for _, v := range sorted {
		if v < lowLimit || v > highLimit {
			s.outliers = append(s.outliers, v)
			continue
		}
		s.lowFence = math.Min(s.lowFence, v)
		s.highFence = math.Max(s.highFence, v)
	}
	return s
}

// quantile interpolates linearly between closest ranks of a sorted slice
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	frac := pos - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// renderBox draws one box per trace
func (r *PNGRenderer) renderBox(w io.Writer, fig *model.Figure) error {
	var stats []boxStats
	var names []string
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, trace := range fig.Data {
		values := floats(trace.Y)
		if len(values) == 0 {
			continue
		}
		s := computeBoxStats(values)
		stats = append(stats, s)
		names = append(names, trace.Name)
		for _, v := range values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if len(stats) == 0 {
		return ErrNothingToDraw
	}

	width, height := r.size(fig)
	c := newCanvas(width, height, fig)
	c.setYRange(lo, hi)
	c.drawAxes(axisName(fig.Layout.XAxis), axisName(fig.Layout.YAxis))

	for i, s := range stats {
		x, slotWidth := c.slot(i, len(stats))
		boxWidth := math.Min(slotWidth*0.5, 120)

		c.dc.SetHexColor(boxColor)
		c.dc.SetLineWidth(1.5)
		c.dc.DrawLine(x, c.y(s.highFence), x, c.y(s.q3))
		c.dc.DrawLine(x, c.y(s.q1), x, c.y(s.lowFence))
		c.dc.DrawLine(x-boxWidth/4, c.y(s.highFence), x+boxWidth/4, c.y(s.highFence))
		c.dc.DrawLine(x-boxWidth/4, c.y(s.lowFence), x+boxWidth/4, c.y(s.lowFence))
		c.dc.Stroke()

		c.dc.SetRGBA(0.23, 0.51, 0.96, 0.3)
		c.dc.DrawRectangle(x-boxWidth/2, c.y(s.q3), boxWidth, c.y(s.q1)-c.y(s.q3))
		c.dc.FillPreserve()
		c.dc.SetHexColor(boxColor)
		c.dc.Stroke()

		c.dc.DrawLine(x-boxWidth/2, c.y(s.median), x+boxWidth/2, c.y(s.median))
		c.dc.Stroke()

		for _, v := range s.outliers {
			c.dc.DrawCircle(x, c.y(v), 2.5)
			c.dc.Fill()
		}
	}
	c.drawXLabels(names)

	return c.dc.EncodePNG(w)
}

// renderHeatmap draws the z grid with one cell per (row, column)
func (r *PNGRenderer) renderHeatmap(w io.Writer, fig *model.Figure) error {
	trace := fig.Data[0]
	rows := len(trace.Z)
	if rows == 0 || len(trace.Z[0]) == 0 {
		return ErrNothingToDraw
	}
	cols := len(trace.Z[0])

	zMin, zMax := math.Inf(1), math.Inf(-1)
	for _, row := range trace.Z {
		for _, cell := range row {
			if cell == nil {
				continue
			}
			zMin = math.Min(zMin, *cell)
			zMax = math.Max(zMax, *cell)
		}
	}
	if math.IsInf(zMin, 1) {
		return ErrNothingToDraw
	}

	width, height := r.size(fig)
	c := newCanvas(width, height, fig)
	cellWidth := (c.right - c.left) / float64(cols)
	cellHeight := (c.bottom - c.top) / float64(rows)

	for ri, row := range trace.Z {
		for ci, cell := range row {
			if cell == nil {
				c.dc.SetRGB(0.93, 0.93, 0.93)
			} else {
				c.dc.SetColor(scaleColor(*cell, zMin, zMax))
			}
			// first row at the bottom like a cartesian y axis
			y := c.bottom - float64(ri+1)*cellHeight
			c.dc.DrawRectangle(c.left+float64(ci)*cellWidth, y, cellWidth, cellHeight)
			c.dc.Fill()
		}
	}

	c.dc.SetRGB(0.3, 0.3, 0.3)
	for ri := 0; ri < rows && ri < len(trace.Y); ri++ {
		y := c.bottom - (float64(ri)+0.5)*cellHeight
		c.dc.DrawStringAnchored(label(trace.Y[ri]), c.left-8, y, 1, 0.5)
	}
	xLabels := make([]string, 0, cols)
	for ci := 0; ci < cols && ci < len(trace.X); ci++ {
		xLabels = append(xLabels, label(trace.X[ci]))
	}
	c.drawXLabels(xLabels)

	if name := axisName(fig.Layout.XAxis); name != "" {
		c.dc.DrawStringAnchored(name, (c.left+c.right)/2, c.bottom+40, 0.5, 0.5)
	}
	c.dc.DrawStringAnchored(fmt.Sprintf("min %.4g  max %.4g", zMin, zMax), c.right, c.top-14, 1, 0.5)

	return c.dc.EncodePNG(w)
}

func valueAt(values []any, i int) (float64, bool) {
	if i >= len(values) {
		return 0, false
	}
	return toFloat(values[i])
}

// scaleColor maps v in [lo, hi] onto the heatmap scale
func scaleColor(v, lo, hi float64) color.Color {
	t := 0.5
	if hi > lo {
		t = (v - lo) / (hi - lo)
	}
	pos := t * float64(len(heatmapScale)-1)
	i := int(math.Floor(pos))
	if i >= len(heatmapScale)-1 {
		return hexColor(heatmapScale[len(heatmapScale)-1])
	}
	a, b := hexColor(heatmapScale[i]), hexColor(heatmapScale[i+1])
	frac := pos - float64(i)
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*frac) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
