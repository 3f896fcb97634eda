package render

import (
	"ChartService/internal/model"
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func ptr(v float64) *float64 { return &v }

func figure(title string, traces ...model.Trace) *model.Figure {
	return &model.Figure{
		Data: traces,
		Layout: model.Layout{
			Title: model.Title{Text: title},
			XAxis: model.AxisTitle("x"),
			YAxis: model.AxisTitle("y"),
		},
	}
}

func dates(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = fmt.Sprintf("2024-01-%02d", i+1)
	}
	return out
}

func TestPNGRendererFigures(t *testing.T) {
	tests := []struct {
		name string
		fig  *model.Figure
	}{
		{
			name: "time line with two series",
			fig: figure("Prices",
				model.Trace{Type: "scatter", Mode: "lines", Name: "Open", X: dates(5), Y: []any{1.0, 3.0, 2.0, 5.0, 4.0}},
				model.Trace{Type: "scatter", Mode: "lines", Name: "Close", X: dates(5), Y: []any{2.0, 2.5, nil, 4.5, 3.0}},
			),
		},
		{
			name: "numeric scatter",
			fig: figure("PE vs ROI",
				model.Trace{Type: "scatter", Mode: "markers", X: []any{10.0, 20.5, 15.0, 40.0}, Y: []any{-3.0, 12.0, 7.5, 25.0}},
			),
		},
		{
			name: "category line",
			fig: figure("By weekday",
				model.Trace{Type: "scatter", Mode: "lines", X: []any{"Mon", "Tue", "Wed"}, Y: []any{int64(3), int64(9), int64(6)}},
			),
		},
		{
			name: "bar",
			fig: figure("Revenue",
				model.Trace{Type: "bar", X: []any{"Energy", "Tech", "Finance"}, Y: []any{10.0, 25.0, 7.0}},
			),
		},
		{
			name: "single bar",
			fig: figure("One sector",
				model.Trace{Type: "bar", X: []any{int64(2024)}, Y: []any{1834.5}},
			),
		},
		{
			name: "equal bars",
			fig: figure("Flat",
				model.Trace{Type: "bar", X: []any{"a", "b", "c"}, Y: []any{3.0, 3.0, 3.0}},
			),
		},
		{
			name: "constant histogram",
			fig: figure("Year",
				model.Trace{Type: "histogram", X: []any{int64(2024), int64(2024), int64(2024)}},
			),
		},
		{
			name: "pie",
			fig: figure("Share",
				model.Trace{Type: "pie", Labels: []any{"A", "B", "C"}, Values: []float64{3, 5, 2}},
			),
		},
		{
			name: "histogram",
			fig: figure("Returns",
				model.Trace{Type: "histogram", X: []any{-1.5, 0.2, 0.3, 1.1, 2.4, 2.5, nil}, NBinsX: 4},
			),
		},
		{
			name: "candlestick",
			fig: figure("OHLC",
				model.Trace{
					Type:  "candlestick",
					X:     dates(3),
					Open:  []any{10.0, 12.0, 11.0},
					High:  []any{13.0, 12.5, 14.0},
					Low:   []any{9.5, 10.0, 10.5},
					Close: []any{12.0, 10.5, 13.5},
				},
			),
		},
		{
			name: "box per group",
			fig: figure("Spread",
				model.Trace{Type: "box", Name: "Tech", Y: []any{1.0, 2.0, 3.0, 4.0, 20.0}},
				model.Trace{Type: "box", Name: "Energy", Y: []any{5.0, 6.0, 7.0}},
			),
		},
		{
			name: "heatmap with gaps",
			fig: figure("Grid",
				model.Trace{
					Type: "heatmap",
					X:    []any{"Q1", "Q2"},
					Y:    []any{"Tech", "Energy"},
					Z:    [][]*float64{{ptr(1), nil}, {ptr(3), ptr(-2)}},
				},
			),
		},
	}

	renderer := NewPNGRenderer(640, 360)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, renderer.Render(&buf, tt.fig))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
		})
	}
}

func TestPNGRendererErrors(t *testing.T) {
	renderer := NewPNGRenderer(0, 0)
	assert.Equal(t, DefaultWidth, renderer.width)
	assert.Equal(t, DefaultHeight, renderer.height)

	var buf bytes.Buffer
	assert.ErrorIs(t, renderer.Render(&buf, nil), ErrEmptyFigure)
	assert.ErrorIs(t, renderer.Render(&buf, &model.Figure{}), ErrEmptyFigure)
	assert.ErrorIs(t, renderer.Render(&buf, figure("t", model.Trace{Type: "sankey"})), ErrUnsupportedTrace)

	noValues := figure("t", model.Trace{Type: "bar", X: []any{"a"}, Y: []any{nil}})
	assert.ErrorIs(t, renderer.Render(&buf, noValues), ErrNothingToDraw)

	emptyPie := figure("t", model.Trace{Type: "pie", Labels: []any{"a"}, Values: []float64{0}})
	assert.ErrorIs(t, renderer.Render(&buf, emptyPie), ErrNothingToDraw)

	emptyGrid := figure("t", model.Trace{Type: "heatmap", Z: [][]*float64{{nil}}})
	assert.ErrorIs(t, renderer.Render(&buf, emptyGrid), ErrNothingToDraw)
}

func TestHistogram(t *testing.T) {
	counts, edges, err := histogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 2, 2, 2}, counts)
	assert.Equal(t, []float64{0, 2, 4, 6, 8}, edges)

	counts, _, err = histogram([]float64{3, 3, 3}, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, counts)

	_, _, err = histogram(nil, 10)
	assert.ErrorIs(t, err, ErrNothingToDraw)
}

func TestComputeBoxStats(t *testing.T) {
	s := computeBoxStats([]float64{7, 1, 3, 2, 5, 4, 6, 100})

	assert.InDelta(t, 2.75, s.q1, 1e-9)
	assert.InDelta(t, 4.5, s.median, 1e-9)
	assert.InDelta(t, 6.25, s.q3, 1e-9)
	assert.Equal(t, 1.0, s.lowFence)
	assert.Equal(t, 7.0, s.highFence)
	assert.Equal(t, []float64{100}, s.outliers)

	single := computeBoxStats([]float64{4})
	assert.Equal(t, 4.0, single.median)
	assert.Empty(t, single.outliers)
}

type failingRenderer struct {
	calls int
}

func (f *failingRenderer) Render(io.Writer, *model.Figure) error {
	f.calls++
	return errors.New("boom")
}

func TestGuardedRendererTrips(t *testing.T) {
	next := &failingRenderer{}
	guarded := NewGuardedRenderer(next, BreakerConfig{MaxFailures: 2}, zap.NewNop())
	fig := figure("t", model.Trace{Type: "bar"})

	var buf bytes.Buffer
	for i := 0; i < 2; i++ {
		err := guarded.Render(&buf, fig)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrRendererUnavailable)
	}
	assert.Equal(t, "open", guarded.State())

	err := guarded.Render(&buf, fig)
	assert.ErrorIs(t, err, ErrRendererUnavailable)
	assert.Equal(t, 2, next.calls)
	assert.Zero(t, buf.Len())
}

func TestGuardedRendererPassesThrough(t *testing.T) {
	guarded := NewGuardedRenderer(NewPNGRenderer(320, 240), DefaultBreakerConfig(), nil)
	fig := figure("Revenue", model.Trace{Type: "bar", X: []any{"a", "b"}, Y: []any{1.0, 2.0}})

	var buf bytes.Buffer
	require.NoError(t, guarded.Render(&buf, fig))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
	assert.Equal(t, "closed", guarded.State())

	err := guarded.Render(&buf, &model.Figure{})
	assert.ErrorIs(t, err, ErrEmptyFigure)
}

func TestGuardedRendererIgnoresInputErrors(t *testing.T) {
	guarded := NewGuardedRenderer(NewPNGRenderer(320, 240), BreakerConfig{MaxFailures: 2}, zap.NewNop())
	negativePie := figure("Losses", model.Trace{Type: "pie", Labels: []any{"a", "b"}, Values: []float64{-3, -1}})

	var buf bytes.Buffer
	for i := 0; i < 5; i++ {
		err := guarded.Render(&buf, negativePie)
		assert.ErrorIs(t, err, ErrNothingToDraw)
	}
	assert.ErrorIs(t, guarded.Render(&buf, figure("t", model.Trace{Type: "sankey"})), ErrUnsupportedTrace)
	assert.Equal(t, "closed", guarded.State())

	valid := figure("Revenue", model.Trace{Type: "bar", X: []any{"a", "b"}, Y: []any{1.0, 2.0}})
	buf.Reset()
	require.NoError(t, guarded.Render(&buf, valid))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
}

func TestIsInputError(t *testing.T) {
	assert.True(t, IsInputError(ErrEmptyFigure))
	assert.True(t, IsInputError(fmt.Errorf("%w: sankey", ErrUnsupportedTrace)))
	assert.True(t, IsInputError(ErrNothingToDraw))
	assert.True(t, IsInputError(fmt.Errorf("%w: invalid data range; cannot be zero", ErrInvalidFigure)))
	assert.False(t, IsInputError(errors.New("boom")))
	assert.False(t, IsInputError(nil))
}

func TestHexColor(t *testing.T) {
	c := hexColor("#26a69a")
	assert.Equal(t, uint8(0x26), c.R)
	assert.Equal(t, uint8(0xa6), c.G)
	assert.Equal(t, uint8(0x9a), c.B)
	assert.Equal(t, uint8(255), c.A)
}
