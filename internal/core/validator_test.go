package core

import (
	"ChartService/internal/data"
	"ChartService/internal/model"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleDataset builds n rows with numeric, datetime and categorical columns.
// Category cycles through categories distinct values.
func sampleDataset(t *testing.T, n, categories int) *data.Dataset {
	t.Helper()

	dates := make([]time.Time, n)
	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	volume := make([]int64, n)
	category := make([]string, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		dates[i] = start.AddDate(0, 0, i)
		open[i] = 100 + float64(i)
		high[i] = 105 + float64(i)
		low[i] = 95 + float64(i)
		closes[i] = 101 + float64(i)
		volume[i] = int64(1000 + i)
		category[i] = fmt.Sprintf("C%02d", i%categories)
	}

	ds, err := data.NewDataset(
		data.NewDatetimeColumn("Date", dates),
		data.NewNumericColumn("Open", open),
		data.NewNumericColumn("High", high),
		data.NewNumericColumn("Low", low),
		data.NewNumericColumn("Close", closes),
		data.NewIntegerColumn("Volume", volume),
		data.NewCategoricalColumn("Category", category),
	)
	require.NoError(t, err)
	return ds
}

func TestGetValidatorIsSingleton(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}

func TestChartTypesOrder(t *testing.T) {
	types := GetValidator().ChartTypes()

	var values []model.ChartType
	for _, info := range types {
		values = append(values, info.Value)
		assert.NotEmpty(t, info.Label)
		assert.NotEmpty(t, info.Description)
	}
	assert.Equal(t, []model.ChartType{
		model.ChartLine, model.ChartBar, model.ChartScatter, model.ChartPie, model.ChartHistogram,
		model.ChartBox, model.ChartCandlestick, model.ChartHeatmap, model.ChartArea,
	}, values)
}

func TestSpecUnknownType(t *testing.T) {
	_, err := GetValidator().Spec("radar")
	assert.ErrorIs(t, err, ErrUnsupportedChartType)
}

func TestValidateCommonChecks(t *testing.T) {
	v := GetValidator()
	ds := sampleDataset(t, 20, 4)

	tests := []struct {
		name   string
		ds     *data.Dataset
		req    model.ChartRequest
		errors []string
	}{
		{
			name:   "unknown chart type",
			ds:     ds,
			req:    model.ChartRequest{GraphType: "radar", XAxis: "Date", YAxis: "Close"},
			errors: []string{"Graph type 'radar' not supported"},
		},
		{
			name:   "no dataset",
			ds:     nil,
			req:    model.ChartRequest{GraphType: model.ChartLine, XAxis: "Date", YAxis: "Close"},
			errors: []string{"No dataset loaded"},
		},
		{
			name:   "missing x axis",
			ds:     ds,
			req:    model.ChartRequest{GraphType: model.ChartBar, YAxis: "Close"},
			errors: []string{"X-axis column is required for bar charts"},
		},
		{
			name:   "missing y axis",
			ds:     ds,
			req:    model.ChartRequest{GraphType: model.ChartLine, XAxis: "Date"},
			errors: []string{"Y-axis column is required for line charts"},
		},
		{
			name:   "unknown columns",
			ds:     ds,
			req:    model.ChartRequest{GraphType: model.ChartScatter, XAxis: "Nope", YAxis: "Missing"},
			errors: []string{"Column 'Nope' not found", "Column 'Missing' not found"},
		},
		{
			name:   "unknown group by",
			ds:     ds,
			req:    model.ChartRequest{GraphType: model.ChartBox, YAxis: "Close", GroupBy: "Region"},
			errors: []string{"Column 'Region' not found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(tt.ds, tt.req)
			assert.False(t, result.Valid)
			assert.Equal(t, tt.errors, result.Errors)
			assert.NotNil(t, result.Warnings)
		})
	}
}

func TestValidateChartRules(t *testing.T) {
	v := GetValidator()

	tests := []struct {
		name     string
		rows     int
		cats     int
		req      model.ChartRequest
		valid    bool
		errors   []string
		warnings []string
	}{
		// line
		{name: "line valid", rows: 10, cats: 3, req: model.ChartRequest{GraphType: model.ChartLine, XAxis: "Date", YAxis: "Close"}, valid: true},
		{name: "line with two points", rows: 2, cats: 2, req: model.ChartRequest{GraphType: model.ChartLine, XAxis: "Date", YAxis: "Close"},
			errors: []string{"Line chart needs at least 3 data points"}},
		{name: "line categorical y", rows: 10, cats: 3, req: model.ChartRequest{GraphType: model.ChartLine, XAxis: "Date", YAxis: "Category"},
			errors: []string{"Y-axis 'Category' must be numeric for line charts"}},
		{name: "line additional y checked", rows: 10, cats: 3,
			req:    model.ChartRequest{GraphType: model.ChartLine, XAxis: "Date", YAxis: "Close", AdditionalYAxes: []string{"Open", "Category"}},
			errors: []string{"Y-axis 'Category' must be numeric for line charts"}},
		{name: "line additional y missing", rows: 10, cats: 3,
			req:    model.ChartRequest{GraphType: model.ChartLine, XAxis: "Date", YAxis: "Close", AdditionalYAxes: []string{"Ghost"}},
			errors: []string{"Column 'Ghost' not found"}},

		// bar
		{name: "bar valid", rows: 20, cats: 5, req: model.ChartRequest{GraphType: model.ChartBar, XAxis: "Category", YAxis: "Volume"}, valid: true},
		{name: "bar categorical y", rows: 20, cats: 5, req: model.ChartRequest{GraphType: model.ChartBar, XAxis: "Category", YAxis: "Date"},
			errors: []string{"Y-axis 'Date' must be numeric"}},
		{name: "bar many categories warns", rows: 60, cats: 60, req: model.ChartRequest{GraphType: model.ChartBar, XAxis: "Category", YAxis: "Close"},
			valid: true, warnings: []string{"Too many categories (60). Consider filtering."}},
		{name: "bar with additional y warns", rows: 20, cats: 5,
			req:   model.ChartRequest{GraphType: model.ChartBar, XAxis: "Category", YAxis: "Close", AdditionalYAxes: []string{"Open"}},
			valid: true, warnings: []string{"Additional Y-axis columns are ignored for bar charts"}},

		// scatter
		{name: "scatter valid", rows: 10, cats: 2, req: model.ChartRequest{GraphType: model.ChartScatter, XAxis: "Open", YAxis: "Close"}, valid: true},
		{name: "scatter categorical x", rows: 10, cats: 2, req: model.ChartRequest{GraphType: model.ChartScatter, XAxis: "Category", YAxis: "Close"},
			errors: []string{"X-axis 'Category' must be numeric for scatter plots"}},
		{name: "scatter few points warns", rows: 4, cats: 2, req: model.ChartRequest{GraphType: model.ChartScatter, XAxis: "Open", YAxis: "Close"},
			valid: true, warnings: []string{"Scatter plots work best with at least 5 points"}},

		// pie
		{name: "pie five categories", rows: 20, cats: 5, req: model.ChartRequest{GraphType: model.ChartPie, XAxis: "Category", YAxis: "Volume"}, valid: true},
		{name: "pie eight categories", rows: 16, cats: 8, req: model.ChartRequest{GraphType: model.ChartPie, XAxis: "Category", YAxis: "Volume"}, valid: true},
		{name: "pie ten categories", rows: 20, cats: 10, req: model.ChartRequest{GraphType: model.ChartPie, XAxis: "Category", YAxis: "Volume"},
			errors: []string{"Too many categories (10). Pie charts support at most 8."}},
		{name: "pie one category", rows: 5, cats: 1, req: model.ChartRequest{GraphType: model.ChartPie, XAxis: "Category", YAxis: "Volume"},
			errors: []string{"Pie chart needs at least 2 categories"}},
		{name: "pie categorical values", rows: 10, cats: 5, req: model.ChartRequest{GraphType: model.ChartPie, XAxis: "Category", YAxis: "Category"},
			errors: []string{"Values column 'Category' must be numeric"}},

		// histogram
		{name: "histogram valid", rows: 30, cats: 2, req: model.ChartRequest{GraphType: model.ChartHistogram, XAxis: "Close"}, valid: true},
		{name: "histogram few points warns", rows: 9, cats: 2, req: model.ChartRequest{GraphType: model.ChartHistogram, XAxis: "Close"},
			valid: true, warnings: []string{"Histograms work best with at least 10 data points"}},
		{name: "histogram categorical", rows: 30, cats: 2, req: model.ChartRequest{GraphType: model.ChartHistogram, XAxis: "Category"},
			errors: []string{"Column 'Category' must be numeric for histogram"}},

		// box
		{name: "box valid", rows: 10, cats: 2, req: model.ChartRequest{GraphType: model.ChartBox, YAxis: "Close", GroupBy: "Category"}, valid: true},
		{name: "box categorical", rows: 10, cats: 2, req: model.ChartRequest{GraphType: model.ChartBox, YAxis: "Category"},
			errors: []string{"Column 'Category' must be numeric for box plot"}},

		// candlestick
		{name: "candlestick valid without columns", rows: 10, cats: 2, req: model.ChartRequest{GraphType: model.ChartCandlestick}, valid: true},

		// heatmap
		{name: "heatmap valid", rows: 30, cats: 3, req: model.ChartRequest{GraphType: model.ChartHeatmap, XAxis: "Category", YAxis: "Close", GroupBy: "Volume"}, valid: true},
		{name: "heatmap without group", rows: 30, cats: 3, req: model.ChartRequest{GraphType: model.ChartHeatmap, XAxis: "Category", YAxis: "Close"},
			errors: []string{"Heatmap needs a group-by column for its rows"}},
		{name: "heatmap categorical value", rows: 30, cats: 3, req: model.ChartRequest{GraphType: model.ChartHeatmap, XAxis: "Date", YAxis: "Category", GroupBy: "Category"},
			errors: []string{"Value column must be numeric"}},
		{name: "heatmap large grid warns", rows: 60, cats: 60, req: model.ChartRequest{GraphType: model.ChartHeatmap, XAxis: "Date", YAxis: "Close", GroupBy: "Category"},
			valid: true, warnings: []string{"Heatmap has 3600 cells. Consider a coarser grouping."}},

		// area
		{name: "area valid", rows: 2, cats: 2, req: model.ChartRequest{GraphType: model.ChartArea, XAxis: "Date", YAxis: "Close"}, valid: true},
		{name: "area single row", rows: 1, cats: 1, req: model.ChartRequest{GraphType: model.ChartArea, XAxis: "Date", YAxis: "Close"},
			errors: []string{"Area chart needs at least 2 data points"}},
		{name: "area categorical y", rows: 5, cats: 2, req: model.ChartRequest{GraphType: model.ChartArea, XAxis: "Date", YAxis: "Category"},
			errors: []string{"Y-axis 'Category' must be numeric for area charts"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := sampleDataset(t, tt.rows, tt.cats)
			result := v.Validate(ds, tt.req)

			assert.Equal(t, tt.valid, result.Valid)
			if tt.errors == nil {
				assert.Empty(t, result.Errors)
			} else {
				assert.Equal(t, tt.errors, result.Errors)
			}
			if tt.warnings == nil {
				assert.Empty(t, result.Warnings)
			} else {
				assert.Equal(t, tt.warnings, result.Warnings)
			}
		})
	}
}

func TestValidateCandlestickColumns(t *testing.T) {
	v := GetValidator()

	t.Run("missing columns", func(t *testing.T) {
		ds, err := data.NewDataset(
			data.NewDatetimeColumn("Date", []time.Time{time.Now()}),
			data.NewNumericColumn("Open", []float64{1}),
		)
		require.NoError(t, err)

		result := v.Validate(ds, model.ChartRequest{GraphType: model.ChartCandlestick})
		assert.False(t, result.Valid)
		assert.Equal(t, []string{"Missing required columns: High, Low, Close"}, result.Errors)
	})

	t.Run("non numeric price column", func(t *testing.T) {
		ds, err := data.NewDataset(
			data.NewDatetimeColumn("Date", []time.Time{time.Now()}),
			data.NewNumericColumn("Open", []float64{1}),
			data.NewNumericColumn("High", []float64{2}),
			data.NewCategoricalColumn("Low", []string{"low"}),
			data.NewNumericColumn("Close", []float64{1.5}),
		)
		require.NoError(t, err)

		result := v.Validate(ds, model.ChartRequest{GraphType: model.ChartCandlestick})
		assert.False(t, result.Valid)
		assert.Equal(t, []string{"Column 'Low' must be numeric for candlestick charts"}, result.Errors)
	})
}

func TestValidateDoesNotMutateRequest(t *testing.T) {
	ds := sampleDataset(t, 10, 3)
	req := model.ChartRequest{GraphType: model.ChartLine, XAxis: "Date", YAxis: "Close", AdditionalYAxes: []string{"Open"}}
	before := req
	before.AdditionalYAxes = append([]string(nil), req.AdditionalYAxes...)

	first := GetValidator().Validate(ds, req)
	second := GetValidator().Validate(ds, req)

	assert.Equal(t, before, req)
	assert.Equal(t, first, second)
}

func TestNewValidatorCustomSpec(t *testing.T) {
	custom := ChartSpec{
		Info:  model.ChartTypeInfo{Value: "sparkline", Label: "Sparkline"},
		Roles: []Role{RoleY},
		Rules: []Rule{minRows(3, "Sparkline needs 3 points")},
	}
	v := NewValidator(custom)

	result := v.Validate(sampleDataset(t, 2, 1), model.ChartRequest{GraphType: "sparkline", YAxis: "Close"})
	assert.Equal(t, []string{"Sparkline needs 3 points"}, result.Errors)
	assert.Len(t, v.ChartTypes(), 1)
}
