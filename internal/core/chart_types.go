package core

import (
	"ChartService/internal/model"
)

// Limits applied by the chart rules
const (
	LineMinPoints        = 3
	AreaMinPoints        = 2
	ScatterAdvisedPoints = 5
	HistogramAdvised     = 10
	BarMaxCategories     = 50
	PieMinCategories     = 2
	PieMaxCategories     = 8
	HeatmapMaxCells      = 2500
)

// CandlestickColumns are the fixed columns a candlestick chart reads
var CandlestickColumns = []string{"Date", "Open", "High", "Low", "Close"}

// ChartSpec declares which roles a chart type needs and which rules it must satisfy
type ChartSpec struct {
	Info   model.ChartTypeInfo
	Roles  []Role
	MultiY bool
	Rules  []Rule
}

func defaultSpecs() []ChartSpec {
	return []ChartSpec{
		{
			Info:   model.ChartTypeInfo{Value: model.ChartLine, Label: "Line Chart", Description: "Show trends over time"},
			Roles:  []Role{RoleX, RoleY},
			MultiY: true,
			Rules: []Rule{
				numericAllY("Y-axis '%s' must be numeric for line charts"),
				minRows(LineMinPoints, "Line chart needs at least 3 data points"),
			},
		},
		{
			Info:  model.ChartTypeInfo{Value: model.ChartBar, Label: "Bar Chart", Description: "Compare categories"},
			Roles: []Role{RoleX, RoleY},
			Rules: []Rule{
				numeric(RoleY, "Y-axis '%s' must be numeric"),
				categoryBounds(0, BarMaxCategories, false, "", "Too many categories (%d). Consider filtering."),
			},
		},
		{
			Info:  model.ChartTypeInfo{Value: model.ChartScatter, Label: "Scatter Plot", Description: "Show correlation"},
			Roles: []Role{RoleX, RoleY},
			Rules: []Rule{
				numeric(RoleX, "X-axis '%s' must be numeric for scatter plots"),
				numeric(RoleY, "Y-axis '%s' must be numeric for scatter plots"),
				advisedRows(ScatterAdvisedPoints, "Scatter plots work best with at least 5 points"),
			},
		},
		{
			Info:  model.ChartTypeInfo{Value: model.ChartPie, Label: "Pie Chart", Description: "Show proportions"},
			Roles: []Role{RoleX, RoleY},
			Rules: []Rule{
				numeric(RoleY, "Values column '%s' must be numeric"),
				categoryBounds(PieMinCategories, PieMaxCategories, true,
					"Pie chart needs at least 2 categories",
					"Too many categories (%d). Pie charts support at most 8."),
			},
		},
		{
			Info:  model.ChartTypeInfo{Value: model.ChartHistogram, Label: "Histogram", Description: "Show distribution"},
			Roles: []Role{RoleX},
			Rules: []Rule{
				numeric(RoleX, "Column '%s' must be numeric for histogram"),
				advisedRows(HistogramAdvised, "Histograms work best with at least 10 data points"),
			},
		},
		{
			Info:  model.ChartTypeInfo{Value: model.ChartBox, Label: "Box Plot", Description: "Show statistical distribution"},
			Roles: []Role{RoleY},
			Rules: []Rule{
				numeric(RoleY, "Column '%s' must be numeric for box plot"),
			},
		},
		{
			Info: model.ChartTypeInfo{Value: model.ChartCandlestick, Label: "Candlestick", Description: "Stock price movement"},
			Rules: []Rule{
				requiredColumns(CandlestickColumns, CandlestickColumns[1:], "candlestick"),
			},
		},
		{
			Info:  model.ChartTypeInfo{Value: model.ChartHeatmap, Label: "Heatmap", Description: "Show patterns in matrix"},
			Roles: []Role{RoleX, RoleY},
			Rules: []Rule{
				valueNumeric("Value column must be numeric"),
				groupRequired("Heatmap needs a group-by column for its rows"),
				cellBudget(HeatmapMaxCells),
			},
		},
		{
			Info:   model.ChartTypeInfo{Value: model.ChartArea, Label: "Area Chart", Description: "Show cumulative trends"},
			Roles:  []Role{RoleX, RoleY},
			MultiY: true,
			Rules: []Rule{
				numericAllY("Y-axis '%s' must be numeric for area charts"),
				minRows(AreaMinPoints, "Area chart needs at least 2 data points"),
			},
		},
	}
}
