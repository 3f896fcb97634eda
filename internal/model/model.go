package model

// ChartType identifies one of the supported visualization kinds
type ChartType string

const (
	ChartLine        ChartType = "line"
	ChartBar         ChartType = "bar"
	ChartScatter     ChartType = "scatter"
	ChartPie         ChartType = "pie"
	ChartHistogram   ChartType = "histogram"
	ChartBox         ChartType = "box"
	ChartCandlestick ChartType = "candlestick"
	ChartHeatmap     ChartType = "heatmap"
	ChartArea        ChartType = "area"
)

// ChartTypeInfo describes a chart type for clients picking one
type ChartTypeInfo struct {
	Value       ChartType `json:"value"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
}

// ChartRequest is the user's chart selection
type ChartRequest struct {
	Title           string    `json:"title"`
	GraphType       ChartType `json:"graph_type"`
	XAxis           string    `json:"x_axis"`
	YAxis           string    `json:"y_axis"`
	GroupBy         string    `json:"group_by,omitempty"`
	AdditionalYAxes []string  `json:"additional_y_axes,omitempty"`
}

// YColumns returns the primary Y column followed by any additional ones
func (r ChartRequest) YColumns() []string {
	cols := make([]string, 0, 1+len(r.AdditionalYAxes))
	seen := make(map[string]bool, cap(cols))
	for _, c := range append([]string{r.YAxis}, r.AdditionalYAxes...) {
		if c != "" && !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}
	return cols
}

// ColumnInfo describes a dataset column
type ColumnInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	IsNumeric    bool   `json:"is_numeric"`
	IsDatetime   bool   `json:"is_datetime"`
	UniqueValues int    `json:"unique_values"`
	HasNulls     bool   `json:"has_nulls"`
}

// ValidationResult holds rule violations for a chart request
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ChartResult is either a figure or a list of validation messages
type ChartResult struct {
	Success  bool     `json:"success"`
	Figure   *Figure  `json:"figure,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings"`
}

// DataPreview is the head of the dataset
type DataPreview struct {
	Preview   []map[string]any `json:"preview"`
	TotalRows int              `json:"total_rows"`
	Columns   []string         `json:"columns"`
}
