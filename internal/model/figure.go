package model

// Figure is a Plotly-compatible chart document. Clients pass it straight to
// Plotly.newPlot(div, figure.data, figure.layout).
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a single Plotly trace. Only the attributes the builder emits are modelled.
type Trace struct {
	Type         string       `json:"type"`
	Name         string       `json:"name,omitempty"`
	Mode         string       `json:"mode,omitempty"`
	X            []any        `json:"x,omitempty"`
	Y            []any        `json:"y,omitempty"`
	Z            [][]*float64 `json:"z,omitempty"`
	Labels       []any        `json:"labels,omitempty"`
	Values       []float64    `json:"values,omitempty"`
	Open         []any        `json:"open,omitempty"`
	High         []any        `json:"high,omitempty"`
	Low          []any        `json:"low,omitempty"`
	Close        []any        `json:"close,omitempty"`
	Text         []string     `json:"text,omitempty"`
	TextPosition string       `json:"textposition,omitempty"`
	TextInfo     string       `json:"textinfo,omitempty"`
	Hole         float64      `json:"hole,omitempty"`
	NBinsX       int          `json:"nbinsx,omitempty"`
	Fill         string       `json:"fill,omitempty"`
	FillColor    string       `json:"fillcolor,omitempty"`
	ColorScale   string       `json:"colorscale,omitempty"`
	Line         *LineStyle   `json:"line,omitempty"`
	Marker       *MarkerStyle `json:"marker,omitempty"`
}

type LineStyle struct {
	Width float64 `json:"width,omitempty"`
	Color string  `json:"color,omitempty"`
}

type MarkerStyle struct {
	Size  float64 `json:"size,omitempty"`
	Color string  `json:"color,omitempty"`
}

type Layout struct {
	Title     Title  `json:"title"`
	XAxis     *Axis  `json:"xaxis,omitempty"`
	YAxis     *Axis  `json:"yaxis,omitempty"`
	Template  string `json:"template,omitempty"`
	HoverMode string `json:"hovermode,omitempty"`
	Height    int    `json:"height,omitempty"`
}

type Title struct {
	Text string `json:"text"`
}

type Axis struct {
	Title       *Title       `json:"title,omitempty"`
	RangeSlider *RangeSlider `json:"rangeslider,omitempty"`
}

type RangeSlider struct {
	Visible bool `json:"visible"`
}

// AxisTitle builds an axis carrying only a title
func AxisTitle(text string) *Axis {
	return &Axis{Title: &Title{Text: text}}
}
