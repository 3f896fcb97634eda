package data

import (
	"ChartService/internal/model"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// DateLayout is how datetime cells are rendered in previews, figures and exports
const DateLayout = "2006-01-02"

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrLengthMismatch = errors.New("column length mismatch")
	ErrDuplicate      = errors.New("duplicate column name")
	ErrEmptyDataset   = errors.New("dataset has no columns")
)

// ColumnKind is the logical type of a column
type ColumnKind int

const (
	KindNumeric ColumnKind = iota
	KindDatetime
	KindCategorical
)

// Column is a single named vector. Exactly one of Numbers, Times or Strings is populated,
// depending on Kind. Missing numeric values are NaN (infinities count as missing too),
// missing strings are empty.
type Column struct {
	Name    string
	Kind    ColumnKind
	Integer bool
	Numbers []float64
	Times   []time.Time
	Strings []string
}

// NewNumericColumn creates a float64 column
func NewNumericColumn(name string, values []float64) Column {
	return Column{Name: name, Kind: KindNumeric, Numbers: values}
}

// NewIntegerColumn creates an int64 column
func NewIntegerColumn(name string, values []int64) Column {
	numbers := make([]float64, len(values))
	for i, v := range values {
		numbers[i] = float64(v)
	}
	return Column{Name: name, Kind: KindNumeric, Integer: true, Numbers: numbers}
}

// NewDatetimeColumn creates a datetime column
func NewDatetimeColumn(name string, values []time.Time) Column {
	return Column{Name: name, Kind: KindDatetime, Times: values}
}

// NewCategoricalColumn creates a string column
func NewCategoricalColumn(name string, values []string) Column {
	return Column{Name: name, Kind: KindCategorical, Strings: values}
}

// Len returns the number of values in the column
func (c Column) Len() int {
	switch c.Kind {
	case KindNumeric:
		return len(c.Numbers)
	case KindDatetime:
		return len(c.Times)
	default:
		return len(c.Strings)
	}
}

func (c Column) IsNumeric() bool  { return c.Kind == KindNumeric }
func (c Column) IsDatetime() bool { return c.Kind == KindDatetime }

// IsNull reports whether the i-th value is missing
func (c Column) IsNull(i int) bool {
	switch c.Kind {
	case KindNumeric:
		return math.IsNaN(c.Numbers[i]) || math.IsInf(c.Numbers[i], 0)
	case KindDatetime:
		return c.Times[i].IsZero()
	default:
		return c.Strings[i] == ""
	}
}

// Value returns the i-th value in its JSON form: float64 or int64 for numeric columns,
// a YYYY-MM-DD string for datetimes, the raw string for categoricals and nil when missing.
func (c Column) Value(i int) any {
	if c.IsNull(i) {
		return nil
	}
	switch c.Kind {
	case KindNumeric:
		if c.Integer {
			return int64(c.Numbers[i])
		}
		return c.Numbers[i]
	case KindDatetime:
		return c.Times[i].Format(DateLayout)
	default:
		return c.Strings[i]
	}
}

// Values returns every value of the column in its JSON form
func (c Column) Values() []any {
	out := make([]any, c.Len())
	for i := range out {
		out[i] = c.Value(i)
	}
	return out
}

// Key returns a string that is equal for equal values, used for grouping
func (c Column) Key(i int) string {
	switch c.Kind {
	case KindNumeric:
		return strconv.FormatFloat(c.Numbers[i], 'g', -1, 64)
	case KindDatetime:
		return c.Times[i].UTC().Format(time.RFC3339Nano)
	default:
		return c.Strings[i]
	}
}

// Less orders two rows of the column by value
func (c Column) Less(i, j int) bool {
	switch c.Kind {
	case KindNumeric:
		return c.Numbers[i] < c.Numbers[j]
	case KindDatetime:
		return c.Times[i].Before(c.Times[j])
	default:
		return c.Strings[i] < c.Strings[j]
	}
}

// Unique counts distinct non-missing values
func (c Column) Unique() int {
	seen := make(map[string]struct{})
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		seen[c.Key(i)] = struct{}{}
	}
	return len(seen)
}

// HasNulls reports whether any value is missing
func (c Column) HasNulls() bool {
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			return true
		}
	}
	return false
}

// DType names the storage type the way the column listing reports it
func (c Column) DType() string {
	switch c.Kind {
	case KindNumeric:
		if c.Integer {
			return "int64"
		}
		return "float64"
	case KindDatetime:
		return "datetime64[ns]"
	default:
		return "object"
	}
}

func (c Column) slice(from, to int) Column {
	out := Column{Name: c.Name, Kind: c.Kind, Integer: c.Integer}
	switch c.Kind {
	case KindNumeric:
		out.Numbers = append([]float64(nil), c.Numbers[from:to]...)
	case KindDatetime:
		out.Times = append([]time.Time(nil), c.Times[from:to]...)
	default:
		out.Strings = append([]string(nil), c.Strings[from:to]...)
	}
	return out
}

// Dataset is an immutable in-memory table
type Dataset struct {
	columns []Column
	index   map[string]int
	rows    int
}

// NewDataset builds a dataset from equally sized, uniquely named columns
func NewDataset(columns ...Column) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, ErrEmptyDataset
	}

	ds := &Dataset{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
		rows:    columns[0].Len(),
	}

	for _, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("column %d has no name", len(ds.columns))
		}
		if _, exists := ds.index[col.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, col.Name)
		}
		if col.Len() != ds.rows {
			return nil, fmt.Errorf("%w: %s has %d rows, expected %d", ErrLengthMismatch, col.Name, col.Len(), ds.rows)
		}
		ds.index[col.Name] = len(ds.columns)
		ds.columns = append(ds.columns, col)
	}

	return ds, nil
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return d.rows
}

// Names returns column names in order
func (d *Dataset) Names() []string {
	names := make([]string, len(d.columns))
	for i, col := range d.columns {
		names[i] = col.Name
	}
	return names
}

// Has reports whether a column exists
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column returns the named column
func (d *Dataset) Column(name string) (Column, error) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	return d.columns[i], nil
}

// Columns returns all columns in order
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// Info describes each column
func (d *Dataset) Info() []model.ColumnInfo {
	info := make([]model.ColumnInfo, 0, len(d.columns))
	for _, col := range d.columns {
		info = append(info, model.ColumnInfo{
			Name:         col.Name,
			Type:         col.DType(),
			IsNumeric:    col.IsNumeric(),
			IsDatetime:   col.IsDatetime(),
			UniqueValues: col.Unique(),
			HasNulls:     col.HasNulls(),
		})
	}
	return info
}

// Row returns the i-th row keyed by column name
func (d *Dataset) Row(i int) map[string]any {
	row := make(map[string]any, len(d.columns))
	for _, col := range d.columns {
		row[col.Name] = col.Value(i)
	}
	return row
}

// Head returns the first n rows as records
func (d *Dataset) Head(n int) []map[string]any {
	if n < 0 {
		n = 0
	}
	if n > d.rows {
		n = d.rows
	}

	records := make([]map[string]any, n)
	for i := 0; i < n; i++ {
		records[i] = d.Row(i)
	}
	return records
}

// Tail returns a dataset holding the last n rows
func (d *Dataset) Tail(n int) *Dataset {
	if n < 0 {
		n = 0
	}
	if n > d.rows {
		n = d.rows
	}

	from := d.rows - n
	out := &Dataset{
		columns: make([]Column, len(d.columns)),
		index:   d.index,
		rows:    n,
	}
	for i, col := range d.columns {
		out.columns[i] = col.slice(from, d.rows)
	}
	return out
}
