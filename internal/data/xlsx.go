package data

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet datasets are exported to
const SheetName = "Data"

// WriteXLSX writes the dataset as a single worksheet with a header row
func WriteXLSX(ds *Dataset, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	names := ds.Names()
	header := make([]any, len(names))
	for i, name := range names {
		header[i] = name
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := 0; i < ds.Len(); i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		row := make([]any, len(ds.columns))
		for j, col := range ds.columns {
			row[j] = col.Value(i)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// LoadXLSXFile reads a dataset from an xlsx file on disk
func LoadXLSXFile(path, sheet string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadXLSX(file, sheet)
}

// LoadXLSX reads a dataset from a worksheet. The first row holds column names and the
// kind of each column is inferred from its cells. An empty sheet name selects the first sheet.
func LoadXLSX(r io.Reader, sheet string) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("sheet %q: %w", sheet, ErrEmptyDataset)
	}

	header := rows[0]
	records := rows[1:]

	columns := make([]Column, 0, len(header))
	for j, name := range header {
		cells := make([]string, len(records))
		for i, record := range records {
			// excelize trims trailing empty cells
			if j < len(record) {
				cells[i] = strings.TrimSpace(record[j])
			}
		}
		columns = append(columns, inferColumn(strings.TrimSpace(name), cells))
	}

	return NewDataset(columns...)
}

func inferColumn(name string, cells []string) Column {
	nonEmpty := 0
	ints, floats, dates := true, true, true
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		nonEmpty++
		if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
			ints = false
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			floats = false
		}
		if _, err := time.Parse(DateLayout, cell); err != nil {
			dates = false
		}
	}

	switch {
	case nonEmpty == 0:
		return NewCategoricalColumn(name, cells)
	case ints:
		col := NewNumericColumn(name, parseNumbers(cells))
		col.Integer = true
		return col
	case floats:
		return NewNumericColumn(name, parseNumbers(cells))
	case dates:
		times := make([]time.Time, len(cells))
		for i, cell := range cells {
			if cell != "" {
				times[i], _ = time.Parse(DateLayout, cell)
			}
		}
		return NewDatetimeColumn(name, times)
	default:
		return NewCategoricalColumn(name, cells)
	}
}

// parseNumbers maps empty and non-finite cells to NaN
func parseNumbers(cells []string) []float64 {
	numbers := make([]float64, len(cells))
	for i, cell := range cells {
		if cell == "" {
			numbers[i] = math.NaN()
			continue
		}
		v, _ := strconv.ParseFloat(cell, 64)
		if math.IsInf(v, 0) {
			v = math.NaN()
		}
		numbers[i] = v
	}
	return numbers
}
