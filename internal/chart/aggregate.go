package chart

import (
	"ChartService/internal/data"
	"math"
	"sort"
)

// group collects the rows sharing one key value
type group struct {
	key   string
	row   int // first row carrying the key, used for labels and ordering
	rows  []int
	sum   float64
	count int
}

// groupBy partitions non-null rows of col by value, in order of first appearance
func groupBy(col data.Column) []*group {
	index := make(map[string]*group)
	var groups []*group
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		key := col.Key(i)
		g, ok := index[key]
		if !ok {
			g = &group{key: key, row: i}
			index[key] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, i)
	}
	return groups
}

// groupSum groups by keys and sums values, skipping missing values
func groupSum(keys, values data.Column) []*group {
	groups := groupBy(keys)
	for _, g := range groups {
		for _, row := range g.rows {
			v := values.Numbers[row]
			if math.IsNaN(v) {
				continue
			}
			g.sum += v
			g.count++
		}
	}
	return groups
}

// sortBySumDesc orders groups by descending sum, ties by key order
func sortBySumDesc(keys data.Column, groups []*group) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].sum != groups[j].sum {
			return groups[i].sum > groups[j].sum
		}
		return keys.Less(groups[i].row, groups[j].row)
	})
}

// sortByKey orders groups by their key value
func sortByKey(keys data.Column, groups []*group) {
	sort.SliceStable(groups, func(i, j int) bool {
		return keys.Less(groups[i].row, groups[j].row)
	})
}

func topN(groups []*group, n int) []*group {
	if len(groups) > n {
		return groups[:n]
	}
	return groups
}

func labels(keys data.Column, groups []*group) []any {
	out := make([]any, len(groups))
	for i, g := range groups {
		out[i] = keys.Value(g.row)
	}
	return out
}

// pivotMean averages values over a rows × columns grid. Keys are sorted by value,
// cells without any value are nil and fully empty rows or columns are left out.
func pivotMean(columns, rows, values data.Column) (xLabels, yLabels []any, z [][]*float64) {
	colGroups := groupBy(columns)
	rowGroups := groupBy(rows)
	sortByKey(columns, colGroups)
	sortByKey(rows, rowGroups)

	colIndex := make(map[string]int, len(colGroups))
	for i, g := range colGroups {
		colIndex[g.key] = i
	}
	rowIndex := make(map[string]int, len(rowGroups))
	for i, g := range rowGroups {
		rowIndex[g.key] = i
	}

	sums := make([][]float64, len(rowGroups))
	counts := make([][]int, len(rowGroups))
	for i := range sums {
		sums[i] = make([]float64, len(colGroups))
		counts[i] = make([]int, len(colGroups))
	}

	for i := 0; i < values.Len(); i++ {
		if columns.IsNull(i) || rows.IsNull(i) || math.IsNaN(values.Numbers[i]) {
			continue
		}
		r := rowIndex[rows.Key(i)]
		c := colIndex[columns.Key(i)]
		sums[r][c] += values.Numbers[i]
		counts[r][c]++
	}

	// rows and columns without a single value are dropped
	rowKeep := make([]bool, len(rowGroups))
	colKeep := make([]bool, len(colGroups))
	for r := range counts {
		for c, n := range counts[r] {
			if n > 0 {
				rowKeep[r], colKeep[c] = true, true
			}
		}
	}

	var keptRows, keptCols []*group
	var rowPos, colPos []int
	for r, g := range rowGroups {
		if rowKeep[r] {
			keptRows = append(keptRows, g)
			rowPos = append(rowPos, r)
		}
	}
	for c, g := range colGroups {
		if colKeep[c] {
			keptCols = append(keptCols, g)
			colPos = append(colPos, c)
		}
	}

	z = make([][]*float64, len(rowPos))
	for i, r := range rowPos {
		z[i] = make([]*float64, len(colPos))
		for j, c := range colPos {
			if counts[r][c] == 0 {
				continue
			}
			mean := sums[r][c] / float64(counts[r][c])
			z[i][j] = &mean
		}
	}

	return labels(columns, keptCols), labels(rows, keptRows), z
}

func pick(col data.Column, rows []int) []any {
	out := make([]any, len(rows))
	for i, row := range rows {
		out[i] = col.Value(row)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
