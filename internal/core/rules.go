package core

import (
	"ChartService/internal/data"
	"ChartService/internal/model"
	"fmt"
	"strings"
)

// Severity separates blocking violations from advice
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Violation is one failed rule
type Violation struct {
	Severity Severity
	Message  string
}

// Role names the part a column plays in a chart
type Role int

const (
	RoleX Role = iota
	RoleY
	RoleGroup
)

func (r Role) String() string {
	switch r {
	case RoleX:
		return "X-axis"
	case RoleY:
		return "Y-axis"
	default:
		return "Group-by"
	}
}

// Rule is a pure predicate over a dataset and a request. Rules run only after every
// role the chart type requires has been resolved to an existing column.
type Rule func(ds *data.Dataset, req model.ChartRequest) []Violation

func errorf(format string, args ...any) Violation {
	return Violation{Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

func warnf(format string, args ...any) Violation {
	return Violation{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// roleColumns returns the columns selected for a role
func roleColumns(req model.ChartRequest, role Role, multiY bool) []string {
	switch role {
	case RoleX:
		return nonEmpty(req.XAxis)
	case RoleY:
		if multiY {
			return req.YColumns()
		}
		return nonEmpty(req.YAxis)
	default:
		return nonEmpty(req.GroupBy)
	}
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

// numeric requires the column(s) in role to be numeric. format receives the column name.
func numeric(role Role, format string) Rule {
	return numericColumns(role, false, format)
}

// numericAllY requires the primary and every additional Y column to be numeric
func numericAllY(format string) Rule {
	return numericColumns(RoleY, true, format)
}

func numericColumns(role Role, multiY bool, format string) Rule {
	return func(ds *data.Dataset, req model.ChartRequest) []Violation {
		var out []Violation
		for _, name := range roleColumns(req, role, multiY) {
			col, err := ds.Column(name)
			if err != nil || !col.IsNumeric() {
				out = append(out, errorf(format, name))
			}
		}
		return out
	}
}

// valueNumeric requires the Y column to be numeric with a fixed message
func valueNumeric(message string) Rule {
	return func(ds *data.Dataset, req model.ChartRequest) []Violation {
		col, err := ds.Column(req.YAxis)
		if err != nil || !col.IsNumeric() {
			return []Violation{errorf("%s", message)}
		}
		return nil
	}
}

// minRows requires at least n rows
func minRows(n int, message string) Rule {
	return func(ds *data.Dataset, req model.ChartRequest) []Violation {
		if ds.Len() < n {
			return []Violation{errorf("%s", message)}
		}
		return nil
	}
}

// advisedRows warns when fewer than n rows are present
func advisedRows(n int, message string) Rule {
	return func(ds *data.Dataset, req model.ChartRequest) []Violation {
		if ds.Len() < n {
			return []Violation{warnf("%s", message)}
		}
		return nil
	}
}

// categoryBounds checks the distinct value count of the X column. A bound of zero is
// not checked. Exceeding max is an error when strictMax is set and a warning otherwise.
func categoryBounds(min, max int, strictMax bool, minMessage, maxFormat string) Rule {
	return func(ds *data.Dataset, req model.ChartRequest) []Violation {
		col, err := ds.Column(req.XAxis)
		if err != nil {
			return nil
		}

		var out []Violation
		unique := col.Unique()
		if min > 0 && unique < min {
			out = append(out, errorf("%s", minMessage))
		}
		if max > 0 && unique > max {
			if strictMax {
				out = append(out, errorf(maxFormat, unique))
			} else {
				out = append(out, warnf(maxFormat, unique))
			}
		}
		return out
	}
}

// requiredColumns checks a fixed column subset exists, independent of the request
func requiredColumns(required []string, numericOnes []string, kind string) Rule {
	return func(ds *data.Dataset, req model.ChartRequest) []Violation {
		var missing []string
		for _, name := range required {
			if !ds.Has(name) {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return []Violation{errorf("Missing required columns: %s", strings.Join(missing, ", "))}
		}

		var out []Violation
		for _, name := range numericOnes {
			col, _ := ds.Column(name)
			if !col.IsNumeric() {
				out = append(out, errorf("Column '%s' must be numeric for %s charts", name, kind))
			}
		}
		return out
	}
}

// groupRequired makes the group-by column mandatory
func groupRequired(message string) Rule {
	return func(ds *data.Dataset, req model.ChartRequest) []Violation {
		if req.GroupBy == "" {
			return []Violation{errorf("%s", message)}
		}
		return nil
	}
}

// cellBudget warns when an X by group-by grid grows beyond max cells
func cellBudget(max int) Rule {
	return func(ds *data.Dataset, req model.ChartRequest) []Violation {
		x, err := ds.Column(req.XAxis)
		if err != nil {
			return nil
		}
		group, err := ds.Column(req.GroupBy)
		if err != nil {
			return nil
		}
		if cells := x.Unique() * group.Unique(); cells > max {
			return []Violation{warnf("Heatmap has %d cells. Consider a coarser grouping.", cells)}
		}
		return nil
	}
}
