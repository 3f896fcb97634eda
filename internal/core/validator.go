package core

import (
	"ChartService/internal/data"
	"ChartService/internal/model"
	"errors"
	"fmt"
	"sync"
)

// ErrUnsupportedChartType is returned for chart types outside the registry
var ErrUnsupportedChartType = errors.New("unsupported chart type")

// Validator checks chart requests against per-type rules
type Validator struct {
	specs map[model.ChartType]ChartSpec
	order []model.ChartType
}

var (
	validatorInstance *Validator
	validatorOnce     sync.Once
)

// GetValidator returns the shared validator for the built-in chart types
func GetValidator() *Validator {
	validatorOnce.Do(func() {
		validatorInstance = NewValidator(defaultSpecs()...)
	})
	return validatorInstance
}

// NewValidator builds a validator from chart specs; later specs replace earlier ones
func NewValidator(specs ...ChartSpec) *Validator {
	v := &Validator{specs: make(map[model.ChartType]ChartSpec, len(specs))}
	for _, spec := range specs {
		if _, exists := v.specs[spec.Info.Value]; !exists {
			v.order = append(v.order, spec.Info.Value)
		}
		v.specs[spec.Info.Value] = spec
	}
	return v
}

// ChartTypes lists the supported chart types in registration order
func (v *Validator) ChartTypes() []model.ChartTypeInfo {
	out := make([]model.ChartTypeInfo, 0, len(v.order))
	for _, t := range v.order {
		out = append(out, v.specs[t].Info)
	}
	return out
}

// Spec returns the registered ChartSpec for a chart type
func (v *Validator) Spec(chartType model.ChartType) (ChartSpec, error) {
	spec, ok := v.specs[chartType]
	if !ok {
		return ChartSpec{}, fmt.Errorf("%w: %s", ErrUnsupportedChartType, chartType)
	}
	return spec, nil
}

// Validate checks the request against the dataset. It never mutates either.
func (v *Validator) Validate(ds *data.Dataset, req model.ChartRequest) model.ValidationResult {
	result := model.ValidationResult{Errors: []string{}, Warnings: []string{}}

	spec, err := v.Spec(req.GraphType)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Graph type '%s' not supported", req.GraphType))
		return result
	}
	if ds == nil {
		result.Errors = append(result.Errors, "No dataset loaded")
		return result
	}

	// Column roles must resolve before any rule can look at the data
	result.Errors = append(result.Errors, v.checkRoles(ds, spec, req)...)
	if len(result.Errors) > 0 {
		return result
	}

	if len(req.AdditionalYAxes) > 0 && !spec.MultiY {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Additional Y-axis columns are ignored for %s charts", spec.Info.Value))
	}

	for _, rule := range spec.Rules {
		for _, violation := range rule(ds, req) {
			switch violation.Severity {
			case SeverityError:
				result.Errors = append(result.Errors, violation.Message)
			default:
				result.Warnings = append(result.Warnings, violation.Message)
			}
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func (v *Validator) checkRoles(ds *data.Dataset, spec ChartSpec, req model.ChartRequest) []string {
	var errs []string
	required := make(map[Role]bool, len(spec.Roles))
	for _, role := range spec.Roles {
		required[role] = true
		names := roleColumns(req, role, spec.MultiY)
		if len(names) == 0 || (role == RoleY && req.YAxis == "") {
			errs = append(errs, fmt.Sprintf("%s column is required for %s charts", role, spec.Info.Value))
			continue
		}
		for _, name := range names {
			if !ds.Has(name) {
				errs = append(errs, fmt.Sprintf("Column '%s' not found", name))
			}
		}
	}

	// Optional group-by still has to name a real column
	if !required[RoleGroup] && req.GroupBy != "" && !ds.Has(req.GroupBy) {
		errs = append(errs, fmt.Sprintf("Column '%s' not found", req.GroupBy))
	}
	return errs
}
