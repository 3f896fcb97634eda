package api

import (
	"ChartService/internal/model"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

const (
	DefaultPreviewLimit = 10
	MaxPreviewLimit     = 100
	maxInputLength      = 100
)

var (
	ErrGraphTypeRequired = errors.New("Graph type is required")
	ErrTitleRequired     = errors.New("Title is required")
)

// Validator handles request validation separate from HTTP concerns. Chart rules
// against the dataset live in the core package; this only checks request shape.
type Validator struct {
	defaultLimit int
	maxLimit     int
}

var (
	validatorInstance *Validator
	validatorOnce     sync.Once
)

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	validatorOnce.Do(func() {
		validatorInstance = NewValidator(DefaultPreviewLimit, MaxPreviewLimit)
	})
	return validatorInstance
}

// NewValidator creates a validator with custom preview limits
func NewValidator(defaultLimit, maxLimit int) *Validator {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPreviewLimit
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &Validator{defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// ValidateChartRequest sanitizes every field and checks the required ones. Column
// fields are not length capped since they must match dataset headers exactly.
func (v *Validator) ValidateChartRequest(req model.ChartRequest) (model.ChartRequest, error) {
	clean := model.ChartRequest{
		Title:     v.sanitizeInput(req.Title),
		GraphType: model.ChartType(strings.ToLower(v.sanitizeInput(string(req.GraphType)))),
		XAxis:     sanitizeColumn(req.XAxis),
		YAxis:     sanitizeColumn(req.YAxis),
		GroupBy:   sanitizeColumn(req.GroupBy),
	}
	for _, y := range req.AdditionalYAxes {
		if y = sanitizeColumn(y); y != "" {
			clean.AdditionalYAxes = append(clean.AdditionalYAxes, y)
		}
	}

	if clean.GraphType == "" {
		return model.ChartRequest{}, ErrGraphTypeRequired
	}
	if clean.Title == "" {
		return model.ChartRequest{}, ErrTitleRequired
	}
	return clean, nil
}

// ValidatePreviewLimit parses the limit query parameter; empty means the default
func (v *Validator) ValidatePreviewLimit(limitStr string) (int, error) {
	limitStr = v.sanitizeInput(limitStr)
	if limitStr == "" {
		return v.defaultLimit, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, errors.New("limit must be a valid number")
	}
	if limit < 1 || limit > v.maxLimit {
		return 0, fmt.Errorf("limit must be between 1 and %d", v.maxLimit)
	}
	return limit, nil
}

// sanitizeInput removes control characters, trims whitespace and caps the length
func (v *Validator) sanitizeInput(input string) string {
	input = sanitizeColumn(input)

	if len(input) > maxInputLength {
		input = truncateRunes(input, maxInputLength)
	}

	return strings.TrimSpace(input)
}

// sanitizeColumn removes control characters and trims whitespace, the same way
// xlsx headers are trimmed on load
func sanitizeColumn(input string) string {
	input = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, input)
	return strings.TrimSpace(input)
}

// truncateRunes cuts s to at most n bytes without splitting a UTF-8 sequence
func truncateRunes(s string, n int) string {
	end := 0
	for end < len(s) {
		_, size := utf8.DecodeRuneInString(s[end:])
		if end+size > n {
			break
		}
		end += size
	}
	return s[:end]
}
