package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/rulekit/pkg/rulekit/rule"
)

func TestCategoryString(t *testing.T) {
	tests := []struct {
		category Category
		expected string
	}{
		{CategoryInternal, "internal"},
		{CategoryInvalidInput, "invalid_input"},
		{CategoryEvaluation, "evaluation"},
		{CategoryLimit, "limit"},
		{Category(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.category.String())
		})
	}
}

func TestCategorize(t *testing.T) {
	_, parseErr := rule.Parse("age")
	_, opErr := rule.Parse("age % 3")
	_, combineErr := rule.Combine([]string{"a > 1", "b"})
	_, noRules := rule.Combine(nil)
	_, treeErr := rule.Deserialize(&rule.PlainTree{Type: "operand"})
	_, kindErr := rule.Deserialize(&rule.PlainTree{Type: "nope"})
	n, _ := rule.Parse("age > 30")
	_, cmpErr := rule.EvaluateMap(n, map[string]any{"age": "old"})
	_, valueErr := rule.EvaluateMap(n, map[string]any{"age": []int{}})

	tests := []struct {
		name     string
		err      error
		expected Category
	}{
		{"nil error", nil, CategoryInternal},
		{"invalid rule format", parseErr, CategoryInvalidInput},
		{"unknown operator", opErr, CategoryInvalidInput},
		{"combine error", combineErr, CategoryInvalidInput},
		{"no rules", noRules, CategoryInvalidInput},
		{"malformed tree", treeErr, CategoryInvalidInput},
		{"unknown kind", kindErr, CategoryInvalidInput},
		{"unsupported value", valueErr, CategoryInvalidInput},
		{"comparison", cmpErr, CategoryEvaluation},
		{"wrapped comparison", fmt.Errorf("evaluate: %w", cmpErr), CategoryEvaluation},
		{"validation", &ValidationError{Field: "rules", Message: "required"}, CategoryInvalidInput},
		{"validation list", ValidationErrors{{Field: "data", Message: "required"}}, CategoryInvalidInput},
		{"explicit limit", Limit(errors.New("too many"), "combine"), CategoryLimit},
		{"explicit overrides sentinel", Internal(rule.ErrComparison, "x"), CategoryInternal},
		{"unknown error", errors.New("boom"), CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Categorize(tt.err))
		})
	}
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, CategoryInvalidInput.StatusCode())
	assert.Equal(t, http.StatusUnprocessableEntity, CategoryEvaluation.StatusCode())
	assert.Equal(t, http.StatusRequestEntityTooLarge, CategoryLimit.StatusCode())
	assert.Equal(t, http.StatusInternalServerError, CategoryInternal.StatusCode())

	assert.Equal(t, http.StatusBadRequest, StatusCode(rule.ErrMalformedTree))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("x")))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(rule.ErrInvalidRuleFormat))
	assert.True(t, IsClientError(InvalidInput(errors.New("x"), "")))
	assert.True(t, IsClientError(rule.ErrComparison))
	assert.False(t, IsClientError(errors.New("disk on fire")))
}

func TestCategorizedError(t *testing.T) {
	inner := errors.New("inner")

	err := NewCategorized(inner, CategoryLimit, "combine")
	assert.Equal(t, "combine: inner", err.Error())
	assert.ErrorIs(t, err, inner)

	err = NewCategorized(inner, CategoryLimit, "")
	assert.Equal(t, "inner", err.Error())
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "rules", Message: "is required"},
		{Message: "body is empty"},
	}
	assert.Equal(t, "validation error on rules: is required; validation error: body is empty", errs.Error())

	var first *ValidationError
	assert.True(t, errors.As(errs, &first))
	assert.Equal(t, "rules", first.Field)
}
