// Package errors classifies rulekit errors so callers can choose a
// response without matching every sentinel themselves.
//
// The classification is layered:
//   - Explicit: a *CategorizedError carries its category directly
//   - Rule errors: sentinels from package rule map to fixed categories
//   - Request errors: *ValidationError is invalid input
//   - Anything else is internal
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/randalmurphal/rulekit/pkg/rulekit/rule"
)

// Category describes who is at fault for an error and how to report it.
type Category int

const (
	// CategoryInternal indicates a failure the caller cannot fix.
	CategoryInternal Category = iota

	// CategoryInvalidInput indicates malformed rules, trees or records.
	// Examples: wrong token count, unknown operator, missing tree fields.
	CategoryInvalidInput

	// CategoryEvaluation indicates a well-formed request whose tree could
	// not be evaluated against the supplied record.
	// Examples: comparing a number with a string, comparing an absent field.
	CategoryEvaluation

	// CategoryLimit indicates a request exceeding configured size limits.
	CategoryLimit
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryInternal:
		return "internal"
	case CategoryInvalidInput:
		return "invalid_input"
	case CategoryEvaluation:
		return "evaluation"
	case CategoryLimit:
		return "limit"
	default:
		return "unknown"
	}
}

// StatusCode returns the HTTP status used to report the category.
func (c Category) StatusCode() int {
	switch c {
	case CategoryInvalidInput:
		return http.StatusBadRequest
	case CategoryEvaluation:
		return http.StatusUnprocessableEntity
	case CategoryLimit:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// CategorizedError wraps an error with its category and context.
type CategorizedError struct {
	// Err is the underlying error.
	Err error

	// Category indicates how this error should be reported.
	Category Category

	// Context describes what operation was being attempted.
	Context string
}

// Error implements the error interface.
func (e *CategorizedError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %v", e.Context, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *CategorizedError) Unwrap() error {
	return e.Err
}

// NewCategorized creates a new categorized error.
func NewCategorized(err error, category Category, context string) *CategorizedError {
	return &CategorizedError{
		Err:      err,
		Category: category,
		Context:  context,
	}
}

// InvalidInput creates an invalid-input error.
func InvalidInput(err error, context string) *CategorizedError {
	return NewCategorized(err, CategoryInvalidInput, context)
}

// Limit creates a limit error.
func Limit(err error, context string) *CategorizedError {
	return NewCategorized(err, CategoryLimit, context)
}

// Internal creates an internal error.
func Internal(err error, context string) *CategorizedError {
	return NewCategorized(err, CategoryInternal, context)
}

// invalidInput lists the rule sentinels caused by bad caller input.
var invalidInput = []error{
	rule.ErrInvalidRuleFormat,
	rule.ErrNoRulesProvided,
	rule.ErrUnknownOperator,
	rule.ErrUnknownNodeKind,
	rule.ErrMalformedTree,
	rule.ErrUnsupportedValue,
}

// Categorize determines how an error should be reported.
func Categorize(err error) Category {
	if err == nil {
		return CategoryInternal // shouldn't happen, fail safe
	}

	var catErr *CategorizedError
	if errors.As(err, &catErr) {
		return catErr.Category
	}

	if errors.Is(err, rule.ErrComparison) {
		return CategoryEvaluation
	}
	for _, sentinel := range invalidInput {
		if errors.Is(err, sentinel) {
			return CategoryInvalidInput
		}
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return CategoryInvalidInput
	}

	return CategoryInternal
}

// StatusCode is shorthand for Categorize(err).StatusCode().
func StatusCode(err error) int {
	return Categorize(err).StatusCode()
}

// IsClientError reports whether the caller can fix the error by changing
// the request.
func IsClientError(err error) bool {
	switch Categorize(err) {
	case CategoryInvalidInput, CategoryEvaluation, CategoryLimit:
		return true
	default:
		return false
	}
}
