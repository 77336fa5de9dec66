package rulekit

import "errors"

// Sentinel errors for engine limits and request checks.
var (
	// ErrTooManyRules indicates Combine received more rules than allowed.
	ErrTooManyRules = errors.New("too many rules")

	// ErrTreeTooDeep indicates a tree taller than the configured maximum.
	ErrTreeTooDeep = errors.New("tree exceeds maximum depth")

	// ErrEmptyRecord indicates Evaluate was called without data.
	ErrEmptyRecord = errors.New("no data provided")

	// ErrNilTree indicates Evaluate was called without a tree.
	ErrNilTree = errors.New("no rule tree provided")
)
