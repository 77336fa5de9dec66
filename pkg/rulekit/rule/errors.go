package rule

import (
	"errors"
	"fmt"
)

// Sentinel errors for parsing and combining rules.
var (
	// ErrInvalidRuleFormat indicates a rule did not tokenize into exactly
	// three tokens.
	ErrInvalidRuleFormat = errors.New("invalid rule format")

	// ErrNoRulesProvided indicates Combine was called with no rules.
	ErrNoRulesProvided = errors.New("no rules provided to combine")
)

// Sentinel errors for trees and evaluation.
var (
	// ErrComparison indicates a relational operator was applied to values
	// that cannot be compared.
	ErrComparison = errors.New("values are not comparable")

	// ErrUnknownOperator indicates an operator symbol outside the
	// recognized set.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrUnknownNodeKind indicates a node variant or type name that is not
	// operand or operator.
	ErrUnknownNodeKind = errors.New("unknown node kind")

	// ErrMalformedTree indicates a plain tree is missing fields required by
	// its declared kind.
	ErrMalformedTree = errors.New("malformed tree")

	// ErrUnsupportedValue indicates a record value that is not a string,
	// number, boolean or null.
	ErrUnsupportedValue = errors.New("unsupported record value")
)

// RuleFormatError reports a rule string with the wrong token count.
type RuleFormatError struct {
	// Rule is the rule text as supplied.
	Rule string
	// Tokens is the number of tokens found.
	Tokens int
}

// Error implements the error interface.
func (e *RuleFormatError) Error() string {
	return fmt.Sprintf("invalid rule format %q: expected an expression like 'age > 30', got %d tokens",
		e.Rule, e.Tokens)
}

// Unwrap returns ErrInvalidRuleFormat for errors.Is support.
func (e *RuleFormatError) Unwrap() error {
	return ErrInvalidRuleFormat
}

// CombineError identifies which rule in a sequence failed to parse.
type CombineError struct {
	// Index is the zero-based position of the failing rule.
	Index int
	// Rule is the failing rule text.
	Rule string
	// Err is the underlying parse error.
	Err error
}

// Error implements the error interface.
func (e *CombineError) Error() string {
	return fmt.Sprintf("rule %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *CombineError) Unwrap() error {
	return e.Err
}

// ComparisonError describes a failed relational comparison.
type ComparisonError struct {
	Op     Op
	Left   Value
	Right  Value
	Reason string
}

// Error implements the error interface.
func (e *ComparisonError) Error() string {
	return fmt.Sprintf("cannot compare %s %s %s: %s", e.Left.Describe(), e.Op, e.Right.Describe(), e.Reason)
}

// Unwrap returns ErrComparison for errors.Is support.
func (e *ComparisonError) Unwrap() error {
	return ErrComparison
}

// OperatorError reports an operator that is not recognized.
type OperatorError struct {
	// Symbol is the offending symbol as text.
	Symbol string
	// Err is ErrUnknownOperator.
	Err error
}

// Error implements the error interface.
func (e *OperatorError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Symbol)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *OperatorError) Unwrap() error {
	return e.Err
}

// TreeError locates a deserialization failure inside a plain tree.
type TreeError struct {
	// Path is the dotted location of the offending node, e.g. "root.left".
	Path string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *TreeError) Error() string {
	return fmt.Sprintf("tree at %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *TreeError) Unwrap() error {
	return e.Err
}
