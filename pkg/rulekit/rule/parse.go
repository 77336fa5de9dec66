package rule

import (
	"regexp"
	"strings"
)

// tokenPattern splits a rule into tokens. Alternatives are tried left to
// right at each position, so two-character operators win over their
// single-character prefixes and decimals stay in one piece. Word runs
// cover Unicode letters and digits, not just ASCII.
var tokenPattern = regexp.MustCompile(`==|!=|>=|<=|\p{Nd}+\.\p{Nd}+|[\p{L}\p{N}_]+|\S`)

// Tokenize splits rule text into operator, number, word and single
// symbol tokens. Whitespace only separates tokens.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.TrimSpace(text), -1)
}

// Parse turns a rule of the form "<field> <op> <value>" into an operator
// node with two operand children.
//
// It returns a *RuleFormatError when the text does not contain exactly
// three tokens and an *OperatorError when the middle token is not a
// recognized operator.
//
// Example:
//
//	n, _ := rule.Parse("age >= 30")
//	rule.Format(n) // "(age >= 30)"
func Parse(text string) (Node, error) {
	tokens := Tokenize(text)
	if len(tokens) != 3 {
		return nil, &RuleFormatError{Rule: text, Tokens: len(tokens)}
	}

	op, err := ParseOp(tokens[1])
	if err != nil {
		return nil, err
	}

	return NewOperator(op, NewOperand(tokens[0]), NewOperand(tokens[2])), nil
}

// Combine parses each rule and joins them left to right with AND, so
// ["a", "b", "c"] becomes ((a AND b) AND c). A single rule is returned
// exactly as Parse would return it.
//
// Parsing stops at the first invalid rule; the returned *CombineError
// records its index.
func Combine(texts []string) (Node, error) {
	if len(texts) == 0 {
		return nil, ErrNoRulesProvided
	}

	var combined Node
	for i, text := range texts {
		n, err := Parse(strings.TrimSpace(text))
		if err != nil {
			return nil, &CombineError{Index: i, Rule: text, Err: err}
		}
		if combined == nil {
			combined = n
			continue
		}
		combined = NewOperator(OpAnd, combined, n)
	}
	return combined, nil
}
