/*
Package rule implements the rulekit expression engine: parsing comparison
rules, combining them into one tree, evaluating trees against records and
converting trees to and from a plain transport form.

# Rule Syntax

A rule has exactly three tokens:

	<rule> := <field> <op> <operand>
	<op>   := '>' | '<' | '==' | '!=' | '>=' | '<=' | 'AND' | 'OR'

Tokens are two-character operators, decimal numbers, runs of word
characters, or single symbols. Whitespace is optional between a word and
a symbol, so "age>=30" and "age >= 30" are the same rule.

# Trees

Parse returns an *Operator whose children are *Operand leaves. Combine
folds several rules into a left-leaning AND chain:

	n, _ := rule.Combine([]string{"age > 30", "status == active", "score >= 7.5"})
	rule.Format(n) // "(((age > 30) AND (status == active)) AND (score >= 7.5))"

Trees are immutable and safe to share between goroutines.

# Evaluation

Evaluate walks a tree against a Record:

	rec, _ := rule.NewRecord(map[string]any{"age": 35, "status": "active"})
	v, err := rule.Evaluate(n, rec)

Operands on the left of a comparison, and bare operands, are field
references; a field missing from the record evaluates to Absent. The
right-hand operand of a comparison refers to a record field when one
exists under that name and is otherwise read as a literal: numeric text is
a number, true and false are booleans, and anything else is a string.

Comparisons need both sides to have the same kind. Absent on either side,
mixed kinds, and ordering on booleans fail with ErrComparison rather than
yielding false.

AND and OR pass values through instead of forcing booleans: AND returns
the right value when the left is truthy and the left value otherwise; OR
returns the left value when it is truthy and the right value otherwise.
Absent, false, 0 and "" are falsy.

# Transport Form

Serialize and Deserialize convert between Node and PlainTree, which
encodes as

	{"type": "operator", "value": ">", "left": {...}, "right": {...}}

Operands have "type": "operand", the field in "value", and null children.
Deserialize ignores children on operands and rejects unknown types,
unknown operators and operators missing a child.

# Errors

All failures wrap one of the package sentinels and can be matched with
errors.Is: ErrInvalidRuleFormat, ErrNoRulesProvided, ErrComparison,
ErrUnknownOperator, ErrUnknownNodeKind, ErrMalformedTree and
ErrUnsupportedValue.
*/
package rule
