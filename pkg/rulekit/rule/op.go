package rule

import "fmt"

// Op is a recognized operator. Values outside the declared constants are
// invalid and fail evaluation with ErrUnknownOperator.
type Op int

const (
	OpGreater Op = iota + 1
	OpLess
	OpEqual
	OpNotEqual
	OpGreaterEqual
	OpLessEqual
	OpAnd
	OpOr
)

// symbols maps each operator to its textual form.
var symbols = map[Op]string{
	OpGreater:      ">",
	OpLess:         "<",
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpGreaterEqual: ">=",
	OpLessEqual:    "<=",
	OpAnd:          "AND",
	OpOr:           "OR",
}

// ParseOp resolves an operator symbol. Symbols are case sensitive.
func ParseOp(symbol string) (Op, error) {
	for op, s := range symbols {
		if s == symbol {
			return op, nil
		}
	}
	return 0, &OperatorError{Symbol: symbol, Err: ErrUnknownOperator}
}

// String returns the operator symbol.
func (o Op) String() string {
	if s, ok := symbols[o]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Valid reports whether o is one of the declared operators.
func (o Op) Valid() bool {
	_, ok := symbols[o]
	return ok
}

// IsRelational reports whether o compares two values.
func (o Op) IsRelational() bool {
	switch o {
	case OpGreater, OpLess, OpEqual, OpNotEqual, OpGreaterEqual, OpLessEqual:
		return true
	default:
		return false
	}
}

// IsLogical reports whether o is AND or OR.
func (o Op) IsLogical() bool {
	return o == OpAnd || o == OpOr
}
