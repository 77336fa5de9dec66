package rule

import "cmp"

// compare applies a relational operator. Both values must share a kind;
// booleans only support equality.
func compare(op Op, left, right Value) (bool, error) {
	if left.IsAbsent() || right.IsAbsent() {
		return false, &ComparisonError{Op: op, Left: left, Right: right, Reason: "operand is absent"}
	}
	if left.kind != right.kind {
		return false, &ComparisonError{Op: op, Left: left, Right: right,
			Reason: "mismatched types " + left.kind.String() + " and " + right.kind.String()}
	}

	switch left.kind {
	case ValueNumber:
		return ordered(op, left.n, right.n)
	case ValueString:
		return ordered(op, left.s, right.s)
	case ValueBool:
		switch op {
		case OpEqual:
			return left.b == right.b, nil
		case OpNotEqual:
			return left.b != right.b, nil
		}
		return false, &ComparisonError{Op: op, Left: left, Right: right, Reason: "booleans are unordered"}
	default:
		return false, &ComparisonError{Op: op, Left: left, Right: right, Reason: "unsupported value kind"}
	}
}

// ordered applies op with the native operators of T.
func ordered[T cmp.Ordered](op Op, a, b T) (bool, error) {
	switch op {
	case OpEqual:
		return a == b, nil
	case OpNotEqual:
		return a != b, nil
	case OpLess:
		return a < b, nil
	case OpGreater:
		return a > b, nil
	case OpLessEqual:
		return a <= b, nil
	case OpGreaterEqual:
		return a >= b, nil
	default:
		return false, &OperatorError{Symbol: op.String(), Err: ErrUnknownOperator}
	}
}
