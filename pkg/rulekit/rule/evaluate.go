package rule

import "fmt"

// Evaluate computes the value of n against rec.
//
// A bare operand evaluates to the record value for its field, or Absent.
// Relational operators yield a boolean Value and fail with a
// *ComparisonError when the operands cannot be compared. AND and OR pass
// one of their operand values through (see applyLogical).
func Evaluate(n Node, rec Record) (Value, error) {
	switch node := n.(type) {
	case *Operand:
		if node == nil {
			return Absent(), ErrUnknownNodeKind
		}
		return rec.Lookup(node.Field), nil
	case *Operator:
		if node == nil {
			return Absent(), ErrUnknownNodeKind
		}
		return evaluateOperator(node, rec)
	default:
		return Absent(), fmt.Errorf("%w: %T", ErrUnknownNodeKind, n)
	}
}

// EvaluateMap converts data with NewRecord and evaluates n against it.
func EvaluateMap(n Node, data map[string]any) (Value, error) {
	rec, err := NewRecord(data)
	if err != nil {
		return Absent(), err
	}
	return Evaluate(n, rec)
}

func evaluateOperator(node *Operator, rec Record) (Value, error) {
	left, err := Evaluate(node.Left, rec)
	if err != nil {
		return Absent(), err
	}

	var right Value
	if operand, ok := node.Right.(*Operand); ok && operand != nil && node.Op.IsRelational() {
		right = resolveComparand(operand.Field, rec)
	} else {
		right, err = Evaluate(node.Right, rec)
		if err != nil {
			return Absent(), err
		}
	}

	switch {
	case node.Op.IsRelational():
		ok, err := compare(node.Op, left, right)
		if err != nil {
			return Absent(), err
		}
		return BoolValue(ok), nil
	case node.Op.IsLogical():
		return applyLogical(node.Op, left, right), nil
	default:
		return Absent(), &OperatorError{Symbol: node.Op.String(), Err: ErrUnknownOperator}
	}
}

// resolveComparand resolves the right-hand operand of a comparison: a
// field present in the record wins, otherwise the token is a literal.
// An absent field value counts as missing.
func resolveComparand(token string, rec Record) Value {
	if v := rec.Lookup(token); !v.IsAbsent() {
		return v
	}
	return literal(token)
}

// applyLogical implements truthy passthrough: AND yields right when left
// is truthy and left otherwise; OR yields left when left is truthy and
// right otherwise. With boolean operands this is plain AND/OR.
func applyLogical(op Op, left, right Value) Value {
	if op == OpAnd {
		if left.Truthy() {
			return right
		}
		return left
	}
	if left.Truthy() {
		return left
	}
	return right
}
