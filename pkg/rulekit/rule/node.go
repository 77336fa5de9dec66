package rule

import (
	"fmt"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	// KindOperand is a leaf naming a record field (or a literal on the
	// right-hand side of a comparison).
	KindOperand Kind = iota

	// KindOperator is an inner node applying an Op to two children.
	KindOperator
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindOperand:
		return "operand"
	case KindOperator:
		return "operator"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// parseKind maps a wire name back to a Kind.
func parseKind(s string) (Kind, bool) {
	switch s {
	case "operand":
		return KindOperand, true
	case "operator":
		return KindOperator, true
	default:
		return 0, false
	}
}

// Node is an expression tree node. The set of implementations is closed:
// only *Operand and *Operator satisfy it.
//
// Nodes must not be modified after construction.
type Node interface {
	// Kind reports which variant the node is.
	Kind() Kind

	node()
}

// Operand is a leaf node holding a field name.
type Operand struct {
	Field string
}

// Operator applies Op to the values of Left and Right.
// Both children are always non-nil.
type Operator struct {
	Op    Op
	Left  Node
	Right Node
}

// Compile-time interface checks.
var (
	_ Node = (*Operand)(nil)
	_ Node = (*Operator)(nil)
)

// NewOperand creates an operand leaf for field.
func NewOperand(field string) *Operand {
	return &Operand{Field: field}
}

// NewOperator creates an operator node. It panics if either child is nil,
// since that can only be a programming error.
func NewOperator(op Op, left, right Node) *Operator {
	if left == nil || right == nil {
		panic("rule: operator requires two children")
	}
	return &Operator{Op: op, Left: left, Right: right}
}

// Kind implements Node.
func (*Operand) Kind() Kind { return KindOperand }

// Kind implements Node.
func (*Operator) Kind() Kind { return KindOperator }

func (*Operand) node()  {}
func (*Operator) node() {}

// String renders the operand as its field name.
func (o *Operand) String() string { return o.Field }

// String renders the operator in parenthesized infix form.
func (o *Operator) String() string {
	return "(" + Format(o.Left) + " " + o.Op.String() + " " + Format(o.Right) + ")"
}

// Format renders n as a readable infix expression, e.g.
// "((age > 30) AND (status == active))".
func Format(n Node) string {
	switch v := n.(type) {
	case *Operand:
		return v.String()
	case *Operator:
		return v.String()
	default:
		return "<invalid>"
	}
}

// Equal reports whether a and b are structurally identical trees.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Operand:
		y, ok := b.(*Operand)
		return ok && x != nil && y != nil && x.Field == y.Field
	case *Operator:
		y, ok := b.(*Operator)
		if !ok || x == nil || y == nil {
			return false
		}
		return x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	default:
		return a == nil && b == nil
	}
}

// Depth returns the height of the tree. A single operand has depth 1.
func Depth(n Node) int {
	op, ok := n.(*Operator)
	if !ok {
		if n == nil {
			return 0
		}
		return 1
	}
	return 1 + max(Depth(op.Left), Depth(op.Right))
}
