package rule

import (
	"encoding/json"
	"fmt"
)

// PlainTree is the transport form of a Node. Children are nil for
// operands and always encoded, as null when absent.
type PlainTree struct {
	Type  string     `json:"type" yaml:"type"`
	Left  *PlainTree `json:"left" yaml:"left"`
	Right *PlainTree `json:"right" yaml:"right"`
	Value string     `json:"value" yaml:"value"`
}

// Serialize converts n into its transport form.
// It returns nil for a nil or unknown node.
func Serialize(n Node) *PlainTree {
	switch node := n.(type) {
	case *Operand:
		if node == nil {
			return nil
		}
		return &PlainTree{Type: KindOperand.String(), Value: node.Field}
	case *Operator:
		if node == nil {
			return nil
		}
		return &PlainTree{
			Type:  KindOperator.String(),
			Left:  Serialize(node.Left),
			Right: Serialize(node.Right),
			Value: node.Op.String(),
		}
	default:
		return nil
	}
}

// Deserialize rebuilds a Node from its transport form.
//
// Operand entries only need a value; any children they carry are ignored.
// Operator entries need both children and a recognized operator symbol.
// Failures are reported as *TreeError with the path of the bad entry.
func Deserialize(p *PlainTree) (Node, error) {
	return deserialize(p, "root")
}

func deserialize(p *PlainTree, path string) (Node, error) {
	if p == nil {
		return nil, &TreeError{Path: path, Err: fmt.Errorf("%w: missing node", ErrMalformedTree)}
	}

	kind, ok := parseKind(p.Type)
	if !ok {
		return nil, &TreeError{Path: path, Err: fmt.Errorf("%w: %q", ErrUnknownNodeKind, p.Type)}
	}

	switch kind {
	case KindOperand:
		if p.Value == "" {
			return nil, &TreeError{Path: path, Err: fmt.Errorf("%w: operand without value", ErrMalformedTree)}
		}
		return NewOperand(p.Value), nil

	case KindOperator:
		op, err := ParseOp(p.Value)
		if err != nil {
			return nil, &TreeError{Path: path, Err: err}
		}
		if p.Left == nil || p.Right == nil {
			return nil, &TreeError{Path: path, Err: fmt.Errorf("%w: operator %s needs two children", ErrMalformedTree, op)}
		}
		left, err := deserialize(p.Left, path+".left")
		if err != nil {
			return nil, err
		}
		right, err := deserialize(p.Right, path+".right")
		if err != nil {
			return nil, err
		}
		return NewOperator(op, left, right), nil
	}

	return nil, &TreeError{Path: path, Err: ErrUnknownNodeKind}
}

// Marshal encodes n as JSON in its transport form.
func Marshal(n Node) ([]byte, error) {
	p := Serialize(n)
	if p == nil {
		return nil, ErrUnknownNodeKind
	}
	return json.Marshal(p)
}

// Unmarshal decodes JSON produced by Marshal back into a Node.
func Unmarshal(data []byte) (Node, error) {
	var p PlainTree
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTree, err)
	}
	return Deserialize(&p)
}
