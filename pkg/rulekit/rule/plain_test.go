package rule

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSerialize(t *testing.T) {
	n := mustParse(t, "age > 30")

	got := Serialize(n)
	want := &PlainTree{
		Type:  "operator",
		Value: ">",
		Left:  &PlainTree{Type: "operand", Value: "age"},
		Right: &PlainTree{Type: "operand", Value: "30"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Serialize mismatch (-want +got):\n%s", diff)
	}

	assert.Nil(t, Serialize(nil))
}

func TestMarshal_WireShape(t *testing.T) {
	data, err := Marshal(mustParse(t, "age > 30"))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type": "operator",
		"value": ">",
		"left": {"type": "operand", "value": "age", "left": null, "right": null},
		"right": {"type": "operand", "value": "30", "left": null, "right": null}
	}`, string(data))
}

func TestRoundTrip(t *testing.T) {
	trees := map[string]Node{
		"operand": NewOperand("age"),
		"single":  mustParse(t, "age >= 30"),
		"chain": func() Node {
			n, err := Combine([]string{"age > 30", "status == active", "score <= 7.5", "a != b"})
			require.NoError(t, err)
			return n
		}(),
		"or tree": NewOperator(OpOr,
			mustParse(t, "a < 1"),
			NewOperator(OpAnd, NewOperand("x"), NewOperand("y")),
		),
	}

	for name, tree := range trees {
		t.Run(name, func(t *testing.T) {
			got, err := Deserialize(Serialize(tree))
			require.NoError(t, err)
			if diff := cmp.Diff(tree, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
			assert.True(t, Equal(tree, got))

			data, err := Marshal(tree)
			require.NoError(t, err)
			decoded, err := Unmarshal(data)
			require.NoError(t, err)
			if diff := cmp.Diff(tree, decoded); diff != "" {
				t.Errorf("JSON round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeserialize_OperandIgnoresChildren(t *testing.T) {
	p := &PlainTree{
		Type:  "operand",
		Value: "age",
		Left:  &PlainTree{Type: "bogus"},
		Right: &PlainTree{Type: "operator", Value: "%"},
	}

	got, err := Deserialize(p)
	require.NoError(t, err)
	assert.Equal(t, Node(NewOperand("age")), got)
}

func TestDeserialize_Errors(t *testing.T) {
	leaf := func(v string) *PlainTree { return &PlainTree{Type: "operand", Value: v} }

	tests := []struct {
		name    string
		input   *PlainTree
		wantErr error
		path    string
	}{
		{"nil", nil, ErrMalformedTree, "root"},
		{"unknown type", &PlainTree{Type: "function", Value: "f"}, ErrUnknownNodeKind, "root"},
		{"empty type", &PlainTree{Value: "x"}, ErrUnknownNodeKind, "root"},
		{"operand without value", &PlainTree{Type: "operand"}, ErrMalformedTree, "root"},
		{
			"unknown operator",
			&PlainTree{Type: "operator", Value: "%", Left: leaf("a"), Right: leaf("b")},
			ErrUnknownOperator,
			"root",
		},
		{
			"missing right child",
			&PlainTree{Type: "operator", Value: "AND", Left: leaf("a")},
			ErrMalformedTree,
			"root",
		},
		{
			"nested failure",
			&PlainTree{
				Type:  "operator",
				Value: "AND",
				Left:  leaf("a"),
				Right: &PlainTree{Type: "operator", Value: ">", Left: leaf("b"), Right: &PlainTree{Type: "operand"}},
			},
			ErrMalformedTree,
			"root.right.right",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Deserialize(tt.input)
			assert.Nil(t, n)
			require.ErrorIs(t, err, tt.wantErr)

			var treeErr *TreeError
			require.True(t, errors.As(err, &treeErr))
			assert.Equal(t, tt.path, treeErr.Path)
		})
	}
}

func TestUnmarshal_Errors(t *testing.T) {
	_, err := Unmarshal([]byte(`{"type": "operator", "value": ">"`))
	assert.ErrorIs(t, err, ErrMalformedTree)

	_, err = Unmarshal([]byte(`null`))
	assert.ErrorIs(t, err, ErrUnknownNodeKind)

	_, err = Marshal(nil)
	assert.ErrorIs(t, err, ErrUnknownNodeKind)
}

func TestPlainTree_YAML(t *testing.T) {
	src := `
type: operator
value: AND
left:
  type: operator
  value: ">"
  left: {type: operand, value: age}
  right: {type: operand, value: "30"}
right:
  type: operator
  value: "=="
  left: {type: operand, value: status}
  right: {type: operand, value: active}
`
	var p PlainTree
	require.NoError(t, yaml.Unmarshal([]byte(src), &p))

	got, err := Deserialize(&p)
	require.NoError(t, err)

	want, err := Combine([]string{"age > 30", "status == active"})
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("YAML tree mismatch (-want +got):\n%s", diff)
	}
}

func TestPlainTree_DecodesClientPayload(t *testing.T) {
	payload := `{"type":"operator","value":"==","left":{"type":"operand","value":"dept"},"right":{"type":"operand","value":"Sales"}}`

	var p PlainTree
	require.NoError(t, json.Unmarshal([]byte(payload), &p))

	n, err := Deserialize(&p)
	require.NoError(t, err)

	v, err := EvaluateMap(n, map[string]any{"dept": "Sales"})
	require.NoError(t, err)
	assert.Equal(t, BoolValue(true), v)
}
