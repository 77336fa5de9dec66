package rule

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind identifies the variant held by a Value.
type ValueKind int

const (
	// ValueAbsent marks a field that is not present in the record.
	ValueAbsent ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case ValueAbsent:
		return "absent"
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a comparable record value or the absent marker.
// The zero Value is absent.
type Value struct {
	kind ValueKind
	s    string
	n    float64
	b    bool
}

// Absent returns the marker for a missing field.
func Absent() Value { return Value{} }

// StringValue wraps s.
func StringValue(s string) Value { return Value{kind: ValueString, s: s} }

// NumberValue wraps f.
func NumberValue(f float64) Value { return Value{kind: ValueNumber, n: f} }

// BoolValue wraps b.
func BoolValue(b bool) Value { return Value{kind: ValueBool, b: b} }

// ValueOf converts a Go value taken from a decoded record.
// nil converts to Absent, so a JSON null behaves like a missing field.
func ValueOf(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Absent(), nil
	case Value:
		return val, nil
	case string:
		return StringValue(val), nil
	case bool:
		return BoolValue(val), nil
	case float64:
		return NumberValue(val), nil
	case float32:
		return NumberValue(float64(val)), nil
	case int:
		return NumberValue(float64(val)), nil
	case int8:
		return NumberValue(float64(val)), nil
	case int16:
		return NumberValue(float64(val)), nil
	case int32:
		return NumberValue(float64(val)), nil
	case int64:
		return NumberValue(float64(val)), nil
	case uint:
		return NumberValue(float64(val)), nil
	case uint8:
		return NumberValue(float64(val)), nil
	case uint16:
		return NumberValue(float64(val)), nil
	case uint32:
		return NumberValue(float64(val)), nil
	case uint64:
		return NumberValue(float64(val)), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return Absent(), fmt.Errorf("%w: number %q: %v", ErrUnsupportedValue, val.String(), err)
		}
		return NumberValue(f), nil
	default:
		return Absent(), fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

// literal reads an operand token as a literal: numeric text becomes a
// number, true/false become booleans and anything else is a string.
func literal(token string) Value {
	switch token {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	if looksNumeric(token) {
		if f, err := strconv.ParseFloat(token, 64); err == nil {
			return NumberValue(f)
		}
	}
	return StringValue(token)
}

// looksNumeric accepts plain decimal notation only: digits with an optional
// sign, point and exponent. Words such as "inf", hex forms and Go digit
// separators like "1_000" stay strings.
func looksNumeric(token string) bool {
	if token == "" {
		return false
	}
	c := token[0]
	if (c == '-' || c == '+') && len(token) > 1 {
		c = token[1]
	}
	if c < '0' || c > '9' {
		return false
	}
	for i := 0; i < len(token); i++ {
		switch ch := token[i]; {
		case ch >= '0' && ch <= '9':
		case ch == '.', ch == 'e', ch == 'E', ch == '+', ch == '-':
		default:
			return false
		}
	}
	return true
}

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// IsAbsent reports whether v is the absent marker.
func (v Value) IsAbsent() bool { return v.kind == ValueAbsent }

// Str returns the string and whether v holds one.
func (v Value) Str() (string, bool) { return v.s, v.kind == ValueString }

// Num returns the number and whether v holds one.
func (v Value) Num() (float64, bool) { return v.n, v.kind == ValueNumber }

// Bool returns the boolean and whether v holds one.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == ValueBool }

// Truthy reports whether v counts as true for AND/OR.
// Absent, false, zero and the empty string are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case ValueBool:
		return v.b
	case ValueNumber:
		return v.n != 0
	case ValueString:
		return v.s != ""
	default:
		return false
	}
}

// Interface returns the underlying Go value, or nil when absent.
func (v Value) Interface() any {
	switch v.kind {
	case ValueString:
		return v.s
	case ValueNumber:
		return v.n
	case ValueBool:
		return v.b
	default:
		return nil
	}
}

// String formats the value for display.
func (v Value) String() string {
	switch v.kind {
	case ValueString:
		return v.s
	case ValueNumber:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.b)
	default:
		return "<absent>"
	}
}

// Describe formats the value with its kind, for error messages.
func (v Value) Describe() string {
	switch v.kind {
	case ValueAbsent:
		return "<absent>"
	case ValueString:
		return strconv.Quote(v.s)
	default:
		return v.kind.String() + " " + v.String()
	}
}

// MarshalJSON encodes absent as null and other kinds natively.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes a JSON scalar; null decodes to absent.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// Record maps field names to values.
type Record map[string]Value

// NewRecord converts a decoded key/value map into a Record. Fields whose
// value is nil are left out, so a null field is indistinguishable from a
// missing one.
func NewRecord(data map[string]any) (Record, error) {
	rec := make(Record, len(data))
	for k, raw := range data {
		v, err := ValueOf(raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		if v.IsAbsent() {
			continue
		}
		rec[k] = v
	}
	return rec, nil
}

// Lookup returns the value for field, or Absent when it is missing.
// A field explicitly holding Absent reads the same as a missing one.
func (r Record) Lookup(field string) Value {
	if v, ok := r[field]; ok {
		return v
	}
	return Absent()
}
