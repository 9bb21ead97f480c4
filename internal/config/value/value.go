// Package value provides the typed value model for configuration documents.
//
// A Value is an immutable tagged union over the TOML value kinds. Edits
// replace a Value wholesale; nothing in this package mutates one in place.
package value

import (
	"math"
	"sort"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindString represents a string value.
	KindString Kind = iota
	// KindInteger represents a 64-bit signed integer value.
	KindInteger
	// KindFloat represents a 64-bit floating-point value.
	KindFloat
	// KindBoolean represents a boolean value.
	KindBoolean
	// KindArray represents an ordered sequence of values.
	KindArray
	// KindTable represents a mapping from name to value.
	KindTable
	// KindDatetime represents a date, time or date-time value.
	KindDatetime
)

// String returns the type tag for the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	case KindTable:
		return "table"
	case KindDatetime:
		return "datetime"
	default:
		return "unknown"
	}
}

// ParseKind maps a type tag back to its Kind.
func ParseKind(tag string) (Kind, bool) {
	switch tag {
	case "string":
		return KindString, true
	case "integer":
		return KindInteger, true
	case "float":
		return KindFloat, true
	case "boolean":
		return KindBoolean, true
	case "array":
		return KindArray, true
	case "table":
		return KindTable, true
	case "datetime":
		return KindDatetime, true
	default:
		return 0, false
	}
}

// Value is a typed configuration value.
// The zero Value is the empty string.
type Value struct {
	kind  Kind
	str   string
	num   int64
	float float64
	flag  bool
	arr   []Value
	tbl   map[string]Value
	dt    Datetime
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Integer returns an integer value.
func Integer(i int64) Value {
	return Value{kind: KindInteger, num: i}
}

// Float returns a float value.
func Float(f float64) Value {
	return Value{kind: KindFloat, float: f}
}

// Boolean returns a boolean value.
func Boolean(b bool) Value {
	return Value{kind: KindBoolean, flag: b}
}

// Array returns an array value holding a copy of elems.
func Array(elems ...Value) Value {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return Value{kind: KindArray, arr: cp}
}

// Table returns a table value holding a copy of entries.
func Table(entries map[string]Value) Value {
	cp := make(map[string]Value, len(entries))
	for k, v := range entries {
		cp[k] = v
	}
	return Value{kind: KindTable, tbl: cp}
}

// DatetimeValue returns a datetime value.
func DatetimeValue(d Datetime) Value {
	return Value{kind: KindDatetime, dt: d}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// Classify returns the display type tag for v.
func Classify(v Value) string {
	return v.kind.String()
}

// Str returns the string held by v.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Int returns the integer held by v.
func (v Value) Int() (int64, bool) {
	return v.num, v.kind == KindInteger
}

// Float returns the float held by v.
func (v Value) Float() (float64, bool) {
	return v.float, v.kind == KindFloat
}

// Bool returns the boolean held by v.
func (v Value) Bool() (bool, bool) {
	return v.flag, v.kind == KindBoolean
}

// Elems returns a copy of the elements of an array value.
func (v Value) Elems() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	cp := make([]Value, len(v.arr))
	copy(cp, v.arr)
	return cp, true
}

// Len returns the number of elements of an array or entries of a table.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindTable:
		return len(v.tbl)
	default:
		return 0
	}
}

// Index returns the i-th element of an array value.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	return v.arr[i], true
}

// Get returns the named entry of a table value.
func (v Value) Get(name string) (Value, bool) {
	if v.kind != KindTable {
		return Value{}, false
	}
	e, ok := v.tbl[name]
	return e, ok
}

// Keys returns the sorted entry names of a table value.
func (v Value) Keys() []string {
	if v.kind != KindTable {
		return nil
	}
	keys := make([]string, 0, len(v.tbl))
	for k := range v.tbl {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Datetime returns the datetime held by v.
func (v Value) Datetime() (Datetime, bool) {
	return v.dt, v.kind == KindDatetime
}

// Interface returns v as plain Go data: string, int64, float64, bool,
// []any, map[string]any or Datetime.
func (v Value) Interface() any {
	switch v.kind {
	case KindInteger:
		return v.num
	case KindFloat:
		return v.float
	case KindBoolean:
		return v.flag
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Interface()
		}
		return out
	case KindTable:
		out := make(map[string]any, len(v.tbl))
		for k, e := range v.tbl {
			out[k] = e.Interface()
		}
		return out
	case KindDatetime:
		return v.dt
	default:
		return v.str
	}
}

// Equal reports whether a and b hold the same variant and content.
// NaN floats compare equal to each other.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindString:
		return a.str == b.str
	case KindInteger:
		return a.num == b.num
	case KindFloat:
		if math.IsNaN(a.float) && math.IsNaN(b.float) {
			return true
		}
		return a.float == b.float
	case KindBoolean:
		return a.flag == b.flag
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindTable:
		if len(a.tbl) != len(b.tbl) {
			return false
		}
		for k, av := range a.tbl {
			bv, ok := b.tbl[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case KindDatetime:
		return a.dt.Equal(b.dt)
	default:
		return false
	}
}

// Equal reports whether v and other hold the same content.
// It lets go-cmp compare Values without reaching into unexported fields.
func (v Value) Equal(other Value) bool {
	return Equal(v, other)
}
