package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MarshalJSON encodes v as natural JSON. Floats always carry a fraction or
// exponent, so 1.0 stays 1.0 and decodes back as a float at any depth.
// Datetimes and non-finite floats encode as their TOML text.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.natural(true))
}

// natural returns v as plain Go data. With exactFloats set, finite floats
// become json.Number in TOML float syntax.
func (v Value) natural(exactFloats bool) any {
	switch v.kind {
	case KindInteger:
		return v.num
	case KindFloat:
		if math.IsNaN(v.float) || math.IsInf(v.float, 0) {
			return formatFloat(v.float)
		}
		if exactFloats {
			return json.Number(formatFloat(v.float))
		}
		return v.float
	case KindBoolean:
		return v.flag
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.natural(exactFloats)
		}
		return out
	case KindTable:
		out := make(map[string]any, len(v.tbl))
		for k, e := range v.tbl {
			out[k] = e.natural(exactFloats)
		}
		return out
	case KindDatetime:
		return v.dt.String()
	default:
		return v.str
	}
}

// UnmarshalJSON decodes natural JSON into v. Numbers without a fraction or
// exponent become integers; everything else maps to the obvious variant.
// JSON cannot tell a datetime from a string, see Coerce and Restore.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	out, err := fromJSON(raw)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

func fromJSON(raw any) (Value, error) {
	switch x := raw.(type) {
	case string:
		return String(x), nil
	case bool:
		return Boolean(x), nil
	case json.Number:
		text := x.String()
		if !strings.ContainsAny(text, ".eE") {
			if i, err := x.Int64(); err == nil {
				return Integer(i), nil
			}
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %s: %w", text, err)
		}
		return Float(f), nil
	case []any:
		elems := make([]Value, len(x))
		for i, e := range x {
			ev, err := fromJSON(e)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			elems[i] = ev
		}
		return Value{kind: KindArray, arr: elems}, nil
	case map[string]any:
		entries := make(map[string]Value, len(x))
		for k, e := range x {
			ev, err := fromJSON(e)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			entries[k] = ev
		}
		return Value{kind: KindTable, tbl: entries}, nil
	case nil:
		return Value{}, errors.New("null is not a configuration value")
	default:
		return Value{}, fmt.Errorf("unsupported JSON value %T", raw)
	}
}

// ErrNotCoercible is returned by Coerce when v cannot represent the wanted kind.
var ErrNotCoercible = errors.New("value not coercible")

// Coerce converts v to kind k where the conversion is lossless: integers to
// floats, integral floats to integers, TOML float text and datetime text
// held in strings to their typed form.
func Coerce(v Value, k Kind) (Value, error) {
	if v.kind == k {
		return v, nil
	}
	switch {
	case k == KindFloat && v.kind == KindInteger:
		return Float(float64(v.num)), nil
	case k == KindFloat && v.kind == KindString:
		switch v.str {
		case "nan", "+nan", "-nan":
			return Float(math.NaN()), nil
		case "inf", "+inf":
			return Float(math.Inf(1)), nil
		case "-inf":
			return Float(math.Inf(-1)), nil
		}
		if f, err := strconv.ParseFloat(v.str, 64); err == nil {
			return Float(f), nil
		}
	case k == KindInteger && v.kind == KindFloat:
		if v.float == math.Trunc(v.float) && math.Abs(v.float) < 1<<63 {
			return Integer(int64(v.float)), nil
		}
	case k == KindDatetime && v.kind == KindString:
		if d, err := ParseDatetime(v.str); err == nil {
			return DatetimeValue(d), nil
		}
	}
	return v, fmt.Errorf("%w: %s to %s", ErrNotCoercible, v.kind, k)
}

// Restore converts the elements of array and table v back to the kinds of
// the matching elements of like, by index and by key. Only strings are
// converted: datetime text where like holds a datetime and nan or inf where
// like holds a float, the two cases a JSON round trip cannot tell apart.
// Scalars and mismatched shapes are returned unchanged.
func Restore(v, like Value) Value {
	if v.kind != like.kind || (v.kind != KindArray && v.kind != KindTable) {
		return v
	}
	return restore(v, like)
}

func restore(v, like Value) Value {
	switch {
	case v.kind == KindArray && like.kind == KindArray:
		elems := make([]Value, len(v.arr))
		for i, e := range v.arr {
			elems[i] = e
			if i < len(like.arr) {
				elems[i] = restore(e, like.arr[i])
			}
		}
		return Value{kind: KindArray, arr: elems}
	case v.kind == KindTable && like.kind == KindTable:
		entries := make(map[string]Value, len(v.tbl))
		for k, e := range v.tbl {
			entries[k] = e
			if l, ok := like.tbl[k]; ok {
				entries[k] = restore(e, l)
			}
		}
		return Value{kind: KindTable, tbl: entries}
	case v.kind == KindArray || v.kind == KindTable || like.kind == KindArray || like.kind == KindTable:
		return v
	}
	if v.kind == KindString && (like.kind == KindDatetime || like.kind == KindFloat && isNonFinite(v.str)) {
		if out, err := Coerce(v, like.kind); err == nil {
			return out
		}
	}
	return v
}

func isNonFinite(text string) bool {
	switch text {
	case "nan", "+nan", "-nan", "inf", "+inf", "-inf":
		return true
	}
	return false
}
