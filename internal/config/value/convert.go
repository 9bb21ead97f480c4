package value

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// FromTOML converts a value produced by go-toml decoding into a Value.
func FromTOML(raw any) (Value, error) {
	if d, ok := datetimeFromTOML(raw); ok {
		return DatetimeValue(d), nil
	}
	switch x := raw.(type) {
	case Value:
		return x, nil
	case string:
		return String(x), nil
	case int64:
		return Integer(x), nil
	case int:
		return Integer(int64(x)), nil
	case int32:
		return Integer(int64(x)), nil
	case uint8:
		return Integer(int64(x)), nil
	case float64:
		return Float(x), nil
	case float32:
		return Float(float64(x)), nil
	case bool:
		return Boolean(x), nil
	case []any:
		elems := make([]Value, len(x))
		for i, e := range x {
			v, err := FromTOML(e)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			elems[i] = v
		}
		return Value{kind: KindArray, arr: elems}, nil
	case []map[string]any:
		elems := make([]Value, len(x))
		for i, e := range x {
			v, err := FromTOML(e)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			elems[i] = v
		}
		return Value{kind: KindArray, arr: elems}, nil
	case map[string]any:
		entries := make(map[string]Value, len(x))
		for k, e := range x {
			v, err := FromTOML(e)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			entries[k] = v
		}
		return Value{kind: KindTable, tbl: entries}, nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", raw)
	}
}

// ParseLiteral parses a single TOML value literal such as `42`, `"on"` or
// `[1, 2]`.
func ParseLiteral(literal string) (Value, error) {
	var doc map[string]any
	if err := toml.Unmarshal([]byte("v = "+literal), &doc); err != nil {
		return Value{}, fmt.Errorf("invalid literal %q: %w", literal, err)
	}
	return FromTOML(doc["v"])
}
