package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Render returns the TOML literal used when writing v as a field value.
//
// Strings are basic-quoted, switching to the multi-line form when they
// contain a newline. Tables render as the empty placeholder "{}"; callers
// that need their content use RenderInline. Datetimes render quoted.
func Render(v Value) string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return formatFloat(v.float)
	case KindBoolean:
		return strconv.FormatBool(v.flag)
	case KindArray:
		return renderArray(v.arr, Render)
	case KindTable:
		return "{}"
	case KindDatetime:
		return `"` + v.dt.String() + `"`
	default:
		return quoteString(v.str)
	}
}

// RenderInline is like Render but keeps structure: tables render as inline
// tables with sorted keys and datetimes render as bare datetime literals.
func RenderInline(v Value) string {
	switch v.kind {
	case KindArray:
		return renderArray(v.arr, RenderInline)
	case KindTable:
		if len(v.tbl) == 0 {
			return "{}"
		}
		keys := v.Keys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = QuoteKey(k) + " = " + RenderInline(v.tbl[k])
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case KindDatetime:
		return v.dt.String()
	default:
		return Render(v)
	}
}

// QuoteKey returns name as a TOML key, quoting it unless it is a bare key.
func QuoteKey(name string) string {
	if name == "" {
		return `""`
	}
	for _, r := range name {
		if !isBareKeyRune(r) {
			return quoteBasic(name)
		}
	}
	return name
}

func isBareKeyRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || r == '_' || r == '-'
}

func renderArray(elems []Value, render func(Value) string) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = render(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// formatFloat writes f so that it parses back as a float, never an integer.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	var s string
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		s = strconv.FormatFloat(f, 'e', -1, 64)
	} else {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func quoteString(s string) string {
	if strings.Contains(s, "\n") {
		return quoteMultiline(s)
	}
	return quoteBasic(s)
}

// quoteBasic writes s as a single-line basic string.
func quoteBasic(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			writeEscaped(&b, r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// quoteMultiline writes s as a multi-line basic string. The parser trims a
// newline directly after the opening delimiter, so one is added when s
// itself starts with a newline.
func quoteMultiline(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 7)
	b.WriteString(`"""`)
	if strings.HasPrefix(s, "\n") {
		b.WriteByte('\n')
	}
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteByte('\n')
		default:
			writeEscaped(&b, r)
		}
	}
	b.WriteString(`"""`)
	return b.String()
}

func writeEscaped(b *strings.Builder, r rune) {
	switch r {
	case '\b':
		b.WriteString(`\b`)
	case '\t':
		b.WriteString(`\t`)
	case '\f':
		b.WriteString(`\f`)
	case '\r':
		b.WriteString(`\r`)
	default:
		if r < 0x20 || r == 0x7f {
			fmt.Fprintf(b, `\u%04X`, r)
			return
		}
		b.WriteRune(r)
	}
}
