package loader

import (
	"sort"

	"github.com/pelletier/go-toml/v2/unstable"
)

// KeyOrder records where keys first appear in a TOML document: the order of
// top-level keys, and for each top-level key the order of its direct
// children. The zero KeyOrder knows no keys and sorts everything.
type KeyOrder struct {
	top   []string
	inner map[string][]string
	seen  map[string]struct{}
}

// ScanOrder walks the expressions of data and records key order. Header
// keys ([a.b] and [[a]]) and assignment keys both count as appearances.
func ScanOrder(data []byte) (KeyOrder, error) {
	var o KeyOrder
	var p unstable.Parser
	p.Reset(data)

	var table []string
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			table = keyParts(expr.Key())
			o.add(table)
		case unstable.KeyValue:
			path := make([]string, 0, len(table)+1)
			path = append(path, table...)
			path = append(path, keyParts(expr.Key())...)
			o.add(path)
		}
	}
	return o, p.Error()
}

func keyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

func (o *KeyOrder) add(path []string) {
	if len(path) == 0 {
		return
	}
	if o.seen == nil {
		o.seen = make(map[string]struct{})
		o.inner = make(map[string][]string)
	}

	top := path[0]
	if _, ok := o.seen[top]; !ok {
		o.seen[top] = struct{}{}
		o.top = append(o.top, top)
	}
	if len(path) < 2 {
		return
	}

	child := path[1]
	for _, k := range o.inner[top] {
		if k == child {
			return
		}
	}
	o.inner[top] = append(o.inner[top], child)
}

// Keys returns the keys of m, top-level order first. Keys the scan never saw
// follow in sorted order.
func (o KeyOrder) Keys(m map[string]any) []string {
	return ordered(o.top, m)
}

// InnerKeys returns the keys of m, a table found under the top-level key
// top, in source order.
func (o KeyOrder) InnerKeys(top string, m map[string]any) []string {
	return ordered(o.inner[top], m)
}

func ordered(known []string, m map[string]any) []string {
	keys := make([]string, 0, len(m))
	used := make(map[string]struct{}, len(m))
	for _, k := range known {
		if _, ok := m[k]; !ok {
			continue
		}
		if _, dup := used[k]; dup {
			continue
		}
		used[k] = struct{}{}
		keys = append(keys, k)
	}

	var rest []string
	for k := range m {
		if _, ok := used[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
