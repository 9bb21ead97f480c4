package document

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/tomlkeeper/internal/config/comment"
	"github.com/dshills/tomlkeeper/internal/config/value"
)

// ReconstructOption configures Reconstruct.
type ReconstructOption func(*reconstructConfig)

type reconstructConfig struct {
	preserveShape bool
}

// WithPreserveShape writes top-level values before any header, regroups
// "[i].key" fields into [[section]] blocks, and writes table values as
// inline tables. Without it the output follows the canonical layout, which
// does not survive a re-parse for those shapes.
func WithPreserveShape() ReconstructOption {
	return func(c *reconstructConfig) {
		c.preserveShape = true
	}
}

// Reconstruct writes doc as TOML text.
//
// The canonical layout is, per section: its comment, a [name] header when
// the name is not empty, then each field as an optional comment line and a
// "name = value" line, and a blank line. Field names are written verbatim.
// Original spacing and line order are not preserved.
func Reconstruct(doc *Document, opts ...ReconstructOption) string {
	var cfg reconstructConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var b strings.Builder
	if cfg.preserveShape {
		writeShaped(&b, doc)
		return b.String()
	}

	for _, s := range doc.Sections {
		writeComment(&b, s.Comment)
		if s.Name != "" {
			b.WriteString("[" + s.Name + "]\n")
		}
		for _, f := range s.Fields {
			writeComment(&b, f.Comment)
			b.WriteString(f.Name + " = " + value.Render(f.Value) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeComment(b *strings.Builder, text *string) {
	if text == nil {
		return
	}
	for _, line := range strings.Split(*text, "\n") {
		b.WriteString(comment.Marker + " " + line + "\n")
	}
}

var indexedName = regexp.MustCompile(`^\[(\d+)\]\.(.+)$`)

func writeShaped(b *strings.Builder, doc *Document) {
	wroteRoot := false
	for i := range doc.Sections {
		s := &doc.Sections[i]
		if !s.IsRoot() {
			continue
		}
		writeComment(b, s.Comment)
		for _, f := range s.Fields {
			writeShapedField(b, f.Comment, f.Name, f.Value)
		}
		wroteRoot = true
	}
	if wroteRoot {
		b.WriteString("\n")
	}

	for i := range doc.Sections {
		s := &doc.Sections[i]
		if s.IsRoot() {
			continue
		}
		writeComment(b, s.Comment)
		if groups, ok := indexedGroups(s.Fields); ok {
			for _, g := range groups {
				b.WriteString("[[" + value.QuoteKey(s.Name) + "]]\n")
				for _, f := range g.fields {
					writeShapedField(b, f.Comment, f.inner, f.Value)
				}
			}
		} else {
			b.WriteString("[" + value.QuoteKey(s.Name) + "]\n")
			for _, f := range s.Fields {
				writeShapedField(b, f.Comment, f.Name, f.Value)
			}
		}
		b.WriteString("\n")
	}
}

func writeShapedField(b *strings.Builder, text *string, name string, v value.Value) {
	writeComment(b, text)
	b.WriteString(value.QuoteKey(name) + " = " + value.RenderInline(v) + "\n")
}

type indexedField struct {
	Field
	inner string
}

type indexedGroup struct {
	index  int
	fields []indexedField
}

// indexedGroups splits fields named "[i].key" by index. It reports false
// unless every field carries an index.
func indexedGroups(fields []Field) ([]indexedGroup, bool) {
	if len(fields) == 0 {
		return nil, false
	}

	byIndex := make(map[int]*indexedGroup)
	for _, f := range fields {
		m := indexedName.FindStringSubmatch(f.Name)
		if m == nil {
			return nil, false
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, false
		}
		g, ok := byIndex[idx]
		if !ok {
			g = &indexedGroup{index: idx}
			byIndex[idx] = g
		}
		g.fields = append(g.fields, indexedField{Field: f, inner: m[2]})
	}

	groups := make([]indexedGroup, 0, len(byIndex))
	for _, g := range byIndex {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].index < groups[j].index })
	return groups, true
}
