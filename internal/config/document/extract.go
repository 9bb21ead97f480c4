package document

import (
	"fmt"

	"github.com/dshills/tomlkeeper/internal/config/comment"
	"github.com/dshills/tomlkeeper/internal/config/loader"
	"github.com/dshills/tomlkeeper/internal/config/value"
)

// Parse decodes raw as TOML and extracts its document. filename is the
// display name; path is where the file lives and names it in errors.
func Parse(filename, path string, raw []byte) (*Document, error) {
	tree, err := loader.Parse(path, raw)
	if err != nil {
		return nil, err
	}

	text := string(raw)
	sections, err := Extract(text, tree)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}

	return &Document{
		Filename:   filename,
		Path:       path,
		Sections:   sections,
		RawContent: text,
	}, nil
}

// Extract turns a decoded tree into sections, consulting raw for comments.
//
// Every top-level key becomes a section. A table yields one field per key.
// An array of tables yields one field per key of every element, named
// "[i].key" to tell the elements apart. Any other value becomes a single
// field named after the key, with an empty Section.
func Extract(raw string, tree *loader.Tree) ([]Section, error) {
	loc := comment.NewLocator(raw)
	keys := tree.Order.Keys(tree.Values)
	sections := make([]Section, 0, len(keys))

	for _, key := range keys {
		fields, err := extractFields(loc, tree.Order, key, tree.Values[key])
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", key, err)
		}
		sections = append(sections, Section{
			Name:    key,
			Fields:  fields,
			Comment: optional(loc.Section(key)),
		})
	}

	return sections, nil
}

func extractFields(loc *comment.Locator, order loader.KeyOrder, key string, raw any) ([]Field, error) {
	if table, ok := raw.(map[string]any); ok {
		return tableFields(loc, order, key, table, "")
	}

	if tables, ok := arrayOfTables(raw); ok {
		var fields []Field
		for i, table := range tables {
			elem, err := tableFields(loc, order, key, table, fmt.Sprintf("[%d].", i))
			if err != nil {
				return nil, err
			}
			fields = append(fields, elem...)
		}
		return fields, nil
	}

	v, err := value.FromTOML(raw)
	if err != nil {
		return nil, err
	}
	return []Field{NewField("", key, v, optional(loc.Field(key)))}, nil
}

// tableFields emits one field per key of table. prefix decorates the
// display name only; comments are looked up by the bare key.
func tableFields(loc *comment.Locator, order loader.KeyOrder, section string, table map[string]any, prefix string) ([]Field, error) {
	names := order.InnerKeys(section, table)
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		v, err := value.FromTOML(table[name])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		fields = append(fields, NewField(section, prefix+name, v, optional(loc.Field(name))))
	}
	return fields, nil
}

// arrayOfTables reports whether raw is a non-empty array holding only tables.
func arrayOfTables(raw any) ([]map[string]any, bool) {
	switch x := raw.(type) {
	case []map[string]any:
		return x, len(x) > 0
	case []any:
		if len(x) == 0 {
			return nil, false
		}
		tables := make([]map[string]any, len(x))
		for i, e := range x {
			t, ok := e.(map[string]any)
			if !ok {
				return nil, false
			}
			tables[i] = t
		}
		return tables, true
	default:
		return nil, false
	}
}

func optional(text string, ok bool) *string {
	if !ok {
		return nil
	}
	return &text
}
