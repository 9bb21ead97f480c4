// Package document models a configuration file as ordered sections of
// commented, typed fields.
//
// Extract builds the model from a decoded TOML tree plus the raw text the
// tree came from; Reconstruct writes a model back out as TOML. The model is
// plain data and serializes to JSON as-is for callers outside the process.
package document

import (
	"errors"
	"fmt"

	"github.com/dshills/tomlkeeper/internal/config/value"
)

// Errors returned by document lookups.
var (
	// ErrSectionNotFound indicates no section has the requested name.
	ErrSectionNotFound = errors.New("section not found")

	// ErrFieldNotFound indicates the section has no field with the requested name.
	ErrFieldNotFound = errors.New("field not found")
)

// Field is one key/value pair with its comment.
//
// TypeTag always names the variant of Value; use SetValue to edit Value so
// the two stay in step. Section names the owning section, or is empty for a
// value that sits at the top level of the file.
type Field struct {
	Name    string      `json:"name" yaml:"name"`
	Value   value.Value `json:"value" yaml:"value"`
	TypeTag string      `json:"field_type" yaml:"field_type"`
	Comment *string     `json:"comment" yaml:"comment"`
	Section string      `json:"section" yaml:"section"`
}

// NewField returns a field whose type tag matches v.
func NewField(section, name string, v value.Value, comment *string) Field {
	return Field{
		Name:    name,
		Value:   v,
		TypeTag: value.Classify(v),
		Comment: comment,
		Section: section,
	}
}

// SetValue replaces the field's value and refreshes its type tag.
func (f *Field) SetValue(v value.Value) {
	f.Value = v
	f.TypeTag = value.Classify(v)
}

// Consistent reports whether TypeTag matches the variant of Value.
func (f Field) Consistent() bool {
	return f.TypeTag == value.Classify(f.Value)
}

// Section is a named group of fields in discovery order.
type Section struct {
	Name    string  `json:"name" yaml:"name"`
	Fields  []Field `json:"fields" yaml:"fields"`
	Comment *string `json:"comment" yaml:"comment"`
}

// Field returns the first field called name.
func (s *Section) Field(name string) (*Field, bool) {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

// IsRoot reports whether the section holds values that live at the top
// level of the file rather than under a table header.
func (s *Section) IsRoot() bool {
	if s.Name == "" {
		return true
	}
	if len(s.Fields) == 0 {
		return false
	}
	for _, f := range s.Fields {
		if f.Section != "" {
			return false
		}
	}
	return true
}

// Document is the structured view of one configuration file.
//
// RawContent is the text the document was extracted from. Edits to
// Sections are not reflected in it.
type Document struct {
	Filename   string    `json:"filename" yaml:"filename"`
	Path       string    `json:"path" yaml:"path"`
	Sections   []Section `json:"sections" yaml:"sections"`
	RawContent string    `json:"raw_content" yaml:"raw_content"`
}

// Section returns the first section called name.
func (d *Document) Section(name string) (*Section, bool) {
	for i := range d.Sections {
		if d.Sections[i].Name == name {
			return &d.Sections[i], true
		}
	}
	return nil, false
}

// Lookup returns the named field of the named section.
func (d *Document) Lookup(section, field string) (*Field, error) {
	s, ok := d.Section(section)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, section)
	}
	f, ok := s.Field(field)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrFieldNotFound, section, field)
	}
	return f, nil
}

// Set replaces the value of an existing field, refreshing its type tag.
func (d *Document) Set(section, field string, v value.Value) error {
	f, err := d.Lookup(section, field)
	if err != nil {
		return err
	}
	f.SetValue(v)
	return nil
}

// PluginDocument is the configuration document of one plugin directory.
type PluginDocument struct {
	Name     string    `json:"name" yaml:"name"`
	Path     string    `json:"path" yaml:"path"`
	Document *Document `json:"config" yaml:"config"`
}
