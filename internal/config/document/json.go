package document

import (
	"encoding/json"

	"github.com/dshills/tomlkeeper/internal/config/value"
)

// UnmarshalJSON decodes a field and uses its field_type to recover variants
// JSON cannot express, such as a datetime held in a string. The type tag is
// then refreshed from the decoded value. Elements nested in arrays and
// tables have no tag of their own; see Document.RestoreKinds.
func (f *Field) UnmarshalJSON(data []byte) error {
	type plain Field
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	if k, ok := value.ParseKind(p.TypeTag); ok {
		if v, err := value.Coerce(p.Value, k); err == nil {
			p.Value = v
		}
	}
	p.TypeTag = value.Classify(p.Value)

	*f = Field(p)
	return nil
}

// RestoreKinds converts nested values in d back to the kinds held by the
// same field of like, matched by section and field name. Call it after
// decoding a document from JSON, with the document the JSON was made from,
// to recover datetimes and non-finite floats inside arrays and tables.
func (d *Document) RestoreKinds(like *Document) {
	if like == nil {
		return
	}
	for i := range d.Sections {
		s := &d.Sections[i]
		ls, ok := like.Section(s.Name)
		if !ok {
			continue
		}
		for j := range s.Fields {
			f := &s.Fields[j]
			if lf, ok := ls.Field(f.Name); ok {
				f.SetValue(value.Restore(f.Value, lf.Value))
			}
		}
	}
}
