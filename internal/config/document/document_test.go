package document

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/tomlkeeper/internal/config/value"
)

func TestField_SetValueRefreshesTag(t *testing.T) {
	f := NewField("bot", "qq", value.Integer(1), nil)
	if f.TypeTag != "integer" {
		t.Fatalf("TypeTag = %q, want integer", f.TypeTag)
	}

	f.SetValue(value.String("one"))
	if f.TypeTag != "string" || !f.Consistent() {
		t.Errorf("TypeTag = %q after SetValue, want string", f.TypeTag)
	}

	f.Value = value.Boolean(true)
	if f.Consistent() {
		t.Error("assigning Value directly should leave the tag stale")
	}
}

func TestDocument_LookupAndSet(t *testing.T) {
	doc := mustParse(t, "[bot]\nname = \"x\"\n")

	if err := doc.Set("bot", "name", value.Integer(7)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	f, err := doc.Lookup("bot", "name")
	if err != nil {
		t.Fatal(err)
	}
	if f.TypeTag != "integer" {
		t.Errorf("TypeTag = %q, want integer", f.TypeTag)
	}
	if !strings.Contains(doc.RawContent, `name = "x"`) {
		t.Error("RawContent must not follow structured edits")
	}

	if _, err := doc.Lookup("nope", "name"); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("Lookup(nope) error = %v, want ErrSectionNotFound", err)
	}
	if err := doc.Set("bot", "nope", value.Integer(1)); !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("Set(bot.nope) error = %v, want ErrFieldNotFound", err)
	}
}

func TestDocument_JSON(t *testing.T) {
	doc := mustParse(t, `
# identity
[bot]
qq = 1 # account
ratio = 2.0
since = 2024-05-01
tags = ["a"]
`)

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	for _, want := range []string{
		`"filename":"test.toml"`,
		`"raw_content":`,
		`"field_type":"datetime"`,
		`"value":"2024-05-01"`,
		`"comment":"account"`,
		`"section":"bot"`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON missing %s:\n%s", want, data)
		}
	}

	var back Document
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	for _, name := range []string{"qq", "ratio", "since", "tags"} {
		orig, _ := doc.Lookup("bot", name)
		got, err := back.Lookup("bot", name)
		if err != nil {
			t.Fatal(err)
		}
		if !value.Equal(orig.Value, got.Value) {
			t.Errorf("%s = %#v after JSON, want %#v", name, got.Value.Interface(), orig.Value.Interface())
		}
		if got.TypeTag != orig.TypeTag {
			t.Errorf("%s TypeTag = %q, want %q", name, got.TypeTag, orig.TypeTag)
		}
	}
}

func TestDocument_JSONKeepsNestedFloats(t *testing.T) {
	doc := mustParse(t, "[s]\nratios = [1.0, 2.0]\nm = 3.0\n")

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var back Document
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	want := "[s]\nratios = [1.0, 2.0]\nm = 3.0\n\n"
	if got := Reconstruct(&back); got != want {
		t.Errorf("Reconstruct after JSON = %q, want %q", got, want)
	}
}

func TestDocument_RestoreKinds(t *testing.T) {
	doc := mustParse(t, "[s]\nwhen = [1979-05-27]\nnames = [\"1979-05-27\"]\n")

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var back Document
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	lookup := func(d *Document, name string) value.Value {
		t.Helper()
		f, err := d.Lookup("s", name)
		if err != nil {
			t.Fatal(err)
		}
		return f.Value
	}

	if value.Equal(lookup(&back, "when"), lookup(doc, "when")) {
		t.Fatal("datetimes nested in arrays should not survive JSON alone")
	}

	back.RestoreKinds(doc)
	for _, name := range []string{"when", "names"} {
		if got, want := lookup(&back, name), lookup(doc, name); !value.Equal(got, want) {
			t.Errorf("%s = %#v after RestoreKinds, want %#v", name, got.Interface(), want.Interface())
		}
	}
	if got := Reconstruct(&back, WithPreserveShape()); !strings.Contains(got, "when = [1979-05-27]") {
		t.Errorf("preserve-shape output lost the date literal:\n%s", got)
	}

	back.RestoreKinds(nil)
}

func TestField_UnmarshalJSONRefreshesStaleTag(t *testing.T) {
	var f Field
	if err := json.Unmarshal([]byte(`{"name":"n","value":5,"field_type":"string","comment":null,"section":"s"}`), &f); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if f.TypeTag != "integer" {
		t.Errorf("TypeTag = %q, want integer", f.TypeTag)
	}
	if f.Comment != nil {
		t.Errorf("Comment = %v, want nil", *f.Comment)
	}

	if err := json.Unmarshal([]byte(`{"name":"n","value":"07:30:00","field_type":"datetime"}`), &f); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	d, ok := f.Value.Datetime()
	if !ok || d.Kind != value.LocalTime || d.Time.Hour() != 7 || d.Time.Minute() != 30 {
		t.Errorf("Value = %#v, want local time 07:30", f.Value.Interface())
	}
}
