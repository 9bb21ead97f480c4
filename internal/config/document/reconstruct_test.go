package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/tomlkeeper/internal/config/loader"
	"github.com/dshills/tomlkeeper/internal/config/value"
)

func TestReconstruct_Canonical(t *testing.T) {
	doc := mustParse(t, `# Bot identity
[bot]
# QQ account
qq = 123
name = "mofox" # display name

[model]
temperature = 0.5
`)

	want := "# Bot identity\n" +
		"[bot]\n" +
		"# QQ account\n" +
		"qq = 123\n" +
		"# display name\n" +
		"name = \"mofox\"\n" +
		"\n" +
		"[model]\n" +
		"temperature = 0.5\n" +
		"\n"

	if got := Reconstruct(doc); got != want {
		t.Errorf("Reconstruct() mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestReconstruct_RoundTrip(t *testing.T) {
	src := `
title = "panel"
ports = [8080, 8081]

# identity
[bot]
qq = 123456 # account
nickname = "Mo \"Fox\""
alias_names = ["a", "b"]
enable = true

[model]
# sampling
temperature = 0.7
max_tokens = 1024
ratio = 1.0

[paths]
data = 'C:\data'
`
	first := mustParse(t, src)
	out := Reconstruct(first)

	second, err := Parse("test.toml", "/cfg/test.toml", []byte(out))
	if err != nil {
		t.Fatalf("re-parse failed: %v\n%s", err, out)
	}

	if diff := cmp.Diff(triples(first), triples(second)); diff != "" {
		t.Errorf("round trip mismatch (-first +second):\n%s", diff)
	}

	for _, name := range []string{"qq", "temperature"} {
		var a, b *Field
		for i := range first.Sections {
			if f, ok := first.Sections[i].Field(name); ok {
				a = f
			}
		}
		for i := range second.Sections {
			if f, ok := second.Sections[i].Field(name); ok {
				b = f
			}
		}
		if a == nil || b == nil || commentOf(a.Comment) != commentOf(b.Comment) {
			t.Errorf("comment for %s did not survive the round trip", name)
		}
	}
}

func TestReconstruct_MultilineString(t *testing.T) {
	prompt := "You are a helpful bot.\nBe \"kind\".\n\tIndented line\n"
	doc := &Document{Sections: []Section{{
		Name:   "personality",
		Fields: []Field{NewField("personality", "prompt", value.String(prompt), nil)},
	}}}

	out := Reconstruct(doc)
	if !strings.Contains(out, `prompt = """`) {
		t.Fatalf("expected triple-quoted literal, got:\n%s", out)
	}

	back, err := Parse("p.toml", "p.toml", []byte(out))
	if err != nil {
		t.Fatalf("re-parse failed: %v\n%s", err, out)
	}
	f, err := back.Lookup("personality", "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := f.Value.Str(); s != prompt {
		t.Errorf("prompt = %q, want %q", s, prompt)
	}
}

func TestReconstruct_ArrayOfTablesIsLossy(t *testing.T) {
	doc := mustParse(t, "[[p]]\na=1\n[[p]]\na=2\n")

	out := Reconstruct(doc)
	want := "[p]\n[0].a = 1\n[1].a = 2\n\n"
	if out != want {
		t.Errorf("Reconstruct() = %q, want %q", out, want)
	}

	_, err := Parse("p.toml", "p.toml", []byte(out))
	if !errors.Is(err, loader.ErrSyntax) {
		t.Errorf("re-parse error = %v, want a syntax error", err)
	}
}

func TestReconstruct_TopLevelValuesGetHeaders(t *testing.T) {
	doc := mustParse(t, "version = 1\n[bot]\nname = \"x\"\n")

	want := "[version]\nversion = 1\n\n[bot]\nname = \"x\"\n\n"
	if got := Reconstruct(doc); got != want {
		t.Errorf("Reconstruct() = %q, want %q", got, want)
	}
}

func TestReconstruct_TablePlaceholderAndDatetime(t *testing.T) {
	doc := mustParse(t, "[a]\nwhen = 2024-05-01\n[a.b]\nc = 1\n")

	out := Reconstruct(doc)
	if !strings.Contains(out, `when = "2024-05-01"`) {
		t.Errorf("datetime should render quoted, got:\n%s", out)
	}
	if !strings.Contains(out, "b = {}") {
		t.Errorf("nested table should render as placeholder, got:\n%s", out)
	}
}

func TestReconstruct_EmptyNameAndMultilineComment(t *testing.T) {
	note := "first\nsecond"
	doc := &Document{Sections: []Section{{
		Name:    "",
		Comment: &note,
		Fields:  []Field{NewField("", "k", value.Boolean(true), nil)},
	}}}

	want := "# first\n# second\nk = true\n\n"
	if got := Reconstruct(doc); got != want {
		t.Errorf("Reconstruct() = %q, want %q", got, want)
	}
}

func TestReconstruct_PreserveShape(t *testing.T) {
	src := `version = "1.0" # schema version

# providers
[[api_providers]]
name = "a"
retry = 3

[[api_providers]]
name = "b"
retry = 5

[bot]
owner = { id = 1 }
since = 2024-05-01
`
	first := mustParse(t, src)
	out := Reconstruct(first, WithPreserveShape())

	want := "# schema version\n" +
		"version = \"1.0\"\n" +
		"\n" +
		"# providers\n" +
		"[[api_providers]]\n" +
		"name = \"a\"\n" +
		"retry = 3\n" +
		"[[api_providers]]\n" +
		"name = \"b\"\n" +
		"retry = 5\n" +
		"\n" +
		"[bot]\n" +
		"owner = { id = 1 }\n" +
		"since = 2024-05-01\n" +
		"\n"
	if out != want {
		t.Errorf("Reconstruct() mismatch (-want +got):\n%s", cmp.Diff(want, out))
	}

	second, err := Parse("test.toml", "/cfg/test.toml", []byte(out))
	if err != nil {
		t.Fatalf("re-parse failed: %v\n%s", err, out)
	}
	if diff := cmp.Diff(triples(first), triples(second)); diff != "" {
		t.Errorf("round trip mismatch (-first +second):\n%s", diff)
	}

	s, _ := second.Section("api_providers")
	if commentOf(s.Comment) != "providers" {
		t.Errorf("section comment = %s, want providers", commentOf(s.Comment))
	}
}

func TestReconstruct_PreserveShapeMixedIndexedNames(t *testing.T) {
	doc := &Document{Sections: []Section{{
		Name: "p",
		Fields: []Field{
			NewField("p", "[0].a", value.Integer(1), nil),
			NewField("p", "plain", value.Integer(2), nil),
		},
	}}}

	out := Reconstruct(doc, WithPreserveShape())
	want := "[p]\n\"[0].a\" = 1\nplain = 2\n\n"
	if out != want {
		t.Errorf("Reconstruct() = %q, want %q", out, want)
	}
	if _, err := Parse("p.toml", "p.toml", []byte(out)); err != nil {
		t.Errorf("output should parse: %v", err)
	}
}
