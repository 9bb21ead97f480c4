package loader

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	raw := []byte(`
[bot]
name = "mofox"
qq = 12345
enabled = true

[model]
temperature = 0.7
`)

	tree, err := Parse("/config.toml", raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	bot, ok := tree.Values["bot"].(map[string]any)
	if !ok {
		t.Fatal("expected bot to be a map")
	}
	if bot["qq"] != int64(12345) {
		t.Errorf("qq = %v (%T), want 12345", bot["qq"], bot["qq"])
	}
	if bot["enabled"] != true {
		t.Errorf("enabled = %v, want true", bot["enabled"])
	}

	model, ok := tree.Values["model"].(map[string]any)
	if !ok {
		t.Fatal("expected model to be a map")
	}
	if model["temperature"] != 0.7 {
		t.Errorf("temperature = %v, want 0.7", model["temperature"])
	}

	keys := tree.Order.Keys(tree.Values)
	if len(keys) != 2 || keys[0] != "bot" || keys[1] != "model" {
		t.Errorf("Keys() = %v, want [bot model]", keys)
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("/invalid.toml", []byte(`
[bot
name = "x"
`))
	if err == nil {
		t.Fatal("expected parse error")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Path != "/invalid.toml" {
		t.Errorf("Path = %q, want '/invalid.toml'", parseErr.Path)
	}
	if parseErr.Line == 0 {
		t.Error("Line should be set from the decoder position")
	}
	if !errors.Is(err, ErrSyntax) {
		t.Error("ParseError should match ErrSyntax")
	}
}

func TestParse_Empty(t *testing.T) {
	tree, err := Parse("empty", nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tree.Values == nil || len(tree.Values) != 0 {
		t.Errorf("Values = %v, want empty map", tree.Values)
	}
}

func TestParseError_Error(t *testing.T) {
	tests := []struct {
		err  ParseError
		want string
	}{
		{ParseError{Path: "a.toml", Message: "bad"}, "parse error in a.toml: bad"},
		{ParseError{Path: "a.toml", Line: 3, Message: "bad"}, "parse error in a.toml at line 3: bad"},
		{ParseError{Path: "a.toml", Line: 3, Column: 2, Message: "bad"}, "parse error in a.toml at line 3, column 2: bad"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
