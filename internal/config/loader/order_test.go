package loader

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const orderedDoc = `
title = "x"
owner.name = "me"

[server]
port = 80
host = "h"

[db.replica]
host = "r"

[[plugins]]
name = "a"

[[plugins]]
name = "b"
enabled = true
`

func TestScanOrder(t *testing.T) {
	tree, err := Parse("ordered", []byte(orderedDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []string{"title", "owner", "server", "db", "plugins"}
	if diff := cmp.Diff(want, tree.Order.Keys(tree.Values)); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}

	server := tree.Values["server"].(map[string]any)
	if diff := cmp.Diff([]string{"port", "host"}, tree.Order.InnerKeys("server", server)); diff != "" {
		t.Errorf("InnerKeys(server) mismatch (-want +got):\n%s", diff)
	}

	second := tree.Values["plugins"].([]any)[1].(map[string]any)
	if diff := cmp.Diff([]string{"name", "enabled"}, tree.Order.InnerKeys("plugins", second)); diff != "" {
		t.Errorf("InnerKeys(plugins) mismatch (-want +got):\n%s", diff)
	}

	db := tree.Values["db"].(map[string]any)
	if diff := cmp.Diff([]string{"replica"}, tree.Order.InnerKeys("db", db)); diff != "" {
		t.Errorf("InnerKeys(db) mismatch (-want +got):\n%s", diff)
	}
}

func TestScanOrder_QuotedKeys(t *testing.T) {
	o, err := ScanOrder([]byte(`
"b key" = 1
a = 2
`))
	if err != nil {
		t.Fatalf("ScanOrder failed: %v", err)
	}
	got := o.Keys(map[string]any{"a": 2, "b key": 1})
	if diff := cmp.Diff([]string{"b key", "a"}, got); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestKeyOrder_UnknownKeysSorted(t *testing.T) {
	var o KeyOrder
	got := o.Keys(map[string]any{"zeta": 1, "alpha": 2, "mid": 3})
	if diff := cmp.Diff([]string{"alpha", "mid", "zeta"}, got); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}

	if got := o.InnerKeys("none", nil); len(got) != 0 {
		t.Errorf("InnerKeys(nil) = %v, want empty", got)
	}
}

func TestScanOrder_InvalidInput(t *testing.T) {
	if _, err := ScanOrder([]byte("[broken")); err == nil {
		t.Error("expected error for invalid input")
	}
}
