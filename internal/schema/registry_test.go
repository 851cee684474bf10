package schema

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func resetRegistry(t *testing.T) {
	t.Helper()
	Clear()
	t.Cleanup(Clear)
}

func TestRegister(t *testing.T) {
	resetRegistry(t)

	s := &Schema{Key: "contacts", Columns: []Column{{ID: "email", Type: TypeEmail}}}
	if err := Register(s); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, ok := Get("contacts")
	if !ok {
		t.Fatal("Get(contacts) not found after Register")
	}
	if got != s {
		t.Error("Get(contacts) returned a different schema")
	}

	if _, ok := Get("missing"); ok {
		t.Error("Get(missing) found, want not found")
	}
}

func TestRegister_Errors(t *testing.T) {
	resetRegistry(t)

	if err := Register(&Schema{}); err == nil {
		t.Error("Register(no key) = nil, want error")
	}

	s := &Schema{Key: "dup"}
	if err := Register(s); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := Register(&Schema{Key: "dup"}); err == nil {
		t.Error("Register(duplicate key) = nil, want error")
	}
}

func TestKeys_Sorted(t *testing.T) {
	resetRegistry(t)

	for _, key := range []string{"zeta", "alpha", "mid"} {
		if err := Register(&Schema{Key: key}); err != nil {
			t.Fatalf("Register(%s) error = %v", key, err)
		}
	}

	want := []string{"alpha", "mid", "zeta"}
	if got := Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if got := Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}

	all := All()
	for i, s := range all {
		if s.Key != want[i] {
			t.Errorf("All()[%d].Key = %q, want %q", i, s.Key, want[i])
		}
	}
}

func TestLoadDir(t *testing.T) {
	resetRegistry(t)

	dir := t.TempDir()
	writeFile(t, dir, "contacts.json", `{
		"key": "contacts",
		"columns": [{"id": "email", "type": "email"}]
	}`)
	writeFile(t, dir, "products.yaml", `
columns:
  - id: sku
    type: string
`)
	writeFile(t, dir, "notes.txt", "not a schema")

	loaded, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if loaded != 2 {
		t.Errorf("LoadDir() = %d, want 2", loaded)
	}

	if _, ok := Get("contacts"); !ok {
		t.Error("contacts not registered")
	}
	// Keyless schema files fall back to the base file name.
	if _, ok := Get("products"); !ok {
		t.Error("products not registered under file name")
	}
}

func TestLoadDir_BadFile(t *testing.T) {
	resetRegistry(t)

	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `{"columns": [{"id": "x", "type": "nope"}]}`)

	if _, err := LoadDir(dir); err == nil {
		t.Error("LoadDir() = nil, want error for invalid schema file")
	}
}

func TestLoadDir_MissingDir(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("LoadDir(missing dir) = nil, want error")
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
