package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	content := `
debug = true
trace = true
no-color = true
dump = true
max-steps = 1000
precision = 50
`
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.Debug || !cfg.Trace || !cfg.NoColor || !cfg.Dump {
		t.Errorf("boolean settings not read: %+v", cfg)
	}
	if cfg.MaxSteps != 1000 {
		t.Errorf("max-steps = %d, want 1000", cfg.MaxSteps)
	}
	if cfg.Precision != 50 {
		t.Errorf("precision = %d, want 50", cfg.Precision)
	}
	if cfg.Path != path {
		t.Errorf("path = %q, want %q", cfg.Path, path)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("debug = false\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Precision != 34 {
		t.Errorf("default precision = %d, want 34", cfg.Precision)
	}
	if cfg.MaxSteps != 0 {
		t.Errorf("default max-steps = %d, want 0", cfg.MaxSteps)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("debgu = true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "debgu") {
		t.Errorf("expected unknown key error, got %v", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("debug = [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Errorf("expected parse error")
	}

	negative := filepath.Join(dir, "negative.toml")
	if err := os.WriteFile(negative, []byte("max-steps = -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(negative); err == nil {
		t.Errorf("expected error for negative max-steps")
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("max-steps = 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	cfg, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if cfg.MaxSteps != 7 {
		t.Errorf("expected config from parent directory, got %+v", cfg)
	}
}
