package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSet(t *testing.T) {
	cfg := &Config{
		sessionSettings: make(map[string]string),
	}

	cfg.Set("showing_depth", "2")
	if cfg.Get("showing_depth") != "2" {
		t.Errorf("Expected '2', got '%s'", cfg.Get("showing_depth"))
	}
}

func TestGet(t *testing.T) {
	cfg := &Config{
		sessionSettings: make(map[string]string),
	}

	// Test getting a value that doesn't exist
	if cfg.Get("nonexistent") != "" {
		t.Errorf("Expected empty string for nonexistent key, got '%s'", cfg.Get("nonexistent"))
	}

	cfg.Set("test", "value")
	if cfg.Get("test") != "value" {
		t.Errorf("Expected 'value', got '%s'", cfg.Get("test"))
	}
}

func TestSessionOverridesPersisted(t *testing.T) {
	cfg := defaultConfig()
	cfg.Settings["name_format"] = "persisted"
	cfg.Set("name_format", "session")

	if got := cfg.Get("name_format"); got != "session" {
		t.Errorf("Expected session value, got '%s'", got)
	}
	if got := cfg.GetAll()["name_format"]; got != "session" {
		t.Errorf("GetAll should prefer session value, got '%s'", got)
	}
}

func TestGetAllReturnsACopy(t *testing.T) {
	cfg := &Config{
		sessionSettings: make(map[string]string),
	}

	cfg.Set("original", "value")

	all := cfg.GetAll()
	all["original"] = "modified"

	if cfg.Get("original") != "value" {
		t.Errorf("GetAll() should return a copy, not a reference")
	}
}

func TestNilSessionSettings(t *testing.T) {
	cfg := &Config{}

	cfg.Set("key", "value")
	if cfg.Get("key") != "value" {
		t.Errorf("Set should initialize nil sessionSettings")
	}

	cfg2 := &Config{}
	if cfg2.Get("key") != "" {
		t.Errorf("Get should return empty string for nil sessionSettings")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	if cfg.ShowingDepth() != DefaultShowingDepth {
		t.Errorf("Expected default showing depth %d, got %d", DefaultShowingDepth, cfg.ShowingDepth())
	}
	if cfg.UndoLimit() != DefaultUndoLimit {
		t.Errorf("Expected default undo limit %d, got %d", DefaultUndoLimit, cfg.UndoLimit())
	}
	if cfg.NameFormat() != DefaultNameFormat {
		t.Errorf("Expected default name format '%s', got '%s'", DefaultNameFormat, cfg.NameFormat())
	}
	if cfg.sessionSettings == nil {
		t.Errorf("defaultConfig should initialize sessionSettings")
	}
}

func TestTypedSettings(t *testing.T) {
	cfg := defaultConfig()

	cfg.Set("showing_depth", "1")
	if cfg.ShowingDepth() != 1 {
		t.Errorf("Expected showing depth 1, got %d", cfg.ShowingDepth())
	}

	cfg.Set("undo_limit", "not a number")
	if cfg.UndoLimit() != DefaultUndoLimit {
		t.Errorf("Malformed undo limit should fall back to default, got %d", cfg.UndoLimit())
	}

	cfg.Set("undo_limit", "-3")
	if cfg.UndoLimit() != DefaultUndoLimit {
		t.Errorf("Negative undo limit should fall back to default, got %d", cfg.UndoLimit())
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
[editor]
showing_depth = 2

[storage]
name_format = "%Y %B"

[settings]
author = "me"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.ShowingDepth() != 2 {
		t.Errorf("Expected showing depth 2, got %d", cfg.ShowingDepth())
	}
	if cfg.UndoLimit() != DefaultUndoLimit {
		t.Errorf("Missing undo limit should keep default, got %d", cfg.UndoLimit())
	}
	if cfg.NameFormat() != "%Y %B" {
		t.Errorf("Expected name format '%%Y %%B', got '%s'", cfg.NameFormat())
	}
	if cfg.Get("author") != "me" {
		t.Errorf("Expected setting 'me', got '%s'", cfg.Get("author"))
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.ShowingDepth() != DefaultShowingDepth {
		t.Errorf("Expected defaults for a missing file")
	}
}

func TestLoadFromInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[editor\nshowing_depth = "), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Errorf("Expected a parse error")
	}
}

func TestSaveToFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := defaultConfig()
	cfg.Editor.ShowingDepth = 3
	cfg.Settings["author"] = "me"
	cfg.Set("session_only", "x")

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}
	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if loaded.ShowingDepth() != 3 {
		t.Errorf("Expected showing depth 3, got %d", loaded.ShowingDepth())
	}
	if loaded.Get("author") != "me" {
		t.Errorf("Persisted setting lost")
	}
	if loaded.Get("session_only") != "" {
		t.Errorf("Session settings must not be persisted")
	}
}
