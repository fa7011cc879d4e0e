package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected defaults written to %s: %v", path, err)
	}
}

func TestLoadInvalidFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Errorf("config file not rewritten: %s", data)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"clip_per_page": 7, "log_level": "Info"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ClipPerPage != 7 {
		t.Errorf("ClipPerPage = %d, want 7", cfg.ClipPerPage)
	}
	if cfg.LogLevel != LevelInfo {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, LevelInfo)
	}
	if cfg.Language != "en-GB" {
		t.Errorf("Language = %q, want en-GB", cfg.Language)
	}
}

func TestRenameLegacyKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	legacy := `{"clip_per_page":15,"clip_max_show_length":40,"search_clip_per_page":9,"log_level":"Debug"}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := RenameLegacyKeys(path); err != nil {
		t.Fatalf("RenameLegacyKeys() error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SearchClipPerBatch != 9 {
		t.Errorf("SearchClipPerBatch = %d, want 9", cfg.SearchClipPerBatch)
	}
	if cfg.ClipPerPage != 15 || cfg.LogLevel != LevelDebug {
		t.Errorf("carried values lost: %+v", cfg)
	}

	data, _ := os.ReadFile(path)
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["search_clip_per_page"]; ok {
		t.Error("legacy key still present")
	}
}

func TestRenameLegacyKeysMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := RenameLegacyKeys(path); err != nil {
		t.Fatalf("RenameLegacyKeys() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected no config file to be created")
	}
}

func TestSetGet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{"clip_per_page", "30", "30", false},
		{"clip_per_page", "0", "", true},
		{"clip_max_show_length", "abc", "", true},
		{"log_level", "WARN", "warn", false},
		{"log_level", "loud", "", true},
		{"dark_mode", "true", "true", false},
		{"dark_mode", "yes", "", true},
		{"language", "fr-FR", "fr-FR", false},
		{"language", "not a tag!", "", true},
		{"auto_delete_duplicate_clip", "true", "true", false},
		{"pause_monitoring", "false", "false", false},
		{"theme", "dark", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", tt.key, err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestEveryKeyReadable(t *testing.T) {
	cfg := DefaultConfig()
	for _, key := range Keys {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q) error: %v", key, err)
		}
	}
}

func TestGuardUpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	g := NewGuard(DefaultConfig(), path)

	if err := g.Set("clip_per_page", "12"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if got := g.Snapshot().ClipPerPage; got != 12 {
		t.Errorf("Snapshot().ClipPerPage = %d, want 12", got)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.ClipPerPage != 12 {
		t.Errorf("persisted ClipPerPage = %d, want 12", loaded.ClipPerPage)
	}

	if err := g.Set("clip_per_page", "-1"); err == nil {
		t.Error("expected error for invalid value")
	}
	if got := g.Snapshot().ClipPerPage; got != 12 {
		t.Errorf("failed Set changed value to %d", got)
	}
}
