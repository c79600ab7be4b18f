package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"biblio/internal/config"
	"biblio/internal/suggest"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data.Path == "" {
		t.Error("default data path is empty")
	}
	if cfg.Data.DebounceMS != 300 {
		t.Errorf("debounce default = %d", cfg.Data.DebounceMS)
	}
	if !cfg.Suggestions.Enabled {
		t.Error("suggestions should default to enabled")
	}
	if cfg.Suggestions.Endpoint != suggest.DefaultEndpoint {
		t.Errorf("endpoint default = %q", cfg.Suggestions.Endpoint)
	}
	if cfg.Suggestions.MaxResults != 5 {
		t.Errorf("max_results default = %d", cfg.Suggestions.MaxResults)
	}
}

func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	body := "data:\n  path: ~/books.json\n  debounce_ms: 50\nsuggestions:\n  enabled: false\n  max_results: 3\n"
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	home, _ := os.UserHomeDir()
	if cfg.Data.Path != filepath.Join(home, "books.json") {
		t.Errorf("path = %q, tilde not expanded", cfg.Data.Path)
	}
	if cfg.Data.DebounceMS != 50 {
		t.Errorf("debounce = %d", cfg.Data.DebounceMS)
	}
	if cfg.Suggestions.Enabled {
		t.Error("enabled override ignored")
	}
	if cfg.Suggestions.MaxResults != 3 {
		t.Errorf("max_results = %d", cfg.Suggestions.MaxResults)
	}
}

func TestSave_RoundTripsThroughLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	in := &config.Config{
		Data: config.DataConfig{Path: "/tmp/books.json", DebounceMS: 120},
		Suggestions: config.SuggestionsConfig{
			Enabled:    false,
			Endpoint:   "https://example.com/v1/volumes",
			MaxResults: 2,
		},
	}
	if err := config.Save(path, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Data.Path != in.Data.Path || out.Data.DebounceMS != in.Data.DebounceMS {
		t.Errorf("data section mangled: %+v", out.Data)
	}
	if out.Suggestions != in.Suggestions {
		t.Errorf("suggestions section mangled: %+v", out.Suggestions)
	}
}

func TestLoad_BadFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(":: not yaml ["), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	if got := config.ExpandHome("~/x.json"); got != filepath.Join(home, "x.json") {
		t.Errorf("ExpandHome = %q", got)
	}
	if got := config.ExpandHome("/abs/x.json"); got != "/abs/x.json" {
		t.Errorf("absolute path changed: %q", got)
	}
}
