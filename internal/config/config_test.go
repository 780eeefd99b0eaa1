package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
models:
  - title: gpt-4o
    type: mm
    model: gpt-4o
    apiBase: https://api.openai.com/v1
    apiKey: ${SNAPSOLVE_TEST_KEY}
  - title: deepseek
    type: text
    model: deepseek-chat
    apiBase: https://api.deepseek.com/v1
    apiKey: sk-plain
activeOCRModel: gpt-4o
activeSolvingModel: deepseek
imageHost:
  type: imgbb
  apiKey: host-key
storage:
  backend: sqlite
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("SNAPSOLVE_TEST_KEY", "sk-expanded")

	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(cfg.Models))
	}
	if cfg.Models[0].APIKey != "sk-expanded" {
		t.Errorf("expected env-expanded key, got %q", cfg.Models[0].APIKey)
	}
	if cfg.Models[1].APIKey != "sk-plain" {
		t.Errorf("plain key should pass through, got %q", cfg.Models[1].APIKey)
	}
	if cfg.ActiveSolvingModel != "deepseek" {
		t.Errorf("activeSolvingModel = %q", cfg.ActiveSolvingModel)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("storage backend = %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Path == "" {
		t.Error("expected default sqlite path to be filled in")
	}
}

func TestModelByTitle(t *testing.T) {
	cfg := &Config{Models: []Model{
		{Title: "a", Type: ModelMultimodal},
		{Title: "b", Type: ModelText},
	}}

	if m := cfg.ModelByTitle("b"); m == nil || m.Type != ModelText {
		t.Errorf("ModelByTitle(b) = %+v", m)
	}
	if m := cfg.ModelByTitle("missing"); m != nil {
		t.Errorf("expected nil for unknown title, got %+v", m)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
