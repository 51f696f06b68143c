package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleConfig = `
paths:
  output_dir: ./learnings
models:
  default_model: llama3.1:8b
  available_models:
    "llama3.1:8b":
      context_window: 131072
    "mistral:7b":
      context_window: 32768
analysis:
  max_files: 25
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Paths.OutputDir != "./learnings" {
		t.Errorf("output_dir = %q", cfg.Paths.OutputDir)
	}
	if cfg.Models.DefaultModel != "llama3.1:8b" {
		t.Errorf("default_model = %q", cfg.Models.DefaultModel)
	}
	if cfg.Analysis.MaxFiles != 25 {
		t.Errorf("max_files = %d, want 25", cfg.Analysis.MaxFiles)
	}

	// Defaults fill unset fields.
	if cfg.Analysis.MaxPromptChars != 15000 {
		t.Errorf("max_prompt_chars default = %d, want 15000", cfg.Analysis.MaxPromptChars)
	}
	if cfg.Analysis.Tokenizer != "cl100k_base" {
		t.Errorf("tokenizer default = %q", cfg.Analysis.Tokenizer)
	}
	if cfg.LLM.BaseURL == "" {
		t.Errorf("llm base_url default missing")
	}
}

func TestLoadMissingFileIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "paths: [unclosed")); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestLoadMissingRequiredKeys(t *testing.T) {
	if _, err := Load(writeConfig(t, "paths:\n  output_dir: ./x\n")); err == nil {
		t.Fatal("expected error when default_model missing")
	}
	if _, err := Load(writeConfig(t, "models:\n  default_model: m\n")); err == nil {
		t.Fatal("expected error when output_dir missing")
	}
}

func TestContextWindow(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatal(err)
	}

	window, ok := cfg.ContextWindow("mistral:7b")
	if !ok || window != 32768 {
		t.Errorf("ContextWindow(mistral:7b) = %d, %v", window, ok)
	}
	if _, ok := cfg.ContextWindow("unknown-model"); ok {
		t.Errorf("expected unknown model to be unresolved")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	cfg.Models.DefaultModel = "mistral:7b"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Models.DefaultModel != "mistral:7b" {
		t.Errorf("default_model after save = %q", reloaded.Models.DefaultModel)
	}
	if window, ok := reloaded.ContextWindow("llama3.1:8b"); !ok || window != 131072 {
		t.Errorf("context window lost in round trip: %d, %v", window, ok)
	}
}

func TestRepoOverrides(t *testing.T) {
	root := t.TempDir()

	// No overlay file.
	_, found, err := LoadRepoOverrides(root)
	if err != nil || found {
		t.Fatalf("expected no overlay, got found=%v err=%v", found, err)
	}

	overlay := "max_files = 10\nignore_patterns = [\"*.gen.go\", \"testdata/\"]\n"
	if err := os.WriteFile(RepoOverridesPath(root), []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}

	overrides, found, err := LoadRepoOverrides(root)
	if err != nil || !found {
		t.Fatalf("LoadRepoOverrides: found=%v err=%v", found, err)
	}

	maxFiles, patterns := overrides.Apply(0, nil)
	if maxFiles != 10 {
		t.Errorf("unlimited should tighten to 10, got %d", maxFiles)
	}
	if len(patterns) != 2 || patterns[0] != "*.gen.go" {
		t.Errorf("patterns = %v", patterns)
	}

	// A repo can only tighten, never loosen.
	if maxFiles, _ = overrides.Apply(5, nil); maxFiles != 5 {
		t.Errorf("override loosened max_files to %d", maxFiles)
	}
	if maxFiles, _ = overrides.Apply(50, nil); maxFiles != 10 {
		t.Errorf("override should tighten 50 to 10, got %d", maxFiles)
	}
}
