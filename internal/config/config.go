package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"repolearn/internal/pathutil"
)

// Config mirrors config.yaml. The file is required: analysis targets, the
// output directory, and model context windows all come from it, so a missing
// or unparsable file is a fatal startup error rather than a silent default.
type Config struct {
	Paths    Paths    `yaml:"paths"`
	Models   Models   `yaml:"models"`
	Analysis Analysis `yaml:"analysis"`
	LLM      LLM      `yaml:"llm"`
}

type Paths struct {
	OutputDir string `yaml:"output_dir"`
}

type Models struct {
	DefaultModel    string           `yaml:"default_model"`
	AvailableModels map[string]Model `yaml:"available_models"`
}

type Model struct {
	ContextWindow int `yaml:"context_window"`
}

type Analysis struct {
	MaxFiles       int    `yaml:"max_files"`
	MaxPromptChars int    `yaml:"max_prompt_chars"`
	Tokenizer      string `yaml:"tokenizer"`
}

type LLM struct {
	BaseURL string `yaml:"base_url"`
}

const (
	DefaultFileName       = "config.yaml"
	defaultMaxPromptChars = 15000
	defaultTokenizer      = "cl100k_base"
	defaultBaseURL        = "http://localhost:11434"
)

func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("configuration file not found at %s", path)
		}
		return Config{}, fmt.Errorf("read configuration file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration file %s: %w", path, err)
	}

	if cfg.Paths.OutputDir == "" {
		return Config{}, fmt.Errorf("configuration file %s: paths.output_dir is required", path)
	}
	if cfg.Models.DefaultModel == "" {
		return Config{}, fmt.Errorf("configuration file %s: models.default_model is required", path)
	}
	if cfg.Analysis.MaxPromptChars == 0 {
		cfg.Analysis.MaxPromptChars = defaultMaxPromptChars
	}
	if cfg.Analysis.Tokenizer == "" {
		cfg.Analysis.Tokenizer = defaultTokenizer
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = defaultBaseURL
	}

	return cfg, nil
}

func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// OutputDir returns the output directory with ~ expanded and made absolute
// against the current working directory.
func (c Config) OutputDir() string {
	dir := pathutil.ExpandHome(c.Paths.OutputDir)
	if !filepath.IsAbs(dir) {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
	}
	return dir
}

// ContextWindow resolves the context window for a model name. The second
// return is false when the model is not configured or carries no window.
func (c Config) ContextWindow(model string) (int, bool) {
	m, ok := c.Models.AvailableModels[model]
	if !ok || m.ContextWindow <= 0 {
		return 0, false
	}
	return m.ContextWindow, true
}
