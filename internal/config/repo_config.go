package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// RepoOverrides is the optional per-repository overlay loaded from
// .repolearn.toml at the repo root. Repository authors can trim what gets
// packed into the prompt without touching the analyst's own config.
type RepoOverrides struct {
	MaxFiles       *int     `toml:"max_files"`
	IgnorePatterns []string `toml:"ignore_patterns"`
}

func RepoOverridesPath(root string) string {
	if root == "" {
		return ""
	}
	return filepath.Join(root, ".repolearn.toml")
}

// LoadRepoOverrides reads the overlay if present. The second return is false
// when no overlay file exists.
func LoadRepoOverrides(root string) (RepoOverrides, bool, error) {
	path := RepoOverridesPath(root)
	if path == "" {
		return RepoOverrides{}, false, nil
	}

	var overrides RepoOverrides
	if _, err := toml.DecodeFile(path, &overrides); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RepoOverrides{}, false, nil
		}
		return RepoOverrides{}, false, err
	}
	return overrides, true, nil
}

// Apply folds the overlay into an analysis config. Ignore patterns are
// additive. A repo may only tighten max_files: the override wins when the
// analyst asked for unlimited or for more files than the repo allows.
func (o RepoOverrides) Apply(maxFiles int, patterns []string) (int, []string) {
	if o.MaxFiles != nil && *o.MaxFiles > 0 {
		if maxFiles == 0 || *o.MaxFiles < maxFiles {
			maxFiles = *o.MaxFiles
		}
	}
	return maxFiles, append(patterns, o.IgnorePatterns...)
}
