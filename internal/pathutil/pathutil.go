package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Canonical returns a cleaned, symlink-resolved path when possible.
// It is best-effort: if the full path doesn't exist, it resolves the deepest
// existing parent and joins the remaining suffix, which keeps results stable
// under macOS symlinks like /tmp -> /private/tmp.
func Canonical(path string) string {
	clean := filepath.Clean(strings.TrimSpace(path))
	if clean == "" || clean == "." {
		return clean
	}
	if resolved, err := filepath.EvalSymlinks(clean); err == nil {
		return filepath.Clean(resolved)
	}

	prefix := clean
	suffix := ""
	for {
		if _, err := os.Lstat(prefix); err == nil {
			if resolvedPrefix, err := filepath.EvalSymlinks(prefix); err == nil {
				if suffix == "" {
					return filepath.Clean(resolvedPrefix)
				}
				return filepath.Clean(filepath.Join(resolvedPrefix, suffix))
			}
			break
		}
		dir := filepath.Dir(prefix)
		if dir == prefix {
			break
		}
		base := filepath.Base(prefix)
		if suffix == "" {
			suffix = base
		} else {
			suffix = filepath.Join(base, suffix)
		}
		prefix = dir
	}

	return clean
}

// ExpandHome replaces a leading ~ or ~/ with the current user's home
// directory. Paths without the shorthand come back unchanged.
func ExpandHome(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~\\") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// Within reports whether path resolves to a location inside root. Both are
// canonicalized first, so symlinked roots and "../" escapes compare sanely.
func Within(root, path string) bool {
	canonRoot := Canonical(root)
	canonPath := Canonical(path)
	if canonRoot == "" || canonPath == "" {
		return false
	}
	if canonPath == canonRoot {
		return true
	}
	rel, err := filepath.Rel(canonRoot, canonPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
