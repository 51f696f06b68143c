// Package gitrepo shells out to the git CLI for clone and pull. Version
// control is an external collaborator here: no vendored git implementation,
// just the installed binary.
package gitrepo

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

var urlPatterns = []*regexp.Regexp{
	// Main repo URL: https://github.com/username/repo[/...]
	regexp.MustCompile(`^https?://github\.com/([^/]+/[^/]+?)(?:\.git)?(?:/.*)?$`),
	// SSH URL: git@github.com:username/repo[.git]
	regexp.MustCompile(`^git@github\.com:([^/]+/[^/]+?)(?:\.git)?$`),
}

// NormalizeURL reduces the known GitHub URL shapes (https, https+.git, ssh)
// to the repository's canonical https form. The second return is false when
// no pattern matched and the URL passed through unchanged.
func NormalizeURL(url string) (string, bool) {
	url = strings.TrimSpace(url)
	for _, pattern := range urlPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			repoPath := strings.TrimSuffix(m[1], ".git")
			return "https://github.com/" + repoPath, true
		}
	}
	return url, false
}

// RepoName extracts the repository name from a URL, falling back to
// "unknown-repo" for shapes it cannot parse.
func RepoName(url string) string {
	normalized, _ := NormalizeURL(url)
	normalized = strings.TrimSuffix(normalized, "/")
	parts := strings.Split(normalized, "/")
	if len(parts) >= 5 {
		return strings.TrimSuffix(parts[len(parts)-1], ".git")
	}
	return "unknown-repo"
}

// CloneOrPull clones url into targetDir/<repo-name>, or pulls when a clone
// already exists there. Returns the repository directory.
func CloneOrPull(url, targetDir string) (string, error) {
	normalized, _ := NormalizeURL(url)
	repoDir := filepath.Join(targetDir, RepoName(normalized))
	if err := os.MkdirAll(repoDir, 0o755); err != nil {
		return "", fmt.Errorf("create repo directory %s: %w", repoDir, err)
	}

	if _, err := os.Stat(filepath.Join(repoDir, ".git")); err == nil {
		if _, err := gitRun(repoDir, "pull", "--ff-only"); err != nil {
			return "", fmt.Errorf("pull %s: %w", normalized, err)
		}
		return repoDir, nil
	}

	if _, err := gitRun("", "clone", normalized, repoDir); err != nil {
		return "", fmt.Errorf("clone %s: %w", normalized, err)
	}
	return repoDir, nil
}

// HasClone reports whether dir looks like a git working copy.
func HasClone(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

func gitRun(repoRoot string, args ...string) (string, error) {
	if repoRoot != "" {
		args = append([]string{"-C", repoRoot}, args...)
	}
	cmd := exec.Command("git", args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return stdout.String(), nil
}
