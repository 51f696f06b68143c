package app

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	ignore "github.com/sabhiram/go-gitignore"
)

// Directories skipped entirely, descendants included. Version-control and
// dependency trees carry no signal for an architecture review, and docs and
// tests mostly restate what the code already says.
var excludedDirs = map[string]struct{}{
	".git":         {},
	".venv":        {},
	"venv":         {},
	"node_modules": {},
	"dist":         {},
	"build":        {},
	"target":       {},
	"docs":         {},
	"doc":          {},
	"tests":        {},
}

// Filenames skipped case-insensitively, shell-glob style.
var excludedFilePatterns = []string{
	"license*",
	"copying*",
	"notice*",
	"contributing*",
	"code_of_conduct*",
	"security.md",
	"changelog*",
	"history*",
	"releases*",
	"*.log",
}

type ignoreMatcher struct {
	matchers []*ignore.GitIgnore
}

func (m ignoreMatcher) Matches(relPath string) bool {
	for _, matcher := range m.matchers {
		if matcher != nil && matcher.MatchesPath(relPath) {
			return true
		}
	}
	return false
}

// loadIgnoreMatcher combines the repository's own .gitignore with any extra
// patterns from the per-repo overlay.
func loadIgnoreMatcher(root string, extraPatterns []string) ignoreMatcher {
	var matchers []*ignore.GitIgnore
	if matcher, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		matchers = append(matchers, matcher)
	}
	if len(extraPatterns) > 0 {
		matchers = append(matchers, ignore.CompileIgnoreLines(extraPatterns...))
	}
	return ignoreMatcher{matchers: matchers}
}

type selection struct {
	Files   []string // absolute paths, walk order
	Dropped int      // eligible files removed by the max-files cap
}

// selectFiles walks root and returns the text files eligible for the
// prompt, in traversal order. maxFiles of 0 means unlimited; otherwise the
// list is truncated to the first maxFiles entries and Dropped records how
// many were cut. An unreadable root is a fatal error.
func selectFiles(root string, maxFiles int, extraPatterns []string) (selection, error) {
	if _, err := os.ReadDir(root); err != nil {
		return selection{}, fmt.Errorf("list repository directory: %w", err)
	}

	matcher := loadIgnoreMatcher(root, extraPatterns)
	var files []string

	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if p == root {
				return nil
			}
			if _, excluded := excludedDirs[name]; excluded {
				return filepath.SkipDir
			}
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if matcher.Matches(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		if matchesExcludedFile(name) {
			return nil
		}
		if matcher.Matches(rel) {
			return nil
		}
		if !isTextFile(p) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return selection{}, err
	}

	sel := selection{Files: files}
	if maxFiles > 0 && len(files) > maxFiles {
		sel.Dropped = len(files) - maxFiles
		sel.Files = files[:maxFiles]
	}
	return sel, nil
}

func matchesExcludedFile(name string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range excludedFilePatterns {
		if ok, _ := path.Match(pattern, lower); ok {
			return true
		}
	}
	return false
}

// isTextFile sniffs the head of the file: a NUL byte or invalid UTF-8 marks
// it binary and silently excludes it.
func isTextFile(p string) bool {
	f, err := os.Open(p)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, 8192)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false
	}
	head := buf[:n]
	if bytes.IndexByte(head, 0) >= 0 {
		return false
	}

	// The sample may end mid-rune; trim at most a rune's worth of trailing
	// bytes before validating so a clean cut doesn't count as binary.
	for i := 0; i < utf8.UTFMax-1 && len(head) > 0 && !utf8.Valid(head); i++ {
		head = head[:len(head)-1]
	}
	return utf8.Valid(head)
}
