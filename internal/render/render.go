// Package render turns an ordered list of repository files into a single
// markdown blob: each file becomes a relative-path header line followed by a
// fenced code block, in the order given.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"repolearn/internal/pathutil"
)

// Bundle is the rendered prompt plus the files that actually made it in.
// IncludedFiles is recorded while rendering; every entry appears verbatim as
// a header line immediately before a fence inside CombinedText.
type Bundle struct {
	CombinedText  string
	IncludedFiles []string
}

var languageByExt = map[string]string{
	".go":    "go",
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".rb":    "ruby",
	".rs":    "rust",
	".java":  "java",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".sh":    "bash",
	".sql":   "sql",
	".html":  "html",
	".css":   "css",
	".md":    "markdown",
	".json":  "json",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
	".xml":   "xml",
	".proto": "protobuf",
}

// Files renders the given absolute paths, resolved against root for the
// header lines. A file that cannot be read fails the whole render: by that
// point every path has already been screened by the selector, so a read
// error means the tree changed underneath us.
func Files(root string, paths []string) (Bundle, error) {
	var b strings.Builder
	included := make([]string, 0, len(paths))

	for _, path := range paths {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return Bundle{}, fmt.Errorf("relativize %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		data, err := os.ReadFile(path)
		if err != nil {
			return Bundle{}, fmt.Errorf("read %s: %w", rel, err)
		}
		content := string(data)

		fence := fenceFor(content)
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(rel)
		b.WriteString("\n")
		b.WriteString(fence)
		b.WriteString(languageByExt[strings.ToLower(filepath.Ext(path))])
		b.WriteString("\n")
		b.WriteString(content)
		if !strings.HasSuffix(content, "\n") {
			b.WriteString("\n")
		}
		b.WriteString(fence)
		b.WriteString("\n")

		included = append(included, rel)
	}

	return Bundle{CombinedText: b.String(), IncludedFiles: included}, nil
}

// fenceFor widens the fence past the longest backtick run in the content so
// embedded markdown cannot close the block early.
func fenceFor(content string) string {
	longest := 0
	run := 0
	for _, r := range content {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	width := 3
	if longest >= 3 {
		width = longest + 1
	}
	return strings.Repeat("`", width)
}

// Extract re-parses a rendered blob and recovers the embedded file list. A
// line counts as a file header when it is not indented, is not a fence or
// separator, and the immediately following line opens a fence; the line must
// also resolve to an existing file inside root. Used as a cross-check
// against Files' tracked list: if the rendered format ever drifts, this
// yields a partial or empty list rather than an error.
func Extract(combined, root string) []string {
	lines := strings.Split(combined, "\n")
	var files []string

	for i, line := range lines {
		if line == "" || strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			continue
		}
		if strings.HasPrefix(line, "`") || strings.HasPrefix(line, "---") {
			continue
		}
		if i+1 >= len(lines) || !strings.HasPrefix(lines[i+1], "```") {
			continue
		}
		full := filepath.Join(root, filepath.FromSlash(line))
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			continue
		}
		if !pathutil.Within(root, full) {
			continue
		}
		files = append(files, filepath.ToSlash(line))
	}

	return files
}
