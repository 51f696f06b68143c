package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"repolearn/internal/render"
)

// nextAnalysisPath picks the next versioned output file for a repository:
// one past the highest {repo}-analysis-v{N}.md already present. Gaps are
// fine; v1 and v3 on disk yield v4.
func nextAnalysisPath(outputDir, repoName string) string {
	prefix := repoName + "-analysis-v"
	highest := 0

	entries, err := os.ReadDir(outputDir)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".md") {
				continue
			}
			version := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".md")
			n, err := strconv.Atoi(version)
			if err != nil || n <= 0 {
				continue
			}
			if n > highest {
				highest = n
			}
		}
	}

	return filepath.Join(outputDir, fmt.Sprintf("%s-analysis-v%d.md", repoName, highest+1))
}

func auditPath(outputDir, repoName string) string {
	return filepath.Join(outputDir, repoName+"-input-text.md")
}

// writeAuditFile records which files were embedded in the prompt plus the
// combined content itself, for traceability. Overwrites any earlier audit
// for the same repository.
func writeAuditFile(outputDir, repoName string, bundle render.Bundle) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Input Files for %s Analysis\n\n", repoName)
	b.WriteString("## Files Analyzed\n\n")
	for _, rel := range bundle.IncludedFiles {
		fmt.Fprintf(&b, "- `%s`\n", rel)
	}
	fmt.Fprintf(&b, "\n## Combined File Content\n\n%s\n", bundle.CombinedText)

	return os.WriteFile(auditPath(outputDir, repoName), []byte(b.String()), 0o644)
}
