package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"repolearn/internal/gitrepo"
)

func runCleanup(args []string, globals globalFlags, out, errOut io.Writer) int {
	positional, _, err := splitFlagArgs(args, nil)
	if err != nil {
		fmt.Fprintln(errOut, err.Error())
		return 2
	}

	cfg, err := loadConfig(globals)
	if err != nil {
		fmt.Fprintf(errOut, "config error: %v\n", err)
		return 1
	}

	outputDir := cfg.OutputDir()
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		fmt.Fprintf(out, "Output directory not found: %s\n", outputDir)
		return 0
	}

	repoName := strings.TrimSpace(strings.Join(positional, " "))
	if repoName != "" {
		return cleanupOne(outputDir, repoName, out, errOut)
	}
	return cleanupAll(outputDir, out, errOut)
}

// cleanupOne removes one cloned repository and its audit file. Analysis
// files stay: they are the product, the clone is scratch.
func cleanupOne(outputDir, repoName string, out, errOut io.Writer) int {
	repoDir := filepath.Join(outputDir, repoName)
	info, err := os.Stat(repoDir)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(out, "Repository not found at: %s\n", repoDir)
		return 0
	}

	if err := os.RemoveAll(repoDir); err != nil {
		fmt.Fprintf(errOut, "remove %s: %v\n", repoDir, err)
		return 1
	}
	fmt.Fprintf(out, "Removed repository: %s\n", repoDir)

	if err := os.Remove(auditPath(outputDir, repoName)); err == nil {
		fmt.Fprintf(out, "Removed audit file: %s\n", auditPath(outputDir, repoName))
	}
	return 0
}

func cleanupAll(outputDir string, out, errOut io.Writer) int {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		fmt.Fprintf(errOut, "list output directory: %v\n", err)
		return 1
	}

	removed := 0
	failed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		repoDir := filepath.Join(outputDir, entry.Name())
		if !gitrepo.HasClone(repoDir) {
			continue
		}
		if err := os.RemoveAll(repoDir); err != nil {
			fmt.Fprintf(errOut, "remove %s: %v\n", entry.Name(), err)
			failed++
			continue
		}
		os.Remove(auditPath(outputDir, entry.Name()))
		fmt.Fprintf(out, "- Removed: %s\n", entry.Name())
		removed++
	}

	if removed == 0 {
		fmt.Fprintln(out, "No cloned repositories found to remove.")
	} else {
		fmt.Fprintf(out, "Removed %d repositories.\n", removed)
	}
	if failed > 0 {
		fmt.Fprintf(errOut, "Encountered %d errors during cleanup.\n", failed)
		return 1
	}
	return 0
}
