package app

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"repolearn/internal/config"
	"repolearn/internal/gitrepo"
	"repolearn/internal/history"
)

func runList(args []string, globals globalFlags, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(errOut)
	limit := fs.Int("limit", 10, "Number of recent runs to show")
	_, flagArgs, err := splitFlagArgs(args, map[string]flagSpec{
		"limit": {RequiresValue: true},
	})
	if err != nil {
		fmt.Fprintln(errOut, err.Error())
		return 2
	}
	if err := fs.Parse(flagArgs); err != nil {
		return 2
	}

	cfg, err := loadConfig(globals)
	if err != nil {
		fmt.Fprintf(errOut, "config error: %v\n", err)
		return 1
	}

	outputDir := cfg.OutputDir()
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		fmt.Fprintln(out, "No repositories have been analyzed yet.")
		return 0
	}

	var repos []string
	for _, entry := range entries {
		if entry.IsDir() && gitrepo.HasClone(filepath.Join(outputDir, entry.Name())) {
			repos = append(repos, entry.Name())
		}
	}

	if len(repos) == 0 {
		fmt.Fprintln(out, "No repositories have been analyzed yet.")
	} else {
		fmt.Fprintln(out, "Analyzed repositories:")
		for _, name := range repos {
			status := "⚠"
			if hasAnalysisFile(entries, name) {
				status = "✓"
			}
			fmt.Fprintf(out, "- %s %s\n", name, status)
		}
	}

	printRecentRuns(cfg, *limit, out)
	return 0
}

func hasAnalysisFile(entries []os.DirEntry, repoName string) bool {
	prefix := repoName + "-analysis-v"
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".md") {
			return true
		}
	}
	return false
}

// printRecentRuns shows the run history when a history store exists.
// Absence of history is not an error: the store appears on first analyze.
func printRecentRuns(cfg config.Config, limit int, out io.Writer) {
	path := historyPath(cfg)
	if _, err := os.Stat(path); err != nil {
		return
	}

	store, err := history.Open(path)
	if err != nil {
		return
	}
	defer store.Close()

	runs, err := store.RecentRuns(limit)
	if err != nil || len(runs) == 0 {
		return
	}

	fmt.Fprintln(out, "\nRecent runs:")
	for _, run := range runs {
		budget := "unknown"
		if run.OutputBudget >= 0 {
			budget = fmt.Sprintf("%d", run.OutputBudget)
		}
		fmt.Fprintf(out, "- %s  %s  model=%s  input_tokens=%d  output_budget=%s  %s\n",
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.RepoName, run.Model, run.InputTokens, budget, run.Status)
	}
}
