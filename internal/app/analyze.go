package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"repolearn/internal/config"
	"repolearn/internal/gitrepo"
	"repolearn/internal/history"
	"repolearn/internal/llm"
	"repolearn/internal/prompt"
	"repolearn/internal/render"
	"repolearn/internal/token"
)

func runAnalyze(args []string, globals globalFlags, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(errOut)
	outputFile := fs.String("output-file", "", "File to save the analysis output")
	maxFilesFlag := fs.Int("max-files", -1, "Maximum number of files to include (0 = unlimited)")
	positional, flagArgs, err := splitFlagArgs(args, map[string]flagSpec{
		"output-file": {RequiresValue: true},
		"max-files":   {RequiresValue: true},
	})
	if err != nil {
		fmt.Fprintln(errOut, err.Error())
		return 2
	}
	if err := fs.Parse(flagArgs); err != nil {
		return 2
	}

	url := strings.TrimSpace(strings.Join(positional, " "))
	if url == "" {
		fmt.Fprintln(errOut, "missing repository URL")
		return 2
	}

	cfg, err := loadConfig(globals)
	if err != nil {
		fmt.Fprintf(errOut, "config error: %v\n", err)
		return 1
	}

	maxFiles := cfg.Analysis.MaxFiles
	if *maxFilesFlag >= 0 {
		maxFiles = *maxFilesFlag
	}

	outputDir := cfg.OutputDir()
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(errOut, "output directory error: %v\n", err)
		return 1
	}

	logger := newLogger(errOut, globals.Debug)

	normalized, ok := gitrepo.NormalizeURL(url)
	if !ok {
		fmt.Fprintf(errOut, "Warning: couldn't normalize URL: %s\n", url)
	}
	repoName := gitrepo.RepoName(normalized)

	if last, err := lastRunFor(cfg, repoName); err == nil {
		fmt.Fprintf(out, "Last analyzed %s with %s\n",
			last.CreatedAt.Local().Format("2006-01-02 15:04"), last.Model)
	}

	fmt.Fprintf(out, "Cloning repository: %s\n", normalized)
	repoDir, err := gitrepo.CloneOrPull(normalized, outputDir)
	if err != nil {
		fmt.Fprintf(errOut, "clone error: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Repository ready at: %s\n", repoDir)

	result, err := analyzeRepository(analyzeParams{
		cfg:       cfg,
		repoDir:   repoDir,
		repoName:  repoName,
		model:     cfg.Models.DefaultModel,
		maxFiles:  maxFiles,
		outputDir: outputDir,
		logger:    logger,
		out:       out,
		errOut:    errOut,
	})
	if err != nil {
		fmt.Fprintf(errOut, "analysis error: %v\n", err)
		return 1
	}

	outputPath := *outputFile
	if outputPath == "" {
		outputPath = nextAnalysisPath(outputDir, repoName)
	}
	if err := os.WriteFile(outputPath, []byte(result.Document), 0o644); err != nil {
		fmt.Fprintf(errOut, "write analysis: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Analysis saved to: %s\n", outputPath)

	recordRun(cfg, history.Run{
		RunID:        uuid.NewString(),
		RepoName:     repoName,
		RepoURL:      normalized,
		Model:        result.Model,
		InputTokens:  result.Budget.InputTokens,
		OutputBudget: result.Budget.AvailableOutputTokens,
		Status:       result.Status,
		OutputPath:   outputPath,
		CreatedAt:    time.Now(),
	}, errOut)

	return 0
}

type analyzeParams struct {
	cfg       config.Config
	repoDir   string
	repoName  string
	model     string
	maxFiles  int
	outputDir string
	logger    *slog.Logger
	out       io.Writer
	errOut    io.Writer
}

type analyzeResult struct {
	Document string
	Model    string
	Budget   prompt.Budget
	Status   string
}

// analyzeRepository runs the pipeline from file selection through model
// invocation. Only an unreadable repository directory is returned as an
// error; every later failure is rendered into the document so a run always
// produces a written artifact.
func analyzeRepository(p analyzeParams) (analyzeResult, error) {
	// The local-runtime prefix is not part of the model's registered name.
	modelName := llm.StripLocalPrefix(p.model)
	header := fmt.Sprintf("# %s github repo reviewed by %s\n\n", p.repoName, modelName)

	maxFiles := p.maxFiles
	var extraPatterns []string
	overrides, found, err := config.LoadRepoOverrides(p.repoDir)
	if err != nil {
		fmt.Fprintf(p.errOut, "Warning: could not read %s: %v\n", config.RepoOverridesPath(p.repoDir), err)
	} else if found {
		maxFiles, extraPatterns = overrides.Apply(maxFiles, nil)
		p.logger.Debug("applied repo overrides", "max_files", maxFiles, "extra_patterns", len(extraPatterns))
	}

	sel, err := selectFiles(p.repoDir, maxFiles, extraPatterns)
	if err != nil {
		return analyzeResult{}, err
	}
	if sel.Dropped > 0 {
		fmt.Fprintf(p.errOut, "Warning: file cap reached, %d files dropped from the prompt\n", sel.Dropped)
	}
	p.logger.Debug("selected files", "count", len(sel.Files), "dropped", sel.Dropped)

	bundle, err := render.Files(p.repoDir, sel.Files)
	if err != nil {
		doc := header + fmt.Sprintf("Error assembling repository content: %v\n", err)
		return analyzeResult{Document: doc, Model: modelName, Status: history.StatusError}, nil
	}

	// Cross-check the tracked file list against a reverse parse of the
	// rendered blob. A mismatch means the rendered format drifted; the
	// analysis proceeds on the tracked list either way.
	extracted := render.Extract(bundle.CombinedText, p.repoDir)
	if len(extracted) != len(bundle.IncludedFiles) {
		fmt.Fprintf(p.errOut, "Warning: embedded file audit mismatch (tracked %d, extracted %d)\n",
			len(bundle.IncludedFiles), len(extracted))
	}

	if err := writeAuditFile(p.outputDir, p.repoName, bundle); err != nil {
		fmt.Fprintf(p.errOut, "Warning: could not save input text file: %v\n", err)
	}

	counter, err := token.New(p.cfg.Analysis.Tokenizer)
	if err != nil {
		fmt.Fprintf(p.errOut, "Warning: tokenizer unavailable, cannot estimate tokens: %v\n", err)
		counter = nil
	}

	window, windowKnown := p.cfg.ContextWindow(modelName)
	var budgetCounter prompt.TokenCounter
	if counter != nil {
		budgetCounter = counter
	}
	budget := prompt.ComputeBudget(budgetCounter, bundle.CombinedText, window, windowKnown)
	if !windowKnown {
		fmt.Fprintf(p.errOut, "Warning: no context_window configured for model %q, output budget unknown\n", modelName)
	}
	if budget.Known() {
		p.logger.Debug("token budget",
			"input_tokens", budget.InputTokens,
			"context_window", budget.ContextWindow,
			"available_output_tokens", budget.AvailableOutputTokens)
	}

	systemText := prompt.Finalize(budget)

	doc, status := invokeModel(invokeParams{
		cfg:       p.cfg,
		modelName: modelName,
		header:    header,
		userText:  bundle.CombinedText,
		system:    systemText,
		budget:    budget,
		logger:    p.logger,
		out:       p.out,
	})

	return analyzeResult{Document: doc, Model: modelName, Budget: budget, Status: status}, nil
}

type invokeParams struct {
	cfg       config.Config
	modelName string
	header    string
	userText  string
	system    string
	budget    prompt.Budget
	logger    *slog.Logger
	out       io.Writer
}

// Model families that reject an explicit generation ceiling.
var noCeilingPrefixes = []string{"gemini-"}

func acceptsCeiling(model string) bool {
	for _, prefix := range noCeilingPrefixes {
		if strings.HasPrefix(model, prefix) {
			return false
		}
	}
	return true
}

// invokeModel sends the prompt to the model and wraps the outcome with the
// analysis header. It has exactly two terminal states: a success document or
// an error document; either way the caller gets something to write.
func invokeModel(p invokeParams) (string, string) {
	// Fail-fast guard, measured in raw characters rather than tokens so it
	// still catches pathological inputs when token estimation failed.
	if len(p.userText) > p.cfg.Analysis.MaxPromptChars {
		doc := p.header + fmt.Sprintf(
			"Error generating analysis: combined prompt is %d characters, exceeding the %d character limit (analysis.max_prompt_chars). No model call was made.\n",
			len(p.userText), p.cfg.Analysis.MaxPromptChars)
		return doc, history.StatusError
	}

	maxTokens := 0
	if p.budget.Known() && acceptsCeiling(p.modelName) {
		maxTokens = p.budget.AvailableOutputTokens
	}

	fmt.Fprintf(p.out, "[%s] Generating AI analysis...\n", time.Now().Format("15:04:05"))
	client := llm.NewClient(p.cfg.LLM.BaseURL, p.logger)
	text, err := client.Generate(context.Background(), llm.GenerateRequest{
		Model:     p.modelName,
		System:    p.system,
		Prompt:    p.userText,
		MaxTokens: maxTokens,
	})
	if err != nil {
		doc := p.header + fmt.Sprintf("Error generating analysis: %v\n\n", err)
		doc += fmt.Sprintf("Make sure the model '%s' is available.\n", p.modelName)
		doc += fmt.Sprintf("You can install local models with: `ollama pull %s`\n", p.modelName)
		if errors.Is(err, llm.ErrContextOverflow) {
			doc += "\nWarning: Repository content likely exceeds model context length.\n"
			doc += "Consider using a model with a larger context window.\n"
		}
		return doc, history.StatusError
	}

	return p.header + text, history.StatusSuccess
}

// lastRunFor looks up the previous run for a repository. Absence of the
// history store is reported as an error like any other miss.
func lastRunFor(cfg config.Config, repoName string) (history.Run, error) {
	path := historyPath(cfg)
	if _, err := os.Stat(path); err != nil {
		return history.Run{}, err
	}
	store, err := history.Open(path)
	if err != nil {
		return history.Run{}, err
	}
	defer store.Close()
	return store.LastRun(repoName)
}

// recordRun appends the run to the history store. Best-effort: a history
// failure never fails the analysis.
func recordRun(cfg config.Config, run history.Run, errOut io.Writer) {
	store, err := history.Open(historyPath(cfg))
	if err != nil {
		fmt.Fprintf(errOut, "Warning: could not open run history: %v\n", err)
		return
	}
	defer store.Close()

	if err := store.InsertRun(run); err != nil {
		fmt.Fprintf(errOut, "Warning: could not record run: %v\n", err)
	}
}
