package prompt

import (
	"strconv"
	"strings"
	"testing"
)

// fixedCounter reports a constant count regardless of input, which keeps
// the arithmetic in these tests exact.
type fixedCounter int

func (f fixedCounter) Count(string) int { return int(f) }

func TestComputeBudgetFormula(t *testing.T) {
	b := ComputeBudget(fixedCounter(1000), "content", 10000, true)
	if b.InputTokens != 1000 {
		t.Errorf("InputTokens = %d", b.InputTokens)
	}
	// floor((10000 - 1000) * 0.9) = 8100
	if b.AvailableOutputTokens != 8100 {
		t.Errorf("AvailableOutputTokens = %d, want 8100", b.AvailableOutputTokens)
	}
	if !b.Known() {
		t.Errorf("budget should be known")
	}
}

func TestComputeBudgetClampsToZero(t *testing.T) {
	b := ComputeBudget(fixedCounter(20000), "content", 10000, true)
	if b.AvailableOutputTokens != 0 {
		t.Errorf("negative budget must clamp to 0, got %d", b.AvailableOutputTokens)
	}
	if !b.Known() {
		t.Errorf("clamped budget is still known")
	}
}

func TestComputeBudgetUnknownWindow(t *testing.T) {
	b := ComputeBudget(fixedCounter(1000), "content", 0, false)
	if b.Known() {
		t.Errorf("budget should be unknown without a context window")
	}
	if b.AvailableOutputTokens != UnknownOutputTokens {
		t.Errorf("AvailableOutputTokens = %d, want sentinel", b.AvailableOutputTokens)
	}
	if b.InputTokens != 1000 {
		t.Errorf("input tokens should still be estimated, got %d", b.InputTokens)
	}
}

func TestComputeBudgetNilCounter(t *testing.T) {
	b := ComputeBudget(nil, "content", 10000, true)
	if b.Known() {
		t.Errorf("budget should be unknown without a tokenizer")
	}
}

// wordCounter makes the accounting rule observable: the template must be
// counted exactly once.
type wordCounter struct{ lastInput string }

func (w *wordCounter) Count(text string) int {
	w.lastInput = text
	return len(strings.Fields(text))
}

func TestTemplateCountedOnce(t *testing.T) {
	counter := &wordCounter{}
	ComputeBudget(counter, "file content here", 100000, true)

	if got := strings.Count(counter.lastInput, "expert software architect"); got != 1 {
		t.Errorf("template appears %d times in the counted text, want 1", got)
	}
	if !strings.HasPrefix(counter.lastInput, "file content here\n\n") {
		t.Errorf("counted text does not start with the combined content")
	}
}

func TestFinalizeKnownBudget(t *testing.T) {
	final := Finalize(Budget{InputTokens: 10, ContextWindow: 100, AvailableOutputTokens: 81})

	if strings.Contains(final, OutputTokensMarker) {
		t.Errorf("marker survived substitution")
	}
	if !strings.Contains(final, "must not exceed "+strconv.Itoa(81)+" tokens") {
		t.Errorf("budget value not substituted:\n%s", final)
	}
	if strings.Contains(final, "could not be determined") {
		t.Errorf("warning present on a known budget")
	}
}

func TestFinalizeUnknownBudget(t *testing.T) {
	final := Finalize(Budget{AvailableOutputTokens: UnknownOutputTokens})

	if strings.Contains(final, OutputTokensMarker) {
		t.Errorf("marker line should be removed entirely")
	}
	if !strings.HasSuffix(final, "Warning: Output token limit could not be determined.") {
		t.Errorf("missing warning sentence")
	}
	// Structural sections survive either way.
	for _, section := range []string{"Executive Summary", "Dependencies", "Security Concerns", "Conclusion"} {
		if !strings.Contains(final, section) {
			t.Errorf("section %q lost during finalization", section)
		}
	}
}
