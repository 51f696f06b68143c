package prompt

import (
	"math"
	"strconv"
	"strings"
)

// UnknownOutputTokens is the sentinel budget used when the context window or
// the token estimate cannot be resolved. The pipeline proceeds regardless.
const UnknownOutputTokens = -1

// outputMargin holds back a fraction of the remaining window as a safety
// margin against estimation error. Tunable constant, not derived.
const outputMargin = 0.9

type TokenCounter interface {
	Count(text string) int
}

// Budget is the token arithmetic for one run.
type Budget struct {
	InputTokens           int
	ContextWindow         int
	AvailableOutputTokens int
}

func (b Budget) Known() bool {
	return b.AvailableOutputTokens != UnknownOutputTokens
}

// ComputeBudget estimates input tokens for the combined file content plus
// the instruction template and derives the remaining output budget.
//
// Accounting rule: the template is counted exactly once, appended after the
// file content, and that single figure is the only input-token number used
// anywhere downstream. (Earlier revisions of this tool disagreed with
// themselves about counting it twice.)
//
// counter may be nil when the tokenizer could not be loaded; the budget then
// degrades to the unknown sentinel instead of failing the run.
func ComputeBudget(counter TokenCounter, combinedText string, contextWindow int, windowKnown bool) Budget {
	if counter == nil {
		return Budget{AvailableOutputTokens: UnknownOutputTokens}
	}

	inputTokens := counter.Count(combinedText + "\n\n" + AnalysisTemplate)
	if !windowKnown {
		return Budget{
			InputTokens:           inputTokens,
			AvailableOutputTokens: UnknownOutputTokens,
		}
	}

	available := int(math.Floor(float64(contextWindow-inputTokens) * outputMargin))
	if available < 0 {
		available = 0
	}
	return Budget{
		InputTokens:           inputTokens,
		ContextWindow:         contextWindow,
		AvailableOutputTokens: available,
	}
}

// Finalize produces the system text for the model. A known budget replaces
// the marker with its decimal value; an unknown budget drops the marker line
// entirely and appends a plain-text warning.
func Finalize(b Budget) string {
	if b.Known() {
		return strings.ReplaceAll(AnalysisTemplate, OutputTokensMarker, strconv.Itoa(b.AvailableOutputTokens))
	}

	lines := strings.Split(AnalysisTemplate, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.Contains(line, OutputTokensMarker) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n") + "\nWarning: Output token limit could not be determined."
}
