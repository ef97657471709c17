package history

import (
	"fmt"
	"strings"

	"opaemu-backend/internal/model"
)

const (
	missingAesthetics    = "The aesthetics score could not be retrieved."
	missingCompatibility = "The compatibility score could not be retrieved."
	missingSummary       = "No summary was provided."
	missingHighlights    = "No highlights were provided."
	missingSuggestion    = "No suggestion was provided."
)

// FormatAdvice renders a critique payload as the single text block shown in
// the assistant bubble. Block order is fixed: scores, summary, highlights,
// suggestion, separated by blank lines. A missing or malformed field falls
// back to its placeholder sentence instead of failing the whole bubble.
func FormatAdvice(res *model.AiResult) string {
	if res == nil {
		res = &model.AiResult{}
	}

	blocks := []string{
		"[Score]\n" + scoresBlock(res.Analysis),
		"[Summary]\n" + textOr(res.LLMAdvice.OneLineSummary, missingSummary),
		"[Highlights]\n" + highlightsBlock(res.LLMAdvice.PositivePoints),
		"[Suggestion]\n" + textOr(res.LLMAdvice.Suggestion, missingSuggestion),
	}

	return strings.Join(blocks, "\n\n")
}

func scoresBlock(a model.Analysis) string {
	return scoreLine("Aesthetics", a.AestheticsScore, missingAesthetics) + "\n" +
		scoreLine("Compatibility", a.CompatibilityScore, missingCompatibility)
}

func scoreLine(label string, f model.FlexFloat, placeholder string) string {
	if !f.Valid {
		return placeholder
	}
	return fmt.Sprintf("%s: %.2f", label, f.Value)
}

func highlightsBlock(points model.StringList) string {
	if len(points) == 0 {
		return missingHighlights
	}

	lines := make([]string, len(points))
	for i, p := range points {
		lines[i] = "• " + p
	}
	return strings.Join(lines, "\n")
}

func textOr(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}
