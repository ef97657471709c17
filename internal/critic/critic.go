package critic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"opaemu-backend/internal/config"
	"opaemu-backend/internal/model"
	"opaemu-backend/pkg/logger"
)

// Provider writes the language-model half of a critique: the one-line
// summary, the highlight list and the suggestion.
type Provider interface {
	Advise(ctx context.Context, input model.AdviceInput) (*model.LLMAdvice, error)
	Close() error
}

// NewProvider selects the configured model backend.
func NewProvider(cfg config.CriticConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAIProvider(cfg.OpenAI), nil
	case "gemini":
		return newGeminiProvider(cfg.Gemini)
	default:
		return nil, fmt.Errorf("unsupported critic provider: %s", cfg.Provider)
	}
}

const systemPrompt = "You are a warm, encouraging fashion stylist reviewing a photo of " +
	"someone's outfit. You are given the vision model's scores and, possibly, a note " +
	"from the user. Respond with a JSON object only, no prose around it, with the keys " +
	`"one_line_summary" (string), "positive_points" (array of short strings) and ` +
	`"suggestion" (string). Keep every string under 120 characters.`

func buildPrompt(input model.AdviceInput) string {
	var b strings.Builder

	b.WriteString("Vision scores for the outfit photo:\n")
	b.WriteString("- aesthetics: " + scoreText(input.Analysis.AestheticsScore) + "\n")
	b.WriteString("- compatibility: " + scoreText(input.Analysis.CompatibilityScore) + "\n")

	if note := strings.TrimSpace(input.UserNote); note != "" {
		b.WriteString("The user added: " + note + "\n")
	}

	b.WriteString("Write the critique JSON now.")
	return b.String()
}

func scoreText(f model.FlexFloat) string {
	if !f.Valid {
		return "unavailable"
	}
	return fmt.Sprintf("%.2f", f.Value)
}

// decodeAdvice parses the model output. Models wrap JSON in code fences or
// slip into prose often enough that both get handled here: fences are
// stripped, and unparseable output is kept whole as the suggestion so the
// user still sees something.
func decodeAdvice(content string) *model.LLMAdvice {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var advice model.LLMAdvice
	if err := json.Unmarshal([]byte(trimmed), &advice); err != nil {
		logger.Warnf("Critique output was not valid JSON, keeping it as the suggestion: %v", err)
		return &model.LLMAdvice{Suggestion: trimmed}
	}

	return &advice
}
