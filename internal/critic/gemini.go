package critic

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"opaemu-backend/internal/config"
	"opaemu-backend/internal/model"
)

type geminiProvider struct {
	client *genai.Client
	model  string
}

func newGeminiProvider(cfg config.GeminiConfig) (*geminiProvider, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiProvider{
		client: client,
		model:  cfg.Model,
	}, nil
}

func (p *geminiProvider) Advise(ctx context.Context, input model.AdviceInput) (*model.LLMAdvice, error) {
	gm := p.client.GenerativeModel(p.model)
	gm.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	resp, err := gm.GenerateContent(ctx, genai.Text(buildPrompt(input)))
	if err != nil {
		return nil, fmt.Errorf("gemini generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	return decodeAdvice(sb.String()), nil
}

func (p *geminiProvider) Close() error {
	return p.client.Close()
}
