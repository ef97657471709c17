package critic

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"opaemu-backend/internal/config"
	"opaemu-backend/internal/model"
	"opaemu-backend/pkg/logger"
)

type openAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

func newOpenAIProvider(cfg config.OpenAIConfig) *openAIProvider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient.Timeout = cfg.Timeout
	}

	return &openAIProvider{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
	}
}

func (p *openAIProvider) Advise(ctx context.Context, input model.AdviceInput) (*model.LLMAdvice, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: p.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(input)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	logger.Debugf("OpenAI critique tokens used: %d", resp.Usage.TotalTokens)
	return decodeAdvice(resp.Choices[0].Message.Content), nil
}

func (p *openAIProvider) Close() error {
	return nil
}
