package openai

import (
	"context"
	"fmt"

	"github.com/mikey/conf-reminder/internal/config"
	"github.com/mikey/conf-reminder/internal/deadline"
	"github.com/mikey/conf-reminder/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Assistant extracts deadlines with an OpenAI chat model
type Assistant struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewAssistant creates a new OpenAI assistant
func NewAssistant(
	client *openai.Client,
	cfg config.OpenAIConfig,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Assistant {
	return &Assistant{
		client:        client,
		modelName:     cfg.ModelName,
		maxTokens:     cfg.MaxTokens,
		temperature:   cfg.Temperature,
		topP:          cfg.TopP,
		maxBodySize:   cfg.MaxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// ExtractDeadlines asks the model to classify the deadlines in text
func (a *Assistant) ExtractDeadlines(ctx context.Context, text string) (map[deadline.Type]deadline.Extracted, error) {
	block := a.textProcessor.ProcessText(text, a.maxBodySize)

	req := openai.ChatCompletionRequest{
		Model: a.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: deadline.AssistantSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: deadline.FormatAssistantPrompt(block),
			},
		},
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
		TopP:        a.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	found, err := deadline.ParseAssistantResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAI response: %w", err)
	}

	a.logger.Debug("OpenAI extracted deadlines",
		zap.String("model", a.modelName),
		zap.String("request_id", resp.ID),
		zap.Int("found", len(found)))

	return found, nil
}
