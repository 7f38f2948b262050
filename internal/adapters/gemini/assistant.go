package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/conf-reminder/internal/config"
	"github.com/mikey/conf-reminder/internal/deadline"
	"github.com/mikey/conf-reminder/internal/utils"
	"go.uber.org/zap"
)

// Assistant extracts deadlines with a Google Gemini model
type Assistant struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewAssistant creates a new Gemini assistant on top of client
func NewAssistant(
	client *genai.Client,
	cfg config.GeminiConfig,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Assistant {
	model := client.GenerativeModel(cfg.ModelName)
	model.SetTemperature(cfg.Temperature)
	model.SetTopP(cfg.TopP)
	model.SetMaxOutputTokens(int32(cfg.MaxTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = genai.NewUserContent(genai.Text(deadline.AssistantSystemPrompt))

	return &Assistant{
		client:        client,
		model:         model,
		modelName:     cfg.ModelName,
		maxBodySize:   cfg.MaxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Close closes the Gemini client
func (a *Assistant) Close() error {
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}

// ExtractDeadlines asks the model to classify the deadlines in text
func (a *Assistant) ExtractDeadlines(ctx context.Context, text string) (map[deadline.Type]deadline.Extracted, error) {
	block := a.textProcessor.ProcessText(text, a.maxBodySize)

	resp, err := a.model.GenerateContent(ctx, genai.Text(deadline.FormatAssistantPrompt(block)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	answer := responseText(resp)
	if answer == "" {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	found, err := deadline.ParseAssistantResponse(answer)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Gemini response: %w", err)
	}

	a.logger.Debug("Gemini extracted deadlines",
		zap.String("model", a.modelName),
		zap.Int("found", len(found)))

	return found, nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String())
}
