package factory

import (
	"context"
	"fmt"

	"github.com/mikey/conf-reminder/internal/adapters/bedrock"
	"github.com/mikey/conf-reminder/internal/adapters/gemini"
	"github.com/mikey/conf-reminder/internal/adapters/openai"
	"github.com/mikey/conf-reminder/internal/config"
	"github.com/mikey/conf-reminder/internal/core"
	"github.com/mikey/conf-reminder/internal/utils"
	"go.uber.org/zap"
)

// LLMFactory creates the optional deadline assistant
type LLMFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *LLMFactory {
	return &LLMFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateAssistant creates a deadline assistant based on the configuration.
// Provider "none" returns a nil assistant and no error.
func (f *LLMFactory) CreateAssistant(ctx context.Context) (core.DeadlineAssistant, error) {
	llmConfig := f.cfg.GetLLM()

	switch llmConfig.Provider {
	case "", "none":
		f.logger.Info("LLM assistant disabled")
		return nil, nil
	case "bedrock":
		a, err := bedrock.NewFactory(f.cfg.GetBedrock(), f.logger, f.textProcessor).CreateAssistant(ctx)
		if err != nil {
			return nil, err
		}
		return a, nil
	case "gemini":
		a, err := gemini.NewFactory(f.cfg.GetGemini(), f.logger, f.textProcessor).CreateAssistant(ctx)
		if err != nil {
			return nil, err
		}
		return a, nil
	case "openai":
		a, err := openai.NewFactory(f.cfg.GetOpenAI(), f.logger, f.textProcessor).CreateAssistant()
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}
