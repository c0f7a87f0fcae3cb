package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/wolfman30/doctor-booking-agent/internal/config"
	"github.com/wolfman30/doctor-booking-agent/internal/conversation"
	"github.com/wolfman30/doctor-booking-agent/pkg/logging"
)

const (
	providerGemini  = "gemini"
	providerBedrock = "bedrock"
)

// BuildLLMClient builds the configured provider as primary. When the other
// provider is also configured it becomes the fallback. The returned cleanup
// releases provider connections.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (conversation.LLMClient, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		gemini  *conversation.GeminiLLMClient
		bedrock conversation.LLMClient
	)
	cleanup := func() {
		if gemini != nil {
			if err := gemini.Close(); err != nil {
				logger.Warn("failed to close gemini client", "error", err)
			}
		}
	}

	if key := strings.TrimSpace(cfg.GeminiAPIKey); key != "" {
		client, err := conversation.NewGeminiLLMClient(ctx, key, cfg.GeminiModelID)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: gemini client: %w", err)
		}
		gemini = client
	}
	if model := strings.TrimSpace(cfg.BedrockModelID); model != "" {
		bedrock = conversation.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg), model)
	}

	var primary, fallback conversation.LLMClient
	switch cfg.LLMProvider {
	case providerGemini, "":
		if gemini == nil {
			cleanup()
			return nil, nil, fmt.Errorf("bootstrap: GEMINI_API_KEY is required for the gemini provider")
		}
		primary, fallback = gemini, bedrock
	case providerBedrock:
		if bedrock == nil {
			cleanup()
			return nil, nil, fmt.Errorf("bootstrap: BEDROCK_MODEL_ID is required for the bedrock provider")
		}
		primary = bedrock
		if gemini != nil {
			fallback = gemini
		}
	default:
		cleanup()
		return nil, nil, fmt.Errorf("bootstrap: unknown LLM provider %q", cfg.LLMProvider)
	}

	logger.Info("llm client configured",
		"provider", cfg.LLMProvider,
		"fallback_available", fallback != nil,
	)
	if fallback == nil {
		return primary, cleanup, nil
	}
	return conversation.NewFallbackLLMClient(primary, fallback, logger), cleanup, nil
}
