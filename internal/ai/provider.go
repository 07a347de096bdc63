package ai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ignite/prospect-desk/internal/config"
	"github.com/ignite/prospect-desk/internal/pkg/httpretry"
)

// NewCompleter builds the configured provider. It returns nil without
// error when AI is disabled.
func NewCompleter(ctx context.Context, cfg config.AIConfig) (Completer, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("ai provider openai requires an api key")
		}
		httpClient := httpretry.NewRetryClient(&http.Client{Timeout: cfg.Timeout()}, cfg.MaxRetries)
		return NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, httpClient), nil
	case "bedrock":
		return NewBedrockFromEnv(ctx, cfg.Bedrock.Region, cfg.Bedrock.AWSProfile, cfg.Bedrock.ModelID)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
