package completion

import (
	"context"
	"fmt"
	"time"

	"github.com/hugo-lorenzo-mato/verdict/internal/config"
	"github.com/hugo-lorenzo-mato/verdict/internal/core"
	"github.com/hugo-lorenzo-mato/verdict/internal/logging"
)

// FromConfig builds the completer selected by completion.provider.
func FromConfig(ctx context.Context, cfg config.CompletionConfig, timeout time.Duration, logger *logging.Logger) (core.Completer, error) {
	switch cfg.Provider {
	case core.ProviderCLI:
		return NewCLI(CLIConfig{
			Path:    cfg.CLI.Path,
			Args:    cfg.CLI.Args,
			Model:   cfg.Model,
			Timeout: timeout,
		}, logger), nil
	case core.ProviderGenAI:
		return NewGenAI(ctx, GenAIConfig{
			APIKey:      cfg.GenAI.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     timeout,
		}, logger)
	default:
		return nil, core.ErrValidation(core.CodeInvalidConfig, fmt.Sprintf("unknown completion provider %q", cfg.Provider))
	}
}
