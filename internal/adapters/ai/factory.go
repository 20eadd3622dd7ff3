package ai

import (
	"context"

	"minerva/internal/adapters/config"
	"minerva/pkg/errors"
)

// NewCompleter builds the completer named by cfg.DefaultProvider, falling
// back to the other provider when the preferred one has no key configured.
func NewCompleter(ctx context.Context, cfg config.AIConfig) (Completer, error) {
	switch cfg.DefaultProvider {
	case ProviderGemini, "":
		if cfg.GeminiKey != "" {
			return NewGeminiCompleter(ctx, cfg.GeminiKey, cfg.Model, cfg.Timeout)
		}
		if cfg.OpenAIKey != "" {
			return NewOpenAICompleter(cfg.OpenAIKey, "", cfg.Timeout)
		}
	case ProviderOpenAI:
		if cfg.OpenAIKey != "" {
			return NewOpenAICompleter(cfg.OpenAIKey, cfg.Model, cfg.Timeout)
		}
		if cfg.GeminiKey != "" {
			return NewGeminiCompleter(ctx, cfg.GeminiKey, "", cfg.Timeout)
		}
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown AI provider %q", cfg.DefaultProvider)
	}
	return nil, errors.Wrap(errors.ErrMissingCredentials, "no AI provider key configured")
}
