package ai

import (
	"context"
	"strings"
	"time"

	"google.golang.org/genai"

	"minerva/pkg/errors"
	"minerva/pkg/logger"
)

// GeminiCompleter implements Completer on the official Gemini SDK.
type GeminiCompleter struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	log     *logger.Logger
}

// NewGeminiCompleter creates a Gemini-backed completer.
func NewGeminiCompleter(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}

	return &GeminiCompleter{
		client:  client,
		model:   model,
		timeout: timeout,
		log:     logger.Get().With("component", "gemini_completer", "model", model),
	}, nil
}

// Name returns the provider name.
func (c *GeminiCompleter) Name() string { return ProviderGemini }

// Complete sends the prompts and concatenates the text parts of the first
// candidate.
func (c *GeminiCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	if user == "" {
		return "", errors.Wrap(errors.ErrInvalidInput, "user prompt cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(user), cfg)
	if err != nil {
		return "", errors.Wrap(err, "gemini generate content")
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", errors.Wrap(errors.ErrMalformedResponse, "gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", errors.Wrap(errors.ErrMalformedResponse, "gemini returned empty text")
	}
	return text, nil
}
