package search

import (
	"context"
	"strings"
	"time"

	"google.golang.org/genai"

	"minerva/pkg/errors"
	"minerva/pkg/logger"
)

// GeminiProvider runs searches through Gemini with Google Search grounding,
// so every finding carries the web sources the model drew on.
type GeminiProvider struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	log     *logger.Logger
}

// NewGeminiProvider creates a grounded search provider.
func NewGeminiProvider(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}

	return &GeminiProvider{
		client:  client,
		model:   model,
		timeout: timeout,
		log:     logger.Get().With("component", "gemini_search", "model", model),
	}, nil
}

// Search runs one grounded query and extracts the answer text plus the
// grounding chunks as attributed sources.
func (p *GeminiProvider) Search(ctx context.Context, query string) (string, []Source, error) {
	if query == "" {
		return "", nil, errors.Wrap(errors.ErrInvalidInput, "query cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(query), cfg)
	if err != nil {
		return "", nil, errors.Wrap(err, "gemini grounded search")
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", nil, errors.Wrap(errors.ErrMalformedResponse, "search returned no candidates")
	}

	candidate := result.Candidates[0]

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", nil, errors.Wrap(errors.ErrMalformedResponse, "search returned empty text")
	}

	var sources []Source
	if candidate.GroundingMetadata != nil {
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			sources = append(sources, Source{Title: chunk.Web.Title, URL: chunk.Web.URI})
		}
	}

	return text, sources, nil
}
