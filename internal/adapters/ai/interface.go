// Package ai holds thin chat-completion adapters over the LLM provider SDKs.
// Callers hand over a prompt and get text back; provider plumbing, timeouts
// and key handling stay in here.
package ai

import "context"

// Completer produces a single text completion for a prompt pair.
type Completer interface {
	Name() string

	// Complete sends the system and user prompts and returns the model's text.
	Complete(ctx context.Context, system, user string) (string, error)
}

// Provider names accepted by the factory.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)
