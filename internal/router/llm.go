package router

import (
	"context"
	"strings"

	"minerva/internal/adapters/ai"
	"minerva/internal/metrics"
	"minerva/pkg/logger"
)

const classifySystemPrompt = `You route Korean stock market queries to exactly one category.
Categories:
  volume_momentum    - trading volume surges, price movement rankings, momentum
  institutional_flow - institutional or foreign investor buying/selling patterns
  sector_theme       - sector indexes, industry groups, theme stocks
  single_stock       - one named stock, or the user's own account/holdings
  discovery          - anything else, open-ended research

Answer with the category name only.`

// LLMClassifier asks a chat model to pick the intent, constrained to the
// fixed category set. Any provider failure or off-vocabulary answer falls
// back to the rule classifier, so callers still never see an error.
type LLMClassifier struct {
	completer ai.Completer
	fallback  *RuleClassifier
	log       *logger.Logger
}

// NewLLMClassifier creates the model-backed classifier with a rule fallback.
func NewLLMClassifier(completer ai.Completer) *LLMClassifier {
	return &LLMClassifier{
		completer: completer,
		fallback:  NewRuleClassifier(),
		log:       logger.Get().With("component", "llm_classifier", "provider", completer.Name()),
	}
}

// Classify asks the model for a category, validating the answer against the
// intent enum.
func (c *LLMClassifier) Classify(ctx context.Context, query string) Decision {
	answer, err := c.completer.Complete(ctx, classifySystemPrompt, query)
	if err != nil {
		c.log.Warnw("completion failed, using rule classifier", "error", err)
		return c.fallback.Classify(ctx, query)
	}

	cleaned := strings.ToLower(strings.Trim(strings.TrimSpace(answer), "`\"'. "))
	intent, ok := ParseIntent(cleaned)
	if !ok {
		c.log.Warnw("off-vocabulary answer, using rule classifier", "answer", answer)
		return c.fallback.Classify(ctx, query)
	}

	metrics.IntentDecisions.WithLabelValues(string(intent), "llm").Inc()
	return Decision{Intent: intent, Classifier: "llm"}
}
