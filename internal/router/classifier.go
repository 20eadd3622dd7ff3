package router

import (
	"context"
	"regexp"
	"strings"

	"minerva/internal/metrics"
	"minerva/pkg/logger"
)

// Decision is the routing outcome for one query.
type Decision struct {
	Intent     Intent
	Classifier string // "rules" or "llm"
	Score      int    // rule score of the winning intent, 0 for llm decisions
}

// Classifier turns a free-form query into a Decision. Implementations must
// not fail outward: when the query cannot be read, they fall back to the
// discovery intent.
type Classifier interface {
	Classify(ctx context.Context, query string) Decision
}

// stockCode matches a bare 6-digit Korean instrument code.
var stockCode = regexp.MustCompile(`\b\d{6}\b`)

// Keyword tables for rule-based routing. Korean terms mirror the vocabulary
// the brokerage's own screens use; English terms cover translated queries.
var keywords = map[Intent][]string{
	IntentVolumeMomentum: {
		"거래량", "급등", "급락", "상승률", "하락률", "순위", "상한가", "모멘텀",
		"volume", "surge", "momentum", "ranking", "gainers", "losers", "movers",
	},
	IntentInstitutionalFlow: {
		"기관", "외국인", "순매수", "순매도", "수급", "매집", "연속",
		"institution", "institutional", "foreign", "net buying", "net selling", "flow", "smart money",
	},
	IntentSectorTheme: {
		"섹터", "업종", "테마", "관련주", "수혜주", "산업",
		"sector", "theme", "industry", "related stocks",
	},
	IntentSingleStock: {
		"삼성전자", "주가", "계좌", "잔고", "보유", "차트", "공매도", "목표가",
		"my account", "holdings", "balance", "chart", "price of", "short selling",
	},
}

// RuleClassifier scores keyword hits per intent and picks the best one. Ties
// and zero scores degrade to discovery.
type RuleClassifier struct {
	log *logger.Logger
}

// NewRuleClassifier creates the keyword-based classifier.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{log: logger.Get().With("component", "rule_classifier")}
}

// Classify scores the query against each intent's keyword table.
func (c *RuleClassifier) Classify(_ context.Context, query string) Decision {
	lowered := strings.ToLower(query)

	best := IntentDiscovery
	bestScore := 0
	tied := false
	for _, intent := range Intents() {
		score := 0
		for _, kw := range keywords[intent] {
			if strings.Contains(lowered, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore, tied = intent, score, false
		} else if score == bestScore && score > 0 && intent != best {
			tied = true
		}
	}

	// A bare instrument code is a strong single-stock signal even without
	// any vocabulary hit.
	if stockCode.MatchString(query) && bestScore == 0 {
		best, bestScore = IntentSingleStock, 1
	}

	// A tie between two intents means the vocabulary alone cannot decide;
	// fall back to open-ended research rather than guessing.
	if tied {
		c.log.Debugw("keyword tie, resolving to discovery", "score", bestScore)
		best, bestScore = IntentDiscovery, 0
	}
	if bestScore == 0 {
		best = IntentDiscovery
	}

	metrics.IntentDecisions.WithLabelValues(string(best), "rules").Inc()
	return Decision{Intent: best, Classifier: "rules", Score: bestScore}
}
