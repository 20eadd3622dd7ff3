package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"minerva/pkg/errors"
	"minerva/pkg/logger"
)

func TestMain(m *testing.M) {
	_ = logger.Init("error", "test")
	m.Run()
}

func TestRuleClassifier(t *testing.T) {
	c := NewRuleClassifier()
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		want  Intent
	}{
		{"korean volume surge", "오늘 거래량 급등 종목 알려줘", IntentVolumeMomentum},
		{"english momentum ranking", "show me today's top volume ranking", IntentVolumeMomentum},
		{"institutional flow", "기관이랑 외국인이 순매수한 종목은?", IntentInstitutionalFlow},
		{"english smart money", "what is foreign net buying looking like", IntentInstitutionalFlow},
		{"sector theme", "2차전지 테마 관련주 정리해줘", IntentSectorTheme},
		{"account balance", "내 계좌 잔고 보여줘", IntentSingleStock},
		{"named stock", "삼성전자 주가 어때?", IntentSingleStock},
		{"bare stock code", "005930 어떻게 생각해", IntentSingleStock},
		{"open ended", "요즘 뭐가 유망해?", IntentDiscovery},
		{"empty query", "", IntentDiscovery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := c.Classify(ctx, tt.query)
			assert.Equal(t, tt.want, d.Intent)
			assert.Equal(t, "rules", d.Classifier)
		})
	}
}

func TestRuleClassifierTieResolvesToDiscovery(t *testing.T) {
	c := NewRuleClassifier()

	// One volume keyword against one institutional keyword, in both languages.
	for _, query := range []string{"외국인 급등 종목", "surge in foreign buying"} {
		d := c.Classify(context.Background(), query)
		assert.Equal(t, IntentDiscovery, d.Intent, "query %q", query)
	}
}

func TestRuleClassifierNeverErrors(t *testing.T) {
	c := NewRuleClassifier()
	d := c.Classify(context.Background(), "!!!###$$$ 🤖")
	assert.Equal(t, IntentDiscovery, d.Intent)
}

func TestParseIntent(t *testing.T) {
	for _, intent := range Intents() {
		got, ok := ParseIntent(string(intent))
		assert.True(t, ok)
		assert.Equal(t, intent, got)
	}
	_, ok := ParseIntent("world_domination")
	assert.False(t, ok)
}

func TestToolset(t *testing.T) {
	assert.Contains(t, Toolset(IntentVolumeMomentum), "ka10023")
	assert.Contains(t, Toolset(IntentInstitutionalFlow), "ka10131")
	assert.Contains(t, Toolset(IntentSectorTheme), "ka90001")
	assert.Contains(t, Toolset(IntentSingleStock), "kt00004")
	assert.Empty(t, Toolset(IntentDiscovery))

	// Mutating the returned slice must not leak into the registry.
	ops := Toolset(IntentVolumeMomentum)
	ops[0] = "tampered"
	assert.Contains(t, Toolset(IntentVolumeMomentum), "ka10023")
}

type fakeCompleter struct {
	answer string
	err    error
}

func (f *fakeCompleter) Name() string { return "fake" }

func (f *fakeCompleter) Complete(context.Context, string, string) (string, error) {
	return f.answer, f.err
}

func TestLLMClassifier(t *testing.T) {
	ctx := context.Background()

	t.Run("valid answer wins", func(t *testing.T) {
		c := NewLLMClassifier(&fakeCompleter{answer: "institutional_flow"})
		d := c.Classify(ctx, "anything")
		assert.Equal(t, IntentInstitutionalFlow, d.Intent)
		assert.Equal(t, "llm", d.Classifier)
	})

	t.Run("wrapped answer is cleaned", func(t *testing.T) {
		c := NewLLMClassifier(&fakeCompleter{answer: "  `sector_theme` "})
		d := c.Classify(ctx, "anything")
		assert.Equal(t, IntentSectorTheme, d.Intent)
	})

	t.Run("provider error falls back to rules", func(t *testing.T) {
		c := NewLLMClassifier(&fakeCompleter{err: errors.New("down")})
		d := c.Classify(ctx, "거래량 급등 종목")
		assert.Equal(t, IntentVolumeMomentum, d.Intent)
		assert.Equal(t, "rules", d.Classifier)
	})

	t.Run("off vocabulary answer falls back to rules", func(t *testing.T) {
		c := NewLLMClassifier(&fakeCompleter{answer: "I think this is about volume momentum."})
		d := c.Classify(ctx, "기관 순매수")
		assert.Equal(t, IntentInstitutionalFlow, d.Intent)
		assert.Equal(t, "rules", d.Classifier)
	})
}
