package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"minerva/internal/normalize"
	"minerva/internal/search"
)

func TestReportAssemblyAndRender(t *testing.T) {
	rep := New("req-1", "거래량 급등 종목", "volume_momentum", "rules")
	assert.True(t, rep.Empty())
	assert.False(t, rep.Partial())

	rep.AddRecord("trading_volume_surge", "ka10023", normalize.Record{
		Endpoint: "ka10023",
		Name:     "trading_volume_surge",
		RowsName: "entries",
		Rows: []map[string]interface{}{
			{"stock_code": "005930", "surge_rate": "312.5"},
		},
	})
	rep.AddFindings("web research", []search.Finding{
		{Query: search.Query{Index: 0, Text: "q0"}, Text: "answer", Sources: []search.Source{{Title: "news", URL: "https://example.com"}}},
		{Query: search.Query{Index: 1, Text: "q1"}, Err: "quota exceeded"},
	})
	rep.AddFailure("transport", "bad gateway", "ka10030")

	assert.False(t, rep.Empty())
	assert.True(t, rep.Partial())

	text := rep.Render()
	assert.Contains(t, text, "Report req-1")
	assert.Contains(t, text, "volume_momentum (rules)")
	assert.Contains(t, text, "== trading_volume_surge ==")
	assert.Contains(t, text, "entries: 1 rows")
	assert.Contains(t, text, "answer")
	assert.Contains(t, text, "https://example.com")
	assert.Contains(t, text, "search failed: quota exceeded")
	assert.Contains(t, text, "[transport] ka10030: bad gateway")
	assert.True(t, strings.Contains(text, "1 source(s) failed"))
}
