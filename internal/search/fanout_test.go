package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minerva/pkg/errors"
)

func queriesN(n int) []Query {
	out := make([]Query, n)
	for i := range out {
		out[i] = Query{Index: i, Text: fmt.Sprintf("query %d", i)}
	}
	return out
}

func TestPartitionDealsRoundRobin(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 7, 9, 12} {
		t.Run(fmt.Sprintf("%d queries", n), func(t *testing.T) {
			groups := Partition(queriesN(n))

			total := 0
			min, max := n, 0
			for lane, group := range groups {
				total += len(group)
				if len(group) < min {
					min = len(group)
				}
				if len(group) > max {
					max = len(group)
				}
				last := -1
				for _, q := range group {
					assert.Equal(t, lane, q.Index%groupCount)
					assert.Greater(t, q.Index, last)
					last = q.Index
				}
			}
			assert.Equal(t, n, total)
			assert.LessOrEqual(t, max-min, 1, "lane sizes must differ by at most one")
		})
	}
}

func TestPlanDepths(t *testing.T) {
	assert.Len(t, Plan("AI semiconductors", DepthQuick), 3)
	assert.Len(t, Plan("AI semiconductors", DepthStandard), 6)
	assert.Len(t, Plan("AI semiconductors", DepthDeep), 9)

	for i, q := range Plan("2차전지", DepthDeep) {
		assert.Equal(t, i, q.Index)
		assert.Contains(t, q.Text, "2차전지")
	}
}

// fakeProvider answers from a function, tracking peak concurrency.
type fakeProvider struct {
	fn     func(query string) (string, []Source, error)
	active int32
	peak   int32
	mu     sync.Mutex
}

func (p *fakeProvider) Search(_ context.Context, query string) (string, []Source, error) {
	n := atomic.AddInt32(&p.active, 1)
	p.mu.Lock()
	if n > p.peak {
		p.peak = n
	}
	p.mu.Unlock()
	time.Sleep(5 * time.Millisecond)
	defer atomic.AddInt32(&p.active, -1)
	return p.fn(query)
}

func TestFanOutMergesInPlanOrder(t *testing.T) {
	provider := &fakeProvider{fn: func(query string) (string, []Source, error) {
		return "answer to " + query, []Source{{Title: "src", URL: "https://example.com"}}, nil
	}}

	out, err := NewFanOut(provider).Run(context.Background(), queriesN(7))
	require.NoError(t, err)

	assert.True(t, out.Complete())
	require.Len(t, out.Findings, 7)
	for i, finding := range out.Findings {
		assert.Equal(t, i, finding.Query.Index)
		assert.Equal(t, fmt.Sprintf("answer to query %d", i), finding.Text)
		require.Len(t, finding.Sources, 1)
	}

	provider.mu.Lock()
	defer provider.mu.Unlock()
	assert.LessOrEqual(t, provider.peak, int32(groupCount))
}

func TestFanOutSurvivesLaneFailure(t *testing.T) {
	// Lane 1 serves indexes 1, 4, 7; fail all of them.
	provider := &fakeProvider{fn: func(query string) (string, []Source, error) {
		if strings.HasSuffix(query, "1") || strings.HasSuffix(query, "4") || strings.HasSuffix(query, "7") {
			return "", nil, errors.New("quota exceeded")
		}
		return "ok", nil, nil
	}}

	out, err := NewFanOut(provider).Run(context.Background(), queriesN(9))
	require.NoError(t, err)

	assert.False(t, out.Complete())
	assert.Equal(t, 3, out.Failed)
	require.Len(t, out.Findings, 9)
	for i, finding := range out.Findings {
		assert.Equal(t, i, finding.Query.Index)
		if i%3 == 1 {
			assert.True(t, finding.Failed())
			assert.Empty(t, finding.Text)
			assert.Contains(t, finding.Err, "quota exceeded")
		} else {
			assert.False(t, finding.Failed())
			assert.Equal(t, "ok", finding.Text)
		}
	}
}

func TestFanOutRejectsEmptyPlan(t *testing.T) {
	_, err := NewFanOut(&fakeProvider{fn: func(string) (string, []Source, error) {
		return "", nil, nil
	}}).Run(context.Background(), nil)
	assert.ErrorIs(t, err, errors.ErrNoQueries)
}
