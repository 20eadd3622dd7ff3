package search

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"minerva/internal/metrics"
	"minerva/pkg/errors"
	"minerva/pkg/logger"
)

// Outcome is the merged result of one fan-out cycle.
type Outcome struct {
	Findings []Finding
	Failed   int
}

// Complete reports whether every query produced a finding.
func (o Outcome) Complete() bool { return o.Failed == 0 }

// FanOut dispatches planned queries across the fixed lanes, one goroutine
// per lane, queries within a lane running in order. A lane that dies takes
// only its own queries with it; the other lanes' findings still come back.
type FanOut struct {
	provider Provider
	log      *logger.Logger
}

// NewFanOut creates a fan-out runner over the provider.
func NewFanOut(provider Provider) *FanOut {
	return &FanOut{
		provider: provider,
		log:      logger.Get().With("component", "search_fanout"),
	}
}

// Run partitions the queries, works the lanes concurrently, and merges the
// findings back into plan order. Failed queries come back as failure
// placeholders rather than being dropped, so the caller can always line
// findings up against the plan.
func (f *FanOut) Run(ctx context.Context, queries []Query) (Outcome, error) {
	if len(queries) == 0 {
		return Outcome{}, errors.Wrap(errors.ErrNoQueries, "fan-out needs at least one query")
	}

	start := time.Now()
	groups := Partition(queries)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		findings = make([]Finding, 0, len(queries))
	)

	for lane, group := range groups {
		if len(group) == 0 {
			continue
		}
		wg.Add(1)
		go func(lane int, group []Query) {
			defer wg.Done()
			label := strconv.Itoa(lane)
			for _, q := range group {
				text, sources, err := f.provider.Search(ctx, q.Text)
				finding := Finding{Query: q, Text: text, Sources: sources}
				if err != nil {
					finding = Finding{Query: q, Err: err.Error()}
					f.log.Warnw("search query failed", "lane", lane, "index", q.Index, "error", err)
					metrics.SearchQueries.WithLabelValues(label, "error").Inc()
				} else {
					metrics.SearchQueries.WithLabelValues(label, "success").Inc()
				}
				mu.Lock()
				findings = append(findings, finding)
				mu.Unlock()
			}
		}(lane, group)
	}
	wg.Wait()

	sort.Slice(findings, func(i, j int) bool {
		return findings[i].Query.Index < findings[j].Query.Index
	})

	out := Outcome{Findings: findings}
	for _, finding := range findings {
		if finding.Failed() {
			out.Failed++
		}
	}

	status := "complete"
	if out.Failed > 0 {
		status = "partial"
	}
	metrics.SearchFanoutDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	f.log.Infow("fan-out finished",
		"queries", len(queries),
		"failed", out.Failed,
		"elapsed", time.Since(start),
	)

	return out, nil
}
