// Package trend fetches public interest-over-time series for a keyword and
// classifies them into coarse labels a report can quote: which way interest
// is moving, whether the move looks durable, and whether the series is
// seasonal.
package trend

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"minerva/internal/normalize"
	"minerva/pkg/errors"
)

// Window selects how far back a series reaches.
type Window int

const (
	WindowYear    Window = 12 // months
	WindowQuarter Window = 3
)

// Point is one sampled interest value.
type Point struct {
	Date  time.Time
	Value decimal.Decimal
}

// Series is a time-ordered run of points.
type Series []Point

// Provider fetches interest-over-time data for a keyword.
type Provider interface {
	InterestOverTime(ctx context.Context, keyword string, window Window) (Series, error)
}

// Analysis is the classified shape of one keyword's interest series.
type Analysis struct {
	Keyword     string                `json:"keyword"`
	Direction   normalize.Direction   `json:"direction"`
	Persistence normalize.Persistence `json:"persistence"`
	Seasonality normalize.Seasonality `json:"seasonality"`
	RecentAvg   decimal.Decimal       `json:"recent_avg"`
	PastAvg     decimal.Decimal       `json:"past_avg"`
	Points      int                   `json:"points"`
}

// Analyze classifies a year-long series. Direction compares the most recent
// quarter against the preceding nine months; persistence compares the most
// recent quarter against the quarter before it; seasonality looks at the
// spread of the monthly means.
func Analyze(keyword string, series Series) (Analysis, error) {
	if len(series) == 0 {
		return Analysis{}, errors.Wrapf(errors.ErrInvalidInput, "empty series for %q", keyword)
	}

	sorted := make(Series, len(series))
	copy(sorted, series)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	cutRecent := sorted[len(sorted)-1].Date.AddDate(0, -int(WindowQuarter), 0)
	cutPrior := cutRecent.AddDate(0, -int(WindowQuarter), 0)

	var recent, past, prior Series
	for _, p := range sorted {
		switch {
		case p.Date.After(cutRecent):
			recent = append(recent, p)
		case p.Date.After(cutPrior):
			prior = append(prior, p)
			past = append(past, p)
		default:
			past = append(past, p)
		}
	}

	recentAvg := mean(recent)
	pastAvg := mean(past)

	analysis := Analysis{
		Keyword:     keyword,
		Direction:   normalize.DeriveDirection(recentAvg, pastAvg),
		Persistence: normalize.DerivePersistence(recentAvg, mean(prior)),
		Seasonality: normalize.DeriveSeasonality(monthlyMeans(sorted)),
		RecentAvg:   recentAvg,
		PastAvg:     pastAvg,
		Points:      len(sorted),
	}
	return analysis, nil
}

func mean(s Series) decimal.Decimal {
	if len(s) == 0 {
		return decimal.Zero
	}
	var sum decimal.Decimal
	for _, p := range s {
		sum = sum.Add(p.Value)
	}
	return sum.Div(decimal.NewFromInt(int64(len(s))))
}

// monthlyMeans buckets the series by calendar month and averages each
// bucket, returning the buckets in chronological order.
func monthlyMeans(s Series) []decimal.Decimal {
	type bucket struct {
		sum   decimal.Decimal
		count int64
	}
	buckets := make(map[string]*bucket)
	var order []string
	for _, p := range s {
		key := p.Date.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
			order = append(order, key)
		}
		b.sum = b.sum.Add(p.Value)
		b.count++
	}
	sort.Strings(order)

	out := make([]decimal.Decimal, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		out = append(out, b.sum.Div(decimal.NewFromInt(b.count)))
	}
	return out
}
