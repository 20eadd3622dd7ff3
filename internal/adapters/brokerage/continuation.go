package brokerage

import (
	"context"

	"minerva/internal/metrics"
)

// maxPages bounds the continuation loop so a remote that always claims more
// data cannot spin the caller forever.
const maxPages = 50

// Pages holds the ordered results of one continuation chain.
type Pages struct {
	Results []Result

	// Complete is false when the iteration bound stopped the loop while the
	// remote still claimed more data.
	Complete bool
}

// CollectAll drives the continuation cursor protocol: it invokes the
// endpoint repeatedly, carrying the next-key from each response into the
// following request, until the remote reports no more data or the iteration
// bound is hit. Pages are strictly sequential; the cursor chain cannot be
// fetched concurrently. Page payloads are kept in arrival order; duplicate
// rows across inconsistent page boundaries are accepted as-is.
//
// The first failed page ends the chain; the failure is returned along with
// any pages already collected.
func (iv *Invoker) CollectAll(ctx context.Context, req Request, token *AccessToken) (Pages, *Failure) {
	pages := Pages{Complete: true}

	current := req
	for i := 0; i < maxPages; i++ {
		res := iv.Invoke(ctx, current, token)
		if res.Failure != nil {
			metrics.RecordContinuation(req.Endpoint, len(pages.Results))
			return pages, res.Failure
		}

		pages.Results = append(pages.Results, res)

		if !res.Continuation.HasMore || res.Continuation.NextKey == "" {
			metrics.RecordContinuation(req.Endpoint, len(pages.Results))
			return pages, nil
		}

		current = current.WithContinuation(res.Continuation)
	}

	pages.Complete = false
	iv.log.Warnw("continuation chain hit iteration bound",
		"endpoint", req.Endpoint,
		"pages", len(pages.Results),
	)
	metrics.RecordContinuation(req.Endpoint, len(pages.Results))
	return pages, nil
}

// MergeRows concatenates the named list field across all pages in arrival
// order. Pages without the field contribute nothing.
func MergeRows(pages Pages, field string) []interface{} {
	if field == "" {
		return nil
	}
	var rows []interface{}
	for _, page := range pages.Results {
		if vals, ok := page.Payload[field].([]interface{}); ok {
			rows = append(rows, vals...)
		}
	}
	return rows
}
