// Package coordinator runs one query end to end: classify the intent, gate
// on a fresh access token when brokerage data is needed, drive every endpoint
// in the intent's toolset through the continuation protocol, normalize what
// came back, and assemble the report. A failing data source degrades the
// report; it never aborts the whole query.
package coordinator

import (
	"context"

	"github.com/google/uuid"

	"minerva/internal/adapters/brokerage"
	"minerva/internal/metrics"
	"minerva/internal/normalize"
	"minerva/internal/report"
	"minerva/internal/router"
	"minerva/internal/search"
	"minerva/internal/trend"
	"minerva/pkg/errors"
	"minerva/pkg/logger"
)

// Coordinator wires the classifier, the brokerage adapter, the search
// fan-out, and the optional trend provider into one query pipeline.
type Coordinator struct {
	auth       *brokerage.Authenticator
	invoker    *brokerage.Invoker
	classifier router.Classifier
	fanout     *search.FanOut
	trends     trend.Provider // nil when no trend gateway is configured
	log        *logger.Logger
}

// New creates a Coordinator. trends may be nil.
func New(
	auth *brokerage.Authenticator,
	invoker *brokerage.Invoker,
	classifier router.Classifier,
	fanout *search.FanOut,
	trends trend.Provider,
) *Coordinator {
	return &Coordinator{
		auth:       auth,
		invoker:    invoker,
		classifier: classifier,
		fanout:     fanout,
		trends:     trends,
		log:        logger.Get().With("component", "coordinator"),
	}
}

// Handle answers one query. The returned report may be partial; failures of
// individual data sources are recorded on the report rather than returned.
func (c *Coordinator) Handle(ctx context.Context, query string) *report.Report {
	requestID := uuid.NewString()
	log := c.log.With("request_id", requestID)

	decision := c.classifier.Classify(ctx, query)
	log.Infow("routed query", "intent", decision.Intent, "classifier", decision.Classifier)

	intent := decision.Intent
	stockCode, hasCode := "", false
	if intent == router.IntentSingleStock {
		stockCode, hasCode = extractStockCode(query)
		if !hasCode {
			// Nothing to anchor the brokerage calls on; answer from search.
			log.Infow("no instrument code in single-stock query, degrading to discovery")
			intent = router.IntentDiscovery
		}
	}

	rep := report.New(requestID, query, string(intent), decision.Classifier)

	toolset := router.Toolset(intent)
	if len(toolset) == 0 {
		c.runSearch(ctx, rep, query, log)
	} else {
		c.runToolset(ctx, rep, toolset, stockCode, log)
	}

	status := "success"
	switch {
	case rep.Empty():
		status = "error"
	case rep.Partial():
		status = "partial"
	}
	metrics.ReportsAssembled.WithLabelValues(string(intent), status).Inc()
	log.Infow("report assembled", "sections", len(rep.Sections), "failures", len(rep.Failures))
	return rep
}

// runToolset acquires the access token and invokes every endpoint of the
// toolset under the continuation protocol. An auth failure short-circuits:
// no endpoint is attempted without a token.
func (c *Coordinator) runToolset(ctx context.Context, rep *report.Report, toolset []string, stockCode string, log *logger.Logger) {
	token, err := c.auth.AcquireToken(ctx)
	if err != nil {
		log.Warnw("token acquisition failed, skipping brokerage toolset", "error", err)
		rep.AddFailure(string(brokerage.KindAuth), err.Error(), "")
		return
	}

	for _, opcode := range toolset {
		ep, ok := brokerage.Lookup(opcode)
		if !ok {
			rep.AddFailure(string(brokerage.KindInvalidRequest), "unknown endpoint", opcode)
			continue
		}

		req := brokerage.Request{Endpoint: opcode, Params: buildParams(opcode, stockCode)}
		pages, failure := c.invoker.CollectAll(ctx, req, token)
		if failure != nil {
			rep.AddFailure(string(failure.Kind), failure.Message, opcode)
			if len(pages.Results) == 0 {
				continue
			}
			// Pages collected before the failure are still worth reporting.
		}
		if len(pages.Results) == 0 {
			continue
		}
		if !pages.Complete {
			// The chain was cut at the iteration bound; the merged rows below
			// cover only the pages that were fetched.
			rep.AddFailure("continuation", errors.ErrContinuationOverflow.Error(), opcode)
		}

		payload := pages.Results[0].Payload
		if ep.ListField != "" && len(pages.Results) > 1 {
			payload[ep.ListField] = brokerage.MergeRows(pages, ep.ListField)
		}

		rec, err := normalize.Normalize(opcode, payload)
		if err != nil {
			rep.AddFailure(string(brokerage.KindMalformed), err.Error(), opcode)
			continue
		}
		rep.AddRecord(ep.Name, opcode, rec)
	}
}

// runSearch answers an open-ended query from the web: a fanned-out search
// plan, plus a trend analysis when a provider is configured.
func (c *Coordinator) runSearch(ctx context.Context, rep *report.Report, query string, log *logger.Logger) {
	plan := search.Plan(query, search.DepthStandard)
	outcome, err := c.fanout.Run(ctx, plan)
	if err != nil {
		rep.AddFailure("search", err.Error(), "")
	} else {
		rep.AddFindings("web research", outcome.Findings)
		if !outcome.Complete() {
			rep.AddFailure("search", "some search queries failed", "")
		}
	}

	if c.trends == nil {
		return
	}
	series, err := c.trends.InterestOverTime(ctx, query, trend.WindowYear)
	if err != nil {
		log.Warnw("trend fetch failed", "error", err)
		rep.AddFailure("trend", err.Error(), "")
		return
	}
	analysis, err := trend.Analyze(query, series)
	if err != nil {
		rep.AddFailure("trend", err.Error(), "")
		return
	}
	rep.AddTrend("interest trend", analysis)
}
