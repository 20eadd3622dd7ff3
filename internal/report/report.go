// Package report assembles the pieces a query produced — normalized
// brokerage records, search findings, trend analyses, and the failures that
// happened along the way — into one renderable result.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"minerva/internal/normalize"
	"minerva/internal/search"
	"minerva/internal/trend"
)

// Failure is a structured record of one data source that could not deliver.
type Failure struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Endpoint string `json:"endpoint,omitempty"`
}

// Section is one titled block of the report. Exactly one of the payload
// fields is set per section.
type Section struct {
	Title    string            `json:"title"`
	Endpoint string            `json:"endpoint,omitempty"`
	Record   *normalize.Record `json:"record,omitempty"`
	Findings []search.Finding  `json:"findings,omitempty"`
	Trend    *trend.Analysis   `json:"trend,omitempty"`
}

// Report is the assembled answer to one query.
type Report struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Intent      string    `json:"intent"`
	Classifier  string    `json:"classifier"`
	GeneratedAt time.Time `json:"generated_at"`
	Sections    []Section `json:"sections"`
	Failures    []Failure `json:"failures,omitempty"`
}

// New starts an empty report for a classified query.
func New(id, query, intent, classifier string) *Report {
	return &Report{
		ID:          id,
		Query:       query,
		Intent:      intent,
		Classifier:  classifier,
		GeneratedAt: time.Now(),
	}
}

// AddRecord appends a section holding one normalized endpoint record.
func (r *Report) AddRecord(title, endpoint string, rec normalize.Record) {
	r.Sections = append(r.Sections, Section{Title: title, Endpoint: endpoint, Record: &rec})
}

// AddFindings appends a section holding search findings.
func (r *Report) AddFindings(title string, findings []search.Finding) {
	r.Sections = append(r.Sections, Section{Title: title, Findings: findings})
}

// AddTrend appends a section holding one trend analysis.
func (r *Report) AddTrend(title string, analysis trend.Analysis) {
	r.Sections = append(r.Sections, Section{Title: title, Trend: &analysis})
}

// AddFailure records a data source that could not deliver.
func (r *Report) AddFailure(kind, message, endpoint string) {
	r.Failures = append(r.Failures, Failure{Kind: kind, Message: message, Endpoint: endpoint})
}

// Partial reports whether any data source failed.
func (r *Report) Partial() bool { return len(r.Failures) > 0 }

// Empty reports whether nothing at all was assembled.
func (r *Report) Empty() bool { return len(r.Sections) == 0 }

// Render formats the report as plain text.
func (r *Report) Render() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Report %s\n", r.ID)
	fmt.Fprintf(&sb, "Query:  %s\n", r.Query)
	fmt.Fprintf(&sb, "Intent: %s (%s)\n", r.Intent, r.Classifier)
	fmt.Fprintf(&sb, "When:   %s\n", humanize.Time(r.GeneratedAt))

	for _, section := range r.Sections {
		fmt.Fprintf(&sb, "\n== %s ==\n", section.Title)
		switch {
		case section.Record != nil:
			renderRecord(&sb, section.Record)
		case section.Trend != nil:
			renderTrend(&sb, section.Trend)
		case len(section.Findings) > 0:
			renderFindings(&sb, section.Findings)
		}
	}

	if r.Partial() {
		fmt.Fprintf(&sb, "\n!! %d source(s) failed\n", len(r.Failures))
		for _, failure := range r.Failures {
			if failure.Endpoint != "" {
				fmt.Fprintf(&sb, "  - [%s] %s: %s\n", failure.Kind, failure.Endpoint, failure.Message)
			} else {
				fmt.Fprintf(&sb, "  - [%s] %s\n", failure.Kind, failure.Message)
			}
		}
	}

	return sb.String()
}

func renderRecord(sb *strings.Builder, rec *normalize.Record) {
	for key, value := range rec.Fields {
		fmt.Fprintf(sb, "%s: %v\n", key, value)
	}
	if len(rec.Rows) > 0 {
		fmt.Fprintf(sb, "%s: %s rows\n", rec.RowsName, humanize.Comma(int64(len(rec.Rows))))
	}
}

func renderTrend(sb *strings.Builder, analysis *trend.Analysis) {
	fmt.Fprintf(sb, "keyword:     %s\n", analysis.Keyword)
	fmt.Fprintf(sb, "direction:   %s\n", analysis.Direction)
	fmt.Fprintf(sb, "persistence: %s\n", analysis.Persistence)
	fmt.Fprintf(sb, "seasonality: %s\n", analysis.Seasonality)
}

func renderFindings(sb *strings.Builder, findings []search.Finding) {
	for _, finding := range findings {
		if finding.Failed() {
			fmt.Fprintf(sb, "- (%d) search failed: %s\n", finding.Query.Index, finding.Err)
			continue
		}
		fmt.Fprintf(sb, "- (%d) %s\n", finding.Query.Index, finding.Text)
		for _, source := range finding.Sources {
			fmt.Fprintf(sb, "    %s <%s>\n", source.Title, source.URL)
		}
	}
}
