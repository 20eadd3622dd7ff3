package search

import "context"

// Source is one attributed web source behind a finding.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Finding is the outcome of one search query. Err is set when the query's
// lane could not complete it; Text and Sources are empty in that case.
type Finding struct {
	Query   Query    `json:"query"`
	Text    string   `json:"text,omitempty"`
	Sources []Source `json:"sources,omitempty"`
	Err     string   `json:"error,omitempty"`
}

// Failed reports whether the finding is a failure placeholder.
func (f Finding) Failed() bool { return f.Err != "" }

// Provider executes a single grounded web search.
type Provider interface {
	Search(ctx context.Context, query string) (string, []Source, error)
}
