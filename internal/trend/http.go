package trend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"minerva/internal/adapters/config"
	"minerva/pkg/errors"
	"minerva/pkg/logger"
)

const dateLayout = "2006-01-02"

// HTTPProvider reads interest-over-time series from a trends gateway over
// plain HTTP. The gateway shields us from the upstream's session handling;
// this side only speaks one GET endpoint.
type HTTPProvider struct {
	baseURL string
	region  string
	client  *http.Client
	log     *logger.Logger
}

// NewHTTPProvider creates a provider against the configured gateway.
func NewHTTPProvider(cfg config.TrendConfig) (*HTTPProvider, error) {
	if cfg.BaseURL == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "trend base URL is required")
	}
	region := cfg.Region
	if region == "" {
		region = "US"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPProvider{
		baseURL: cfg.BaseURL,
		region:  region,
		client:  &http.Client{Timeout: timeout},
		log:     logger.Get().With("component", "trend_http", "region", region),
	}, nil
}

type interestResponse struct {
	Points []struct {
		Date  string  `json:"date"`
		Value float64 `json:"value"`
	} `json:"points"`
}

// InterestOverTime fetches the keyword's series for the window.
func (p *HTTPProvider) InterestOverTime(ctx context.Context, keyword string, window Window) (Series, error) {
	if keyword == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "keyword cannot be empty")
	}

	q := url.Values{}
	q.Set("keyword", keyword)
	q.Set("months", strconv.Itoa(int(window)))
	q.Set("region", p.region)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/interest?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "create trend request")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrTransport, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrTransport, "read trend response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrTransport, "trend gateway returned %d", resp.StatusCode)
	}

	var parsed interestResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(errors.ErrMalformedResponse, "decode trend response")
	}

	series := make(Series, 0, len(parsed.Points))
	for _, point := range parsed.Points {
		date, err := time.Parse(dateLayout, point.Date)
		if err != nil {
			return nil, errors.Wrap(errors.ErrMalformedResponse, fmt.Sprintf("bad point date %q", point.Date))
		}
		series = append(series, Point{Date: date, Value: decimal.NewFromFloat(point.Value)})
	}

	p.log.Debugw("fetched interest series", "keyword", keyword, "points", len(series))
	return series, nil
}
