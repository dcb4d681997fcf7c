package netmon

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPProbe samples reachability by hitting the API's health endpoint. Any
// HTTP answer counts as reachable, including error statuses: a server that
// answers 500 is still a server we can talk to.
type HTTPProbe struct {
	client *resty.Client
}

// NewHTTPProbe creates a probe against baseURL. timeout bounds each sample;
// zero defaults to one second so a dead link cannot stall the sample loop.
func NewHTTPProbe(baseURL string, timeout time.Duration) *HTTPProbe {
	if timeout <= 0 {
		timeout = time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout)

	return &HTTPProbe{client: client}
}

// Check implements [Probe].
func (p *HTTPProbe) Check(ctx context.Context) bool {
	resp, err := p.client.R().SetContext(ctx).Get("/health")
	if err != nil {
		return false
	}
	return resp.StatusCode() > 0
}
