package termdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/coursegraph/coursegraph/pkg/httputil"
	"github.com/coursegraph/coursegraph/pkg/requisite"
	"github.com/coursegraph/coursegraph/pkg/term"
)

const httpTimeout = 10 * time.Second

// Client fetches requisite tables over HTTP. The source is expected to
// serve one JSON table per term at prereqs/<KEY>.json plus a
// metadata.json describing its coverage.
//
// Responses are cached on disk through the given [httputil.Cache] and
// transient failures are retried with backoff. All methods are safe for
// concurrent use.
type Client struct {
	http    *http.Client
	cache   *httputil.Cache
	baseURL string
}

// NewClient creates a Client rooted at baseURL. Term tables are immutable
// once published, so a cache with TTL 0 (never expire) is appropriate.
func NewClient(baseURL string, cache *httputil.Cache) *Client {
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   cache.Namespace("termdata:"),
		baseURL: baseURL,
	}
}

// Expressions fetches and validates the requisite table for t.
// It returns [ErrNoData] when the source responds 404 for the term.
func (c *Client) Expressions(ctx context.Context, t term.Term) (requisite.Table, error) {
	var tbl requisite.Table
	url := fmt.Sprintf("%s/prereqs/%s.json", c.baseURL, t)
	if err := c.cached(ctx, "prereqs:"+t.String(), &tbl, url); err != nil {
		return nil, err
	}
	return tbl, nil
}

// Metadata fetches the source's coverage metadata.
func (c *Client) Metadata(ctx context.Context) (Metadata, error) {
	var m Metadata
	url := c.baseURL + "/metadata.json"
	if err := c.cached(ctx, "metadata", &m, url); err != nil {
		return Metadata{}, err
	}
	return m, nil
}

// cached serves v from the response cache or fetches url with retries and
// stores the result. ErrNoData responses are never cached so a term that
// gains data later is picked up.
func (c *Client) cached(ctx context.Context, key string, v any, url string) error {
	if ok, _ := c.cache.Get(key, v); ok {
		return nil
	}
	err := httputil.RetryWithBackoff(ctx, func() error {
		return c.get(ctx, url, v)
	})
	if err != nil {
		return err
	}
	_ = c.cache.Set(key, v)
	return nil
}

func (c *Client) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{Err: fmt.Errorf("fetching %s: %w", url, err)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNoData
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("server error: status %d", code)}
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}
