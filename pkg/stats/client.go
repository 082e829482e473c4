package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coursegraph/coursegraph/pkg/httputil"
)

const httpTimeout = 10 * time.Second

// Client fetches the statistics table from an HTTP source serving a
// single stats.json object keyed by course name. The table is loaded
// once per process and served from memory afterwards; the on-disk
// response cache carries it across runs.
type Client struct {
	http    *http.Client
	cache   *httputil.Cache
	baseURL string

	mu    sync.Mutex
	table map[string]CourseStats
}

// NewClient creates a Client rooted at baseURL.
func NewClient(baseURL string, cache *httputil.Cache) *Client {
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   cache.Namespace("stats:"),
		baseURL: baseURL,
	}
}

// Course returns the statistics for the named course, loading the table
// on first use. A course absent from the table is unknown, not an error.
func (c *Client) Course(ctx context.Context, name string) (CourseStats, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.table == nil {
		table, err := c.load(ctx)
		if err != nil {
			return CourseStats{}, false, err
		}
		c.table = table
	}
	s, ok := c.table[name]
	return s, ok, nil
}

func (c *Client) load(ctx context.Context) (map[string]CourseStats, error) {
	var table map[string]CourseStats
	if ok, _ := c.cache.Get("table", &table); ok {
		return table, nil
	}

	url := c.baseURL + "/stats.json"
	err := httputil.RetryWithBackoff(ctx, func() error {
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

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode >= 500:
			return &httputil.RetryableError{Err: fmt.Errorf("server error: status %d", resp.StatusCode)}
		default:
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&table)
	})
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set("table", &table)
	return table, nil
}

// Static is a Provider backed by an in-memory table, useful for tests and
// offline runs.
type Static map[string]CourseStats

// Course implements Provider.
func (s Static) Course(_ context.Context, name string) (CourseStats, bool, error) {
	cs, ok := s[name]
	return cs, ok, nil
}
