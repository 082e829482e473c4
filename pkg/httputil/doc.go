// Package httputil provides HTTP utilities shared by the requisite-data
// and statistics clients.
//
// # Overview
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/coursegraph/)
// with configurable TTL. Per-term requisite tables are immutable once
// published, so they are typically cached without expiry; institution
// statistics refresh on a daily TTL.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 0)
//	var table map[string][][]string
//	if ok, _ := cache.Get("prereqs:FA24", &table); !ok {
//	    table = fetchFromSource()
//	    cache.Set("prereqs:FA24", table)
//	}
//
// Cache keys should be namespaced by data source to avoid collisions.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//
// It uses exponential backoff to avoid hammering the data source:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetchTerm(ctx, key)
//	})
//
// Only errors wrapped in [RetryableError] are retried; a 404 for a term
// with no published data fails immediately.
package httputil
