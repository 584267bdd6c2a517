// Package httputil provides HTTP infrastructure for upstream API clients.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//
// Only errors wrapped with [RetryableError] are retried; everything else
// (including 404s, which callers map to not-found) fails fast. The registry
// and releases clients use a fixed delay between attempts, matching the
// upstream-facing policy of 3 attempts:
//
//	err := httputil.RetryRegistry(ctx, func() error {
//	    return fetchPackument(ctx, name)
//	})
package httputil
