// Package httputil provides HTTP plumbing for the knowledge-graph backend
// client.
//
// # Retry
//
// [Retry] runs a request function with exponential backoff. Only errors
// wrapped in [RetryableError] are retried:
//
//	err := httputil.Retry(ctx, 3, 500*time.Millisecond, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    return httputil.CheckStatus(resp)
//	})
//
// # Status classification
//
// [CheckStatus] maps backend status codes onto coded errors from
// pkg/errors: 400 is an invalid query, 404 is not found, 429 is rate
// limited and 5xx is a network error. The last two are retryable.
package httputil
