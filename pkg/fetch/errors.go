package fetch

import "fmt"

// ProviderError wraps any unrecoverable failure while fetching from a single
// survey: network errors, bad HTTP statuses, non-image responses, and decode
// failures.
type ProviderError struct {
	Survey string
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("survey %s: %v", e.Survey, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server replied with %d for %s", e.StatusCode, e.URL)
}

// RateLimited returns true if the error is a 429 response that survived all
// retries.
func (e *StatusError) RateLimited() bool { return e.StatusCode == 429 }
