package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingID marks a raw record that carries no usable identifier.
// Such records are dropped at normalization, never persisted.
var ErrMissingID = errors.New("record has no job_id")

// HTTPError wraps an HTTP status code so rate-limit handling can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether err is an upstream 429.
func IsRateLimited(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == 429
}
