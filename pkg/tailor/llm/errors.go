package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Error wraps a client failure with the operation that produced it and
// whether a retry could plausibly succeed.
type Error struct {
	// Op is the operation that failed (e.g. "chat completion").
	Op string
	// Err is the underlying error.
	Err error
	// Retryable indicates a transient failure (timeout, rate limit,
	// server error) as opposed to a permanent one (auth, bad request).
	Retryable bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("llm: %s: %v", e.Op, e.Err)
}

// Unwrap supports errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// isRetryableError classifies transport and provider failures.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"rate limit",
		"429",
		"500",
		"502",
		"503",
		"overloaded",
		"connection refused",
		"connection reset",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
