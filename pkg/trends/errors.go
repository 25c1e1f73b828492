package trends

import (
	"context"
	"errors"
	"fmt"

	"github.com/valyala/fasthttp"

	"trends-search/pkg/volume"
)

var (
	ErrNoAPIKey = errors.New("no API key configured for the trends provider")
	ErrDecode   = errors.New("failed to decode trends response")
)

// StatusError is returned when the provider answers with a non-200 status
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Sprintf("trends API returned status %d: %s", e.Code, body)
}

// ErrorSeverity represents how the retry loop treats an error
type ErrorSeverity int

const (
	ErrorSeverityRetryable ErrorSeverity = iota
	ErrorSeverityFatal
)

// ClassifyError decides whether a failed attempt is worth repeating.
// Auth and request errors are fatal; network errors, timeouts, 429 and 5xx are retryable.
func ClassifyError(err error) ErrorSeverity {
	if err == nil {
		return ErrorSeverityRetryable
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, ErrNoAPIKey) || errors.Is(err, ErrDecode) ||
		errors.Is(err, volume.ErrInvalidQuery) {
		return ErrorSeverityFatal
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.Code == fasthttp.StatusTooManyRequests:
			return ErrorSeverityRetryable
		case statusErr.Code >= 500:
			return ErrorSeverityRetryable
		default:
			return ErrorSeverityFatal
		}
	}

	// network failures and fasthttp timeouts land here
	return ErrorSeverityRetryable
}
