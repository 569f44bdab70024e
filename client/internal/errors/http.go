package errors

import "fmt"

// maxBodyLen bounds the response text kept on a ClassifiedError.
const maxBodyLen = 512

// ClassifyHTTPError determines whether an HTTP error should be retried.
//   - 4xx client errors (except 408 and 429) are irrecoverable
//   - 5xx server errors are recoverable
func ClassifyHTTPError(statusCode int, body string, underlyingErr error) *ClassifiedError {
	if len(body) > maxBodyLen {
		body = body[:maxBodyLen] + "..."
	}
	return &ClassifiedError{
		Category:   getHTTPErrorCategory(statusCode),
		StatusCode: statusCode,
		Body:       body,
		Underlying: underlyingErr,
	}
}

// getHTTPErrorCategory maps HTTP status codes to error categories.
func getHTTPErrorCategory(statusCode int) ErrorCategory {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case 408, 429:
			return Recoverable
		default:
			return Irrecoverable
		}
	case statusCode >= 500 && statusCode < 600:
		return Recoverable
	default:
		// 2xx/3xx that the caller did not expect: retrying will not change it.
		return Irrecoverable
	}
}

// NewHTTPError creates a classified error for an unexpected HTTP status.
func NewHTTPError(statusCode int, body string, operation string) *ClassifiedError {
	underlyingErr := fmt.Errorf("%s failed: HTTP %d", operation, statusCode)
	return ClassifyHTTPError(statusCode, body, underlyingErr)
}

// NewNetworkError creates a classified error for network-level failures.
// Network errors are always recoverable as they may be transient.
func NewNetworkError(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Recoverable,
		Underlying: fmt.Errorf("%s network error: %w", operation, err),
	}
}

// RecoverableStatus reports whether an HTTP status is worth retrying.
func RecoverableStatus(statusCode int) bool {
	return statusCode >= 400 && getHTTPErrorCategory(statusCode) == Recoverable
}
