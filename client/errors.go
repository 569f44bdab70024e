package client

import (
	"errors"

	clienterrors "github.com/BryceLarsen/Requestwave-sub001/client/internal/errors"
)

// ErrNotAuthenticated is returned by helpers that need a logged-in session.
var ErrNotAuthenticated = errors.New("not authenticated")

// ClassifiedError is the error type returned for unexpected statuses and
// transport failures.
type ClassifiedError = clienterrors.ClassifiedError

// IsRetryable reports whether err is transient (network error, 408, 429, 5xx).
func IsRetryable(err error) bool { return clienterrors.IsRecoverable(err) }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int { return clienterrors.StatusOf(err) }
