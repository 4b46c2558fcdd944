package upstream

import (
	"errors"
	"net/http"

	"github.com/khatias/rdbr-project/internal/pkg/apperror"
)

// ErrUnavailable is returned when the upstream API could not be reached or
// its response could not be read. The transport cause is logged, not exposed.
var ErrUnavailable = apperror.New(
	apperror.CodeUpstreamError,
	"Upstream service unavailable",
	http.StatusBadGateway,
)

// Error is a non-2xx upstream answer. Message is the upstream `message`
// field when present.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) StatusCode() int {
	return e.Status
}

// MessageOf renders err the way the storefront shows it to the shopper.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var upErr *Error
	if errors.As(err, &upErr) && upErr.Message != "" {
		return upErr.Message
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
