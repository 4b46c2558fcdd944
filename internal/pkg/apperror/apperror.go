package apperror

import "net/http"

const (
	CodeInvalidInput    = "INVALID_INPUT"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeUpstreamError   = "UPSTREAM_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)

// AppError is a sentinel error that already knows how it should be rendered.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
}

func New(code, message string, status int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

func (e *AppError) Error() string {
	return e.Message
}

var ErrInternal = New(CodeInternalError, "internal server error", http.StatusInternalServerError)
