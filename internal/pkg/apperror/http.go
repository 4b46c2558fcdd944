package apperror

import (
	"errors"
	"net/http"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// StatusCoder is implemented by errors that carry their own HTTP status,
// such as upstream API failures.
type StatusCoder interface {
	StatusCode() int
}

func ToHTTP(err error) *HTTPError {
	if err == nil {
		return &HTTPError{
			Status:  http.StatusOK,
			Code:    "",
			Message: "",
			Details: nil,
		}
	}

	var appErr *AppError
	// errors.As akan mencari AppError di dalam chain error
	if errors.As(err, &appErr) {
		return &HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: nil,
		}
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		return &HTTPError{
			Status:  sc.StatusCode(),
			Code:    CodeUpstreamError,
			Message: err.Error(),
			Details: nil,
		}
	}

	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "internal server error",
		Details: nil,
	}
}
