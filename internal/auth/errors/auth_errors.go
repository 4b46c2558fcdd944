package autherrors

import (
	"net/http"

	"github.com/khatias/rdbr-project/internal/pkg/apperror"
)

var (
	ErrCredentialsRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Email and password are required.",
		http.StatusBadRequest,
	)

	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid email or password",
		http.StatusUnauthorized,
	)

	ErrNoToken = apperror.New(
		apperror.CodeUpstreamError,
		"No token returned",
		http.StatusBadGateway,
	)

	ErrEmailTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"Email must be at least 3 characters.",
		http.StatusUnprocessableEntity,
	)

	ErrPasswordTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"Password must be at least 3 characters.",
		http.StatusUnprocessableEntity,
	)

	ErrPasswordMismatch = apperror.New(
		apperror.CodeInvalidInput,
		"Passwords do not match.",
		http.StatusUnprocessableEntity,
	)

	ErrInvalidForm = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid form data",
		http.StatusBadRequest,
	)
)
