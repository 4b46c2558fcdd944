package sessionerrors

import (
	"net/http"

	"github.com/khatias/rdbr-project/internal/pkg/apperror"
)

var (
	ErrSessionNotFound = apperror.New(
		apperror.CodeNotFound,
		"No active session",
		http.StatusNotFound,
	)

	ErrInvalidAvatar = apperror.New(
		apperror.CodeInvalidInput,
		"Avatar must be an image data URI",
		http.StatusBadRequest,
	)

	ErrAvatarTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"Avatar image is too large",
		http.StatusBadRequest,
	)
)
