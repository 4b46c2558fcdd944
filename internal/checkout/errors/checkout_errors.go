package checkouterrors

import (
	"net/http"

	"github.com/khatias/rdbr-project/internal/pkg/apperror"
)

var (
	ErrInvalidDetails = apperror.New(
		apperror.CodeInvalidInput,
		"Please fill in all required fields",
		http.StatusUnprocessableEntity,
	)

	ErrEmptyCart = apperror.New(
		apperror.CodeInvalidInput,
		"Your cart is empty.",
		http.StatusUnprocessableEntity,
	)
)
