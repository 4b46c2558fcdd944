package catalogerrors

import (
	"net/http"

	"github.com/khatias/rdbr-project/internal/pkg/apperror"
)

var (
	ErrInvalidProductID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid product id",
		http.StatusBadRequest,
	)

	ErrProductNotFound = apperror.New(
		apperror.CodeNotFound,
		"Product not found",
		http.StatusNotFound,
	)

	ErrInvalidQuery = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid listing query",
		http.StatusBadRequest,
	)

	ErrColorRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Please choose a color",
		http.StatusBadRequest,
	)

	ErrUnknownColor = apperror.New(
		apperror.CodeInvalidInput,
		"This color is not available for the product",
		http.StatusBadRequest,
	)
)
