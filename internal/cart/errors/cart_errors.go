package carterrors

import (
	"net/http"

	"github.com/khatias/rdbr-project/internal/pkg/apperror"
)

var (
	ErrCartBusy = apperror.New(
		apperror.CodeConflict,
		"Another cart update is still in progress",
		http.StatusConflict,
	)

	ErrInvalidProductID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid product id",
		http.StatusBadRequest,
	)

	ErrInvalidQuantity = apperror.New(
		apperror.CodeInvalidInput,
		"Quantity must be a positive number",
		http.StatusBadRequest,
	)

	ErrInvalidVariant = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid color or size",
		http.StatusBadRequest,
	)

	ErrCartItemNotFound = apperror.New(
		apperror.CodeNotFound,
		"Item not found in cart",
		http.StatusNotFound,
	)
)
