package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/khatias/rdbr-project/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

type statusErr struct{ status int }

func (e statusErr) Error() string   { return "upstream said no" }
func (e statusErr) StatusCode() int { return e.status }

func TestToHTTP(t *testing.T) {
	t.Run("nil_error", func(t *testing.T) {
		res := apperror.ToHTTP(nil)
		assert.Equal(t, http.StatusOK, res.Status)
	})

	t.Run("wrapped_app_error", func(t *testing.T) {
		base := apperror.New(apperror.CodeConflict, "busy", http.StatusConflict)
		res := apperror.ToHTTP(fmt.Errorf("op: %w", base))

		assert.Equal(t, http.StatusConflict, res.Status)
		assert.Equal(t, apperror.CodeConflict, res.Code)
		assert.Equal(t, "busy", res.Message)
	})

	t.Run("status_coder", func(t *testing.T) {
		res := apperror.ToHTTP(statusErr{status: http.StatusUnprocessableEntity})

		assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
		assert.Equal(t, apperror.CodeUpstreamError, res.Code)
		assert.Equal(t, "upstream said no", res.Message)
	})

	t.Run("unknown_error", func(t *testing.T) {
		res := apperror.ToHTTP(errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, res.Status)
		assert.Equal(t, "internal server error", res.Message)
	})
}
