package email_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/khatias/rdbr-project/internal/email"

	"github.com/stretchr/testify/assert"
)

func TestResendService_SendOrderConfirmation(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/emails", r.URL.Path)
			assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))

			var body struct {
				From    string   `json:"from"`
				To      []string `json:"to"`
				Subject string   `json:"subject"`
				HTML    string   `json:"html"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "shop@redseam.ge", body.From)
			assert.Equal(t, []string{"nino@redberry.ge"}, body.To)
			assert.Contains(t, body.HTML, "Nino &lt;3")
			assert.Contains(t, body.HTML, "$100.00")

			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		svc := email.NewResendService("re_test", "shop@redseam.ge", srv.URL)
		err := svc.SendOrderConfirmation(context.Background(), "nino@redberry.ge", "Nino <3", email.Order{ItemCount: 2, Total: "100.00"})

		assert.NoError(t, err)
	})

	t.Run("api_error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"domain not verified"}`))
		}))
		defer srv.Close()

		svc := email.NewResendService("re_test", "", srv.URL)
		err := svc.SendOrderConfirmation(context.Background(), "a@b.ge", "A", email.Order{})

		assert.ErrorContains(t, err, "status 403")
		assert.ErrorContains(t, err, "domain not verified")
	})
}

func TestNewResendServiceFromEnv(t *testing.T) {
	t.Setenv("RESEND_API_KEY", "")
	_, err := email.NewResendServiceFromEnv()
	assert.Error(t, err)

	t.Setenv("RESEND_API_KEY", "\"re_test\"")
	svc, err := email.NewResendServiceFromEnv()
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestNoopService(t *testing.T) {
	assert.NoError(t, email.NewNoopService().SendOrderConfirmation(context.Background(), "a@b.ge", "A", email.Order{}))
}
