package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/khatias/rdbr-project/internal/auth"
	autherrors "github.com/khatias/rdbr-project/internal/auth/errors"
	"github.com/khatias/rdbr-project/internal/upstream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(url string) auth.Service {
	return auth.NewService(upstream.NewClient(url, 2*time.Second, zap.NewNop()), zap.NewNop())
}

func TestService_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/login", r.URL.Path)
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "a@b.ge", body["email"])
			assert.Equal(t, "secret", body["password"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"token":"tok-1","user":{"id":7,"email":"a@b.ge"}}`))
		}))
		defer srv.Close()

		res, err := newService(srv.URL).Login(context.Background(), auth.LoginRequest{Email: "a@b.ge", Password: "secret"})

		require.NoError(t, err)
		assert.Equal(t, "tok-1", res.Token)
		assert.JSONEq(t, `{"id":7,"email":"a@b.ge"}`, string(res.User))
	})

	t.Run("missing_fields", func(t *testing.T) {
		res, err := newService("http://127.0.0.1:1").Login(context.Background(), auth.LoginRequest{Email: "a@b.ge"})

		assert.ErrorIs(t, err, autherrors.ErrCredentialsRequired)
		assert.Empty(t, res.Token)
	})

	for _, status := range []int{http.StatusUnauthorized, http.StatusUnprocessableEntity} {
		t.Run("rejected_"+http.StatusText(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"message":"The provided credentials are incorrect."}`))
			}))
			defer srv.Close()

			_, err := newService(srv.URL).Login(context.Background(), auth.LoginRequest{Email: "a@b.ge", Password: "x"})

			var upErr *upstream.Error
			require.ErrorAs(t, err, &upErr)
			assert.Equal(t, status, upErr.Status)
			assert.Equal(t, "Invalid email or password", upErr.Message)
		})
	}

	t.Run("other_failure_keeps_upstream_message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("maintenance"))
		}))
		defer srv.Close()

		_, err := newService(srv.URL).Login(context.Background(), auth.LoginRequest{Email: "a@b.ge", Password: "x"})

		var upErr *upstream.Error
		require.ErrorAs(t, err, &upErr)
		assert.Equal(t, http.StatusServiceUnavailable, upErr.Status)
		assert.Equal(t, "maintenance", upErr.Message)
	})

	t.Run("no_token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"user":{}}`))
		}))
		defer srv.Close()

		_, err := newService(srv.URL).Login(context.Background(), auth.LoginRequest{Email: "a@b.ge", Password: "x"})

		assert.ErrorIs(t, err, autherrors.ErrNoToken)
	})

	t.Run("upstream_down", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		_, err := newService(srv.URL).Login(context.Background(), auth.LoginRequest{Email: "a@b.ge", Password: "x"})

		assert.ErrorIs(t, err, upstream.ErrUnavailable)
	})
}

// parsedForm builds a form the way the server side sees it after parsing.
func parsedForm(t *testing.T, fields map[string]string, avatar []byte) *multipart.Form {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if avatar != nil {
		part, err := w.CreateFormFile("avatar", "me.png")
		require.NoError(t, err)
		_, err = part.Write(avatar)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form
}

func validSignup() map[string]string {
	return map[string]string{
		"username":              "nino",
		"email":                 "nino@redberry.ge",
		"password":              "secret",
		"password_confirmation": "secret",
	}
}

func TestService_Signup_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]string)
		wantErr error
	}{
		{"short_email", func(f map[string]string) { f["email"] = "ab" }, autherrors.ErrEmailTooShort},
		{"short_password", func(f map[string]string) { f["password"] = "ab"; f["password_confirmation"] = "ab" }, autherrors.ErrPasswordTooShort},
		{"mismatch", func(f map[string]string) { f["password_confirmation"] = "other" }, autherrors.ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validSignup()
			tt.mutate(fields)

			// validation fails before any request is made
			_, err := newService("http://127.0.0.1:1").Signup(context.Background(), parsedForm(t, fields, nil))

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Signup_ForwardsFormAndFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/register", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "nino", r.FormValue("username"))
		assert.Equal(t, "secret", r.FormValue("password_confirmation"))

		f, fh, err := r.FormFile("avatar")
		if assert.NoError(t, err) {
			raw, _ := io.ReadAll(f)
			f.Close()
			assert.Equal(t, "me.png", fh.Filename)
			assert.Equal(t, []byte("png-bytes"), raw)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"token":"tok-9","user":{"username":"nino"}}`))
	}))
	defer srv.Close()

	res, err := newService(srv.URL).Signup(context.Background(), parsedForm(t, validSignup(), []byte("png-bytes")))

	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, http.StatusCreated, res.Status)
	assert.Equal(t, "tok-9", res.Token)
	assert.JSONEq(t, `{"token":"tok-9","user":{"username":"nino"}}`, string(res.Body))
}

func TestService_Signup_RelaysRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"The email has already been taken.","errors":{"email":["taken"]}}`))
	}))
	defer srv.Close()

	res, err := newService(srv.URL).Signup(context.Background(), parsedForm(t, validSignup(), nil))

	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Empty(t, res.Token)
	assert.Contains(t, string(res.Body), "already been taken")
}
