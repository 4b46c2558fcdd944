package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/khatias/rdbr-project/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestSessionKey_Stable(t *testing.T) {
	a := middleware.SessionKey("tok-1")
	assert.Equal(t, a, middleware.SessionKey("tok-1"))
	assert.NotEqual(t, a, middleware.SessionKey("tok-2"))
	assert.Len(t, a, 32)
	assert.NotContains(t, a, "tok-1")
}

func TestSession_SetsContextFromCookie(t *testing.T) {
	r := setupTestRouter()
	r.Use(middleware.Session())
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.TokenFrom(c)+"|"+middleware.SessionKeyFrom(c))
	})

	t.Run("with_cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: "tok-1"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "tok-1|"+middleware.SessionKey("tok-1"), w.Body.String())
	})

	t.Run("guest", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

		assert.Equal(t, "|", w.Body.String())
	})
}

func TestRequireSession(t *testing.T) {
	r := setupTestRouter()
	r.Use(middleware.Session(), middleware.RequireSession())
	r.GET("/private", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"UNAUTHORIZED"`)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "tok"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestID(t *testing.T) {
	r := setupTestRouter()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(middleware.RequestIDHeader)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "given")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "given", w.Body.String())
}

func TestRateLimitByIP(t *testing.T) {
	r := setupTestRouter()
	r.GET("/limited", middleware.RateLimitByIP(0.001, 2), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitBySession_SeparateBuckets(t *testing.T) {
	r := setupTestRouter()
	r.Use(middleware.Session())
	r.GET("/limited", middleware.RateLimitBySession(0.001, 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("a"))
	assert.Equal(t, http.StatusTooManyRequests, call("a"))
	assert.Equal(t, http.StatusOK, call("b"))
}

func TestIdempotency_NilClientPassesThrough(t *testing.T) {
	r := setupTestRouter()
	r.POST("/checkout", middleware.Idempotency(nil), func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req.Header.Set(middleware.IdempotencyHeader, "k1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}
