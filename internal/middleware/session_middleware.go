package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/khatias/rdbr-project/internal/pkg/apperror"
	"github.com/khatias/rdbr-project/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	TokenCookie   = "token"
	CtxToken      = "token"
	CtxSessionKey = "session_key"
)

var ErrNoSession = apperror.New(
	apperror.CodeUnauthorized,
	"Please log in to continue",
	http.StatusUnauthorized,
)

// SessionKey derives a stable, non-reversible key from the upstream bearer
// token so the token itself never ends up in Redis keys or logs.
func SessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}

// Session reads the token cookie when present. Requests without one pass
// through as guests.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(TokenCookie)
		if err == nil && token != "" {
			c.Set(CtxToken, token)
			c.Set(CtxSessionKey, SessionKey(token))
		}
		c.Next()
	}
}

// RequireSession rejects guests. It expects Session to have run first.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxSessionKey) == "" {
			response.Error(c, ErrNoSession.HTTPStatus, ErrNoSession.Code, ErrNoSession.Message, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func TokenFrom(c *gin.Context) string {
	return c.GetString(CtxToken)
}

func SessionKeyFrom(c *gin.Context) string {
	return c.GetString(CtxSessionKey)
}
