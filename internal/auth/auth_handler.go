package auth

import (
	"context"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	autherrors "github.com/khatias/rdbr-project/internal/auth/errors"
	"github.com/khatias/rdbr-project/internal/middleware"
	"github.com/khatias/rdbr-project/internal/pkg/apperror"
	"github.com/khatias/rdbr-project/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// Sessions is the part of the session service auth needs.
type Sessions interface {
	Start(ctx context.Context, sessionKey, email string) (session.Context, error)
	End(ctx context.Context, sessionKey string) error
	RegisterAvatar(ctx context.Context, email, avatar string) error
}

type Carts interface {
	Forget(sessionKey string)
}

type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

type Handler struct {
	service  Service
	sessions Sessions
	carts    Carts
	cookie   CookieConfig
	logger   *zap.Logger
}

func NewHandler(s Service, sessions Sessions, carts Carts, cookie CookieConfig, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = 7 * 24 * time.Hour
	}
	return &Handler{service: s, sessions: sessions, carts: carts, cookie: cookie, logger: l}
}

func (h *Handler) setToken(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearToken(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// endPrevious drops the state of a session the browser is leaving behind.
func (h *Handler) endPrevious(c *gin.Context, nextKey string) {
	prev := middleware.SessionKeyFrom(c)
	if prev == "" || prev == nextKey {
		return
	}
	if err := h.sessions.End(c.Request.Context(), prev); err != nil {
		h.logger.Warn("ending previous session failed", zap.Error(err))
	}
	h.carts.Forget(prev)
}

func (h *Handler) loginFailed(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.clearToken(c)
	c.JSON(httpErr.Status, MessageResponse{Message: httpErr.Message})
}

// bindLogin reads a JSON body and falls back to form fields when the body is
// not valid JSON. Other content types bind as form or multipart data.
func bindLogin(c *gin.Context, req *LoginRequest) error {
	if c.ContentType() != binding.MIMEJSON {
		return c.ShouldBindWith(req, binding.Form)
	}

	raw, err := c.GetRawData()
	if err != nil {
		return err
	}
	if err := binding.JSON.BindBody(raw, req); err == nil {
		return nil
	}

	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return err
	}
	*req = LoginRequest{Email: values.Get("email"), Password: values.Get("password")}
	return nil
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindLogin(c, &req); err != nil {
		h.logger.Debug("login body unreadable", zap.Error(err))
		h.loginFailed(c, autherrors.ErrCredentialsRequired)
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.loginFailed(c, err)
		return
	}

	key := middleware.SessionKey(res.Token)
	h.endPrevious(c, key)
	h.setToken(c, res.Token)

	if _, err := h.sessions.Start(c.Request.Context(), key, req.Email); err != nil {
		h.logger.Warn("session start failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, LoginResponse{User: res.User})
}

func (h *Handler) signupForm(c *gin.Context) (*multipart.Form, error) {
	form, err := c.MultipartForm()
	if err == nil {
		return form, nil
	}
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	return &multipart.Form{Value: c.Request.PostForm, File: map[string][]*multipart.FileHeader{}}, nil
}

func (h *Handler) Signup(c *gin.Context) {
	form, err := h.signupForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid form data"})
		return
	}

	res, err := h.service.Signup(c.Request.Context(), form)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		c.JSON(httpErr.Status, MessageResponse{Message: httpErr.Message})
		return
	}

	if res.OK() && res.Token != "" {
		key := middleware.SessionKey(res.Token)
		h.endPrevious(c, key)
		h.setToken(c, res.Token)

		email := first(form.Value, "email")
		h.registerAvatar(c, form, email)
		if _, err := h.sessions.Start(c.Request.Context(), key, email); err != nil {
			h.logger.Warn("session start failed", zap.Error(err))
		}
	}

	c.Data(res.Status, "application/json; charset=utf-8", res.Body)
}

// registerAvatar stores the uploaded avatar for email, or clears a stale one
// when the form carried no image.
func (h *Handler) registerAvatar(c *gin.Context, form *multipart.Form, email string) {
	avatar := ""
	contentType, raw, ok, err := readFile(form, "avatar")
	if err != nil {
		h.logger.Warn("avatar read failed", zap.Error(err))
	}
	if ok {
		uri, err := session.AvatarDataURI(contentType, raw)
		if err != nil {
			h.logger.Info("avatar rejected", zap.Error(err))
		} else {
			avatar = uri
		}
	}

	if err := h.sessions.RegisterAvatar(c.Request.Context(), email, avatar); err != nil {
		h.logger.Warn("avatar registration failed", zap.Error(err))
	}
}

func (h *Handler) Logout(c *gin.Context) {
	if key := middleware.SessionKeyFrom(c); key != "" {
		if err := h.sessions.End(c.Request.Context(), key); err != nil {
			h.logger.Warn("session end failed", zap.Error(err))
		}
		h.carts.Forget(key)
	}

	h.clearToken(c)
	c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}
