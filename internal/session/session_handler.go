package session

import (
	"io"
	"net/http"
	"time"

	"github.com/khatias/rdbr-project/internal/middleware"
	"github.com/khatias/rdbr-project/internal/pkg/apperror"
	"github.com/khatias/rdbr-project/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const keepAliveInterval = 25 * time.Second

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(s Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("session.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("session.handler")
	}
	return &Handler{service: s, logger: l}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("session request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Current(c *gin.Context) {
	sc, err := h.service.Current(c.Request.Context(), middleware.SessionKeyFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sc, nil)
}

func (h *Handler) PutAvatar(c *gin.Context) {
	var req AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid request body", err.Error())
		return
	}

	sc, err := h.service.SetAvatar(c.Request.Context(), middleware.SessionKeyFrom(c), req.Avatar)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sc, nil)
}

// Events streams the session's events as server-sent events until the
// client disconnects or the session ends.
func (h *Handler) Events(c *gin.Context) {
	events, cancel := h.service.Subscribe(middleware.SessionKeyFrom(c))
	defer cancel()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-keepAlive.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case e, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(e.Type), e)
			return e.Type != EventSessionEnded
		}
	})
}
