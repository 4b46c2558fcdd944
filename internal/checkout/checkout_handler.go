package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/khatias/rdbr-project/internal/middleware"
	"github.com/khatias/rdbr-project/internal/pkg/apperror"
	"github.com/khatias/rdbr-project/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(svc Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("checkout.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("checkout.handler")
	}
	return &Handler{service: svc, rdb: rdb, logger: l}
}

// GET /checkout/summary
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), middleware.SessionKeyFrom(c), middleware.TokenFrom(c))
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}
	response.Success(c, http.StatusOK, summary, nil)
}

// POST /checkout
func (h *Handler) Submit(c *gin.Context) {
	defer middleware.ReleaseIdempotency(c, h.rdb)

	var req Details
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http checkout validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid request body", err.Error())
		return
	}

	sessionKey := middleware.SessionKeyFrom(c)
	res, err := h.service.Submit(c.Request.Context(), sessionKey, middleware.TokenFrom(c), req)
	if err != nil {
		httpErr := apperror.ToHTTP(err)

		var verr *ValidationError
		if errors.As(err, &verr) {
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, verr.Fields)
			return
		}
		if httpErr.Status >= http.StatusInternalServerError {
			h.logger.Error("http checkout service error", zap.String("session", sessionKey), zap.Error(err))
		}
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	if body, err := json.Marshal(res); err == nil {
		middleware.CacheIdempotentResponse(c, h.rdb, body)
	}

	response.Success(c, http.StatusOK, res, nil)
}
