package catalog

import (
	"net/http"
	"strconv"

	catalogerrors "github.com/khatias/rdbr-project/internal/catalog/errors"
	"github.com/khatias/rdbr-project/internal/pkg/apperror"
	"github.com/khatias/rdbr-project/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(s Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("catalog.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("catalog.handler")
	}
	return &Handler{service: s, logger: l}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("catalog request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) List(c *gin.Context) {
	q, err := ParseListingQuery(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	listing, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}

	pag := response.NewPagination(
		listing.Pager.CurrentPage,
		DefaultPageSize,
		int64(listing.Total),
		listing.Pager.TotalPages,
	)
	response.Success(c, http.StatusOK, listing, pag)
}

func (h *Handler) Detail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.writeError(c, catalogerrors.ErrInvalidProductID)
		return
	}

	p, err := h.service.Detail(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, NewProductView(p), nil)
}
