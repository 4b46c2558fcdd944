package cart

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	carterrors "github.com/khatias/rdbr-project/internal/cart/errors"
	"github.com/khatias/rdbr-project/internal/catalog"
	"github.com/khatias/rdbr-project/internal/middleware"
	"github.com/khatias/rdbr-project/internal/pkg/apperror"
	"github.com/khatias/rdbr-project/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductLookup fetches the product a purchase is made from.
type ProductLookup interface {
	Detail(ctx context.Context, productID int) (catalog.Product, error)
}

type Handler struct {
	registry *Registry
	products ProductLookup
	logger   *zap.Logger
}

func NewHandler(registry *Registry, products ProductLookup, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("cart.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cart.handler")
	}
	return &Handler{registry: registry, products: products, logger: l}
}

func (h *Handler) core(c *gin.Context) *Core {
	core, created := h.registry.Get(middleware.SessionKeyFrom(c), middleware.TokenFrom(c))
	if created {
		// first sight of this session, pull what the upstream already has
		_, _ = core.Reload(c.Request.Context())
	}
	return core
}

// writeError answers with the mapped error and the cart state as details,
// so the client can re-render alongside the message.
func (h *Handler) writeError(c *gin.Context, err error, state State) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("cart request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, state)
}

func productIDParam(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, carterrors.ErrInvalidProductID
	}
	return id, nil
}

func (h *Handler) State(c *gin.Context) {
	response.Success(c, http.StatusOK, h.core(c).State(), nil)
}

func (h *Handler) Reload(c *gin.Context) {
	core, _ := h.registry.Get(middleware.SessionKeyFrom(c), middleware.TokenFrom(c))

	state, err := core.Reload(c.Request.Context())
	if err != nil {
		h.writeError(c, err, state)
		return
	}
	response.Success(c, http.StatusOK, state, nil)
}

func (h *Handler) Open(c *gin.Context) {
	response.Success(c, http.StatusOK, h.core(c).Open(), nil)
}

func (h *Handler) Close(c *gin.Context) {
	response.Success(c, http.StatusOK, h.core(c).Close(), nil)
}

func (h *Handler) AddItem(c *gin.Context) {
	core := h.core(c)

	productID, err := productIDParam(c, "productId")
	if err != nil {
		h.writeError(c, err, core.State())
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, carterrors.ErrInvalidQuantity, core.State())
		return
	}

	state, err := core.Add(c.Request.Context(), productID, AddOptions{
		Quantity: req.Quantity,
		Color:    req.Color,
		Size:     req.Size,
		Image:    req.Image,
	})
	if err != nil {
		h.writeError(c, err, state)
		return
	}
	response.Success(c, http.StatusCreated, state, nil)
}

func (h *Handler) UpdateQty(c *gin.Context) {
	core := h.core(c)

	productID, err := productIDParam(c, "productId")
	if err != nil {
		h.writeError(c, err, core.State())
		return
	}

	var req UpdateQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, carterrors.ErrInvalidQuantity, core.State())
		return
	}

	state, err := core.UpdateQuantity(c.Request.Context(), productID, *req.Quantity, VariantOptions{
		Color: req.Color,
		Size:  req.Size,
	})
	if err != nil {
		h.writeError(c, err, state)
		return
	}
	response.Success(c, http.StatusOK, state, nil)
}

func (h *Handler) DeleteItem(c *gin.Context) {
	core := h.core(c)

	productID, err := productIDParam(c, "productId")
	if err != nil {
		h.writeError(c, err, core.State())
		return
	}

	var opts VariantOptions
	if err := c.ShouldBindQuery(&opts); err != nil {
		h.writeError(c, carterrors.ErrInvalidVariant, core.State())
		return
	}

	state, err := core.Remove(c.Request.Context(), productID, opts)
	if err != nil {
		h.writeError(c, err, state)
		return
	}
	response.Success(c, http.StatusOK, state, nil)
}

// Purchase adds a product to the cart from the detail page selection.
func (h *Handler) Purchase(c *gin.Context) {
	core := h.core(c)

	productID, err := productIDParam(c, "id")
	if err != nil {
		h.writeError(c, err, core.State())
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(c, carterrors.ErrInvalidQuantity, core.State())
		return
	}

	product, err := h.products.Detail(c.Request.Context(), productID)
	if err != nil {
		h.writeError(c, err, core.State())
		return
	}

	sel, err := catalog.ResolveSelection(product, catalog.PurchaseOptions{
		Color:    req.Color,
		Size:     req.Size,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.writeError(c, err, core.State())
		return
	}

	state, err := core.Add(c.Request.Context(), productID, AddOptions{
		Quantity: sel.Quantity,
		Color:    sel.Color,
		Size:     sel.Size,
		Image:    sel.Image,
	})
	if err != nil {
		h.writeError(c, err, state)
		return
	}
	response.Success(c, http.StatusCreated, state, nil)
}
