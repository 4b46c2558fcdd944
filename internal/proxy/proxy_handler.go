package proxy

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/khatias/rdbr-project/internal/middleware"
	"github.com/khatias/rdbr-project/internal/pkg/apperror"
	"github.com/khatias/rdbr-project/internal/upstream"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

// Handler forwards browser requests to the upstream API and relays the
// answer as is. It never wraps bodies in the response envelope.
type Handler struct {
	client *upstream.Client
	logger *zap.Logger
}

func NewHandler(client *upstream.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("proxy.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("proxy.handler")
	}
	return &Handler{client: client, logger: l}
}

func (h *Handler) forward(c *gin.Context, r upstream.Request) {
	r.Token = middleware.TokenFrom(c)

	res, err := h.client.Do(c.Request.Context(), r)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		c.JSON(httpErr.Status, messageResponse{Message: httpErr.Message})
		return
	}

	if res.Status == http.StatusNoContent {
		c.Status(http.StatusNoContent)
		return
	}
	c.Data(res.Status, "application/json; charset=utf-8", res.Payload())
}

// readJSON returns the request body when it is a JSON document. An empty
// body yields nil.
func readJSON(c *gin.Context) ([]byte, bool) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		return nil, false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, true
	}
	return raw, json.Valid(raw)
}

func productPath(c *gin.Context) string {
	return "/cart/products/" + url.PathEscape(c.Param("product"))
}

func (h *Handler) GetCart(c *gin.Context) {
	h.forward(c, upstream.Request{Method: http.MethodGet, Path: "/cart"})
}

// CartProduct handles POST and PATCH, which both carry a JSON body.
func (h *Handler) CartProduct(c *gin.Context) {
	raw, ok := readJSON(c)
	if !ok || raw == nil {
		c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid JSON body"})
		return
	}

	h.forward(c, upstream.Request{
		Method:      c.Request.Method,
		Path:        productPath(c),
		Body:        bytes.NewReader(raw),
		ContentType: "application/json",
	})
}

func (h *Handler) DeleteCartProduct(c *gin.Context) {
	h.forward(c, upstream.Request{Method: http.MethodDelete, Path: productPath(c)})
}

// Checkout forwards the contact details when the browser sent any.
func (h *Handler) Checkout(c *gin.Context) {
	r := upstream.Request{Method: http.MethodPost, Path: "/cart/checkout"}
	if raw, ok := readJSON(c); ok && raw != nil {
		r.Body = bytes.NewReader(raw)
		r.ContentType = "application/json"
	}
	h.forward(c, r)
}

func (h *Handler) ListProducts(c *gin.Context) {
	h.forward(c, upstream.Request{
		Method: http.MethodGet,
		Path:   "/products",
		Query:  c.Request.URL.Query(),
	})
}

func (h *Handler) GetProduct(c *gin.Context) {
	h.forward(c, upstream.Request{
		Method: http.MethodGet,
		Path:   "/products/" + url.PathEscape(c.Param("product")),
	})
}
