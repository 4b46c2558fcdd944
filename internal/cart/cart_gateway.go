package cart

import (
	"context"
	"net/http"
	"strconv"

	"github.com/khatias/rdbr-project/internal/upstream"
)

// Gateway is the upstream cart contract the core reconciles against. The
// upstream keeps one request per product; DELETE removes every variant of it.
//
//go:generate mockgen -source=cart_gateway.go -destination=../mock/cart/cart_gateway_mock.go -package=mock
type Gateway interface {
	List(ctx context.Context) ([]Item, error)
	Add(ctx context.Context, productID int, req AddRequest) error
	Delete(ctx context.Context, productID int) error
}

type httpGateway struct {
	client *upstream.Client
	token  string
}

// NewGateway binds the upstream client to one shopper's bearer token.
func NewGateway(client *upstream.Client, token string) Gateway {
	return &httpGateway{client: client, token: token}
}

func productPath(productID int) string {
	return "cart/products/" + strconv.Itoa(productID)
}

func (g *httpGateway) List(ctx context.Context) ([]Item, error) {
	res, err := g.client.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		Path:   "cart",
		Token:  g.token,
	})
	if err != nil {
		return nil, err
	}
	if err := res.Err(); err != nil {
		return nil, err
	}

	// anything that is not an array is an empty cart
	var items []Item
	if err := res.Decode(&items); err != nil || items == nil {
		return []Item{}, nil
	}
	return items, nil
}

func (g *httpGateway) Add(ctx context.Context, productID int, req AddRequest) error {
	res, err := g.client.DoJSON(ctx, http.MethodPost, productPath(productID), g.token, req)
	if err != nil {
		return err
	}
	return res.Err()
}

func (g *httpGateway) Delete(ctx context.Context, productID int) error {
	res, err := g.client.Do(ctx, upstream.Request{
		Method: http.MethodDelete,
		Path:   productPath(productID),
		Token:  g.token,
	})
	if err != nil {
		return err
	}
	return res.Err()
}
