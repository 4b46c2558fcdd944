package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	catalogerrors "github.com/khatias/rdbr-project/internal/catalog/errors"
	"github.com/khatias/rdbr-project/internal/upstream"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ListingPath is the storefront page the pager links point at.
const ListingPath = "/listing"

type Service interface {
	List(ctx context.Context, q ListingQuery) (Listing, error)
	Detail(ctx context.Context, productID int) (Product, error)
}

type service struct {
	client *upstream.Client
	group  singleflight.Group
	logger *zap.Logger
}

func NewService(client *upstream.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("catalog.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("catalog.service")
	}
	return &service{client: client, logger: l}
}

func (s *service) List(ctx context.Context, q ListingQuery) (Listing, error) {
	res, err := s.client.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		Path:   "products",
		Query:  q.Values(),
	})
	if err != nil {
		return Listing{}, err
	}
	if err := res.Err(); err != nil {
		return Listing{}, err
	}

	var body ListResponse
	if err := res.Decode(&body); err != nil {
		s.logger.Warn("unexpected product listing body", zap.Error(err))
		return Listing{}, upstream.ErrUnavailable
	}
	if body.Data == nil {
		body.Data = []Product{}
	}

	current := q.Page
	total := len(body.Data)
	if body.Meta != nil {
		if body.Meta.CurrentPage > 0 {
			current = body.Meta.CurrentPage
		}
		total = body.Meta.Total
	}
	pages := ResolveTotalPages(body.Meta, current, len(body.Data))

	return Listing{
		Products:    body.Data,
		Query:       q,
		Sort:        q.Sort,
		SortOptions: SortOptions,
		Pager:       BuildPager(ListingPath, q, current, pages),
		Total:       total,
	}, nil
}

// Detail fetches one product. Concurrent requests for the same product
// share one upstream call, which is not cancelled with the first caller.
func (s *service) Detail(ctx context.Context, productID int) (Product, error) {
	if productID <= 0 {
		return Product{}, catalogerrors.ErrInvalidProductID
	}

	v, err, _ := s.group.Do(strconv.Itoa(productID), func() (any, error) {
		return s.fetchDetail(context.WithoutCancel(ctx), productID)
	})
	if err != nil {
		return Product{}, err
	}
	return v.(Product), nil
}

func (s *service) fetchDetail(ctx context.Context, productID int) (Product, error) {
	res, err := s.client.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		Path:   "products/" + strconv.Itoa(productID),
	})
	if err != nil {
		return Product{}, err
	}
	if res.Status == http.StatusNotFound {
		return Product{}, catalogerrors.ErrProductNotFound
	}
	if err := res.Err(); err != nil {
		return Product{}, err
	}

	var p Product
	if err := json.Unmarshal(unwrapData(res.Payload()), &p); err != nil || p.ID == 0 {
		s.logger.Warn("unexpected product body", zap.Int("product_id", productID), zap.Error(err))
		return Product{}, catalogerrors.ErrProductNotFound
	}
	return p, nil
}

// unwrapData returns the `data` object of an envelope, or body itself.
func unwrapData(body []byte) []byte {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		if d := bytes.TrimSpace(env.Data); len(d) > 0 && d[0] == '{' {
			return d
		}
	}
	return body
}
