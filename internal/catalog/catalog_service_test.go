package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/khatias/rdbr-project/internal/catalog"
	catalogerrors "github.com/khatias/rdbr-project/internal/catalog/errors"
	"github.com/khatias/rdbr-project/internal/upstream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T, h http.HandlerFunc) catalog.Service {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return catalog.NewService(upstream.NewClient(srv.URL, 2*time.Second, zap.NewNop()), zap.NewNop())
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestService_List(t *testing.T) {
	t.Run("uses upstream meta", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/products", r.URL.Path)
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Equal(t, "price", r.URL.Query().Get("sort"))
			assert.Equal(t, "10", r.URL.Query().Get("filter[price_from]"))
			writeJSON(w, http.StatusOK, `{"data":[{"id":1,"name":"A","price":12.5,"cover_image":"a.png"}],"meta":{"current_page":2,"last_page":9,"per_page":12,"total":100}}`)
		})

		listing, err := svc.List(context.Background(), catalog.ListingQuery{Page: 2, Sort: "price", PriceFrom: "10"})

		require.NoError(t, err)
		require.Len(t, listing.Products, 1)
		assert.Equal(t, "12.5", listing.Products[0].Price.String())
		assert.Equal(t, 2, listing.Pager.CurrentPage)
		assert.Equal(t, 9, listing.Pager.TotalPages)
		assert.Equal(t, 100, listing.Total)
		assert.Contains(t, listing.Pager.Next.Href, "page=3")
		assert.Contains(t, listing.Pager.Next.Href, "sort=price")
	})

	t.Run("no meta and a short page is the last page", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"data":[{"id":1},{"id":2}]}`)
		})

		listing, err := svc.List(context.Background(), catalog.ListingQuery{Page: 3, Sort: catalog.DefaultSort})

		require.NoError(t, err)
		assert.Equal(t, 3, listing.Pager.TotalPages)
		assert.True(t, listing.Pager.Next.Disabled)
	})

	t.Run("upstream error relays message", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnprocessableEntity, `{"message":"bad filter"}`)
		})

		_, err := svc.List(context.Background(), catalog.ListingQuery{Page: 1})

		var upErr *upstream.Error
		require.ErrorAs(t, err, &upErr)
		assert.Equal(t, http.StatusUnprocessableEntity, upErr.Status)
		assert.Equal(t, "bad filter", upErr.Message)
	})
}

func TestService_Detail(t *testing.T) {
	t.Run("unwraps data envelope", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/products/7", r.URL.Path)
			writeJSON(w, http.StatusOK, `{"data":{"id":7,"name":"Hoodie","price":"40","release_year":"2022","available_colors":["Red"]}}`)
		})

		p, err := svc.Detail(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, 7, p.ID)
		assert.Equal(t, catalog.Year(2022), p.ReleaseYear)
		assert.Equal(t, []string{"Red"}, p.AvailableColors)
	})

	t.Run("bare body", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"id":8,"name":"Cap","price":5}`)
		})

		p, err := svc.Detail(context.Background(), 8)

		require.NoError(t, err)
		assert.Equal(t, "Cap", p.Name)
	})

	t.Run("not found", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, `{"message":"No query results"}`)
		})

		_, err := svc.Detail(context.Background(), 99)

		assert.ErrorIs(t, err, catalogerrors.ErrProductNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("upstream must not be called")
		})

		_, err := svc.Detail(context.Background(), 0)

		assert.ErrorIs(t, err, catalogerrors.ErrInvalidProductID)
	})

	t.Run("concurrent fetches share one call", func(t *testing.T) {
		var calls atomic.Int32
		release := make(chan struct{})
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			<-release
			writeJSON(w, http.StatusOK, `{"id":3,"name":"Sock","price":2}`)
		})

		var wg, ready sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			ready.Add(1)
			go func() {
				defer wg.Done()
				ready.Done()
				p, err := svc.Detail(context.Background(), 3)
				assert.NoError(t, err)
				assert.Equal(t, 3, p.ID)
			}()
		}

		ready.Wait()
		require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
	})
}
