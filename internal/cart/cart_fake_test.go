package cart_test

import (
	"context"
	"errors"
	"sync"

	"github.com/khatias/rdbr-project/internal/cart"

	"github.com/shopspring/decimal"
)

// fakeUpstream keeps cart entries the way the upstream does: one entry per
// product variant, DELETE drops every variant of a product.
type fakeUpstream struct {
	mu      sync.Mutex
	items   []cart.Item
	adds    []cart.AddRequest
	deletes []int

	listErr   error
	failAddAt int // 1-based index of the Add call that fails, 0 for none
	block     chan struct{}
}

func (f *fakeUpstream) seed(productID int, color, size string, qty int) {
	it := cart.Item{
		ProductID: productID,
		Name:      "product",
		Price:     decimal.NewFromInt(10),
		Quantity:  qty,
	}
	if color != "" {
		it.Color = strp(color)
	}
	if size != "" {
		it.Size = strp(size)
	}
	f.items = append(f.items, it)
}

func (f *fakeUpstream) List(ctx context.Context) ([]cart.Item, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]cart.Item{}, f.items...), nil
}

func (f *fakeUpstream) Add(ctx context.Context, productID int, req cart.AddRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adds = append(f.adds, req)
	if f.failAddAt > 0 && len(f.adds) == f.failAddAt {
		return errors.New("add rejected")
	}
	for i, it := range f.items {
		if it.Key() == cart.NewVariantKey(productID, req.Color, req.Size) {
			f.items[i].Quantity += req.Quantity
			return nil
		}
	}
	f.seed(productID, req.Color, req.Size, req.Quantity)
	if req.Image != "" {
		f.items[len(f.items)-1].Image = req.Image
	}
	return nil
}

func (f *fakeUpstream) Delete(ctx context.Context, productID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, productID)
	kept := f.items[:0]
	for _, it := range f.items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeUpstream) quantities(productID int) map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int{}
	for _, it := range f.items {
		if it.ProductID == productID {
			k := it.Key()
			out[k.Color+"/"+k.Size] = it.Quantity
		}
	}
	return out
}
