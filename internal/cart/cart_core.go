package cart

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	carterrors "github.com/khatias/rdbr-project/internal/cart/errors"
	"github.com/khatias/rdbr-project/internal/upstream"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Core mirrors one shopper's upstream cart. Local items are always replaced
// by what the upstream reports; only the variant image cache is local truth.
//
// Every operation holds the pending flag for its whole round-trip. A second
// operation that arrives meanwhile fails with ErrCartBusy instead of racing
// a delete-and-rebuild on the same product.
type Core struct {
	gateway  Gateway
	images   ImageCache
	validate *validator.Validate
	logger   *zap.Logger

	pending atomic.Bool

	mu     sync.RWMutex
	items  []Item
	errMsg string
	open   bool
}

// mutationTimeout bounds an update or remove from the first upstream read to
// the final reload. The sequence ignores cancellation of the request.
const mutationTimeout = 2 * time.Minute

type variant struct {
	color    string
	size     string
	quantity int
}

func NewCore(gateway Gateway, images ImageCache, logger ...*zap.Logger) *Core {
	l := zap.L().Named("cart.core")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cart.core")
	}
	if images == nil {
		images = NewMemoryImageCache()
	}
	return &Core{
		gateway:  gateway,
		images:   images,
		validate: validator.New(),
		logger:   l,
		items:    []Item{},
	}
}

// ========================
// helpers
// ========================

func (c *Core) begin() error {
	if !c.pending.CompareAndSwap(false, true) {
		return carterrors.ErrCartBusy
	}
	return nil
}

func (c *Core) end() {
	c.pending.Store(false)
}

func (c *Core) setError(msg string) {
	c.mu.Lock()
	c.errMsg = msg
	c.mu.Unlock()
}

func (c *Core) setOpen(open bool) {
	c.mu.Lock()
	c.open = open
	c.mu.Unlock()
}

// refresh replaces local items with the upstream cart. On failure the list
// is cleared so the cart never renders stale lines.
func (c *Core) refresh(ctx context.Context) error {
	items, err := c.gateway.List(ctx)
	if err != nil {
		c.logger.Warn("cart reload failed", zap.Error(err))
		c.mu.Lock()
		c.items = []Item{}
		c.errMsg = upstream.MessageOf(err, "Failed to load cart")
		c.mu.Unlock()
		return err
	}

	merged := c.mergeImages(ctx, items)

	c.mu.Lock()
	c.items = merged
	c.mu.Unlock()
	return nil
}

func (c *Core) mergeImages(ctx context.Context, items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		if cached, ok := c.images.Get(ctx, it.Key()); ok && cached != it.Image {
			it.Image = cached
		}
		out[i] = it
	}
	return out
}

func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), mutationTimeout)
}

func (c *Core) siblings(productID int) []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Item
	for _, it := range c.items {
		if it.ProductID == productID {
			out = append(out, it)
		}
	}
	return out
}

// rebuild replaces every upstream entry of productID with variants: one bulk
// delete, then one add per variant, strictly in order. There is no rollback;
// a failed add leaves the upstream with the variants added so far.
func (c *Core) rebuild(ctx context.Context, productID int, variants []variant) error {
	if err := c.gateway.Delete(ctx, productID); err != nil {
		return err
	}

	for _, v := range variants {
		if v.quantity <= 0 {
			continue
		}
		req := NewAddRequest(v.quantity, v.color, v.size, "")
		if img, ok := c.images.Get(ctx, NewVariantKey(productID, v.color, v.size)); ok {
			req.Image = img
		}
		if err := c.gateway.Add(ctx, productID, req); err != nil {
			c.logger.Error("cart rebuild interrupted",
				zap.Int("product_id", productID),
				zap.String("color", v.color),
				zap.String("size", v.size),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}

// finishRebuild runs rebuild and reloads. After a failed rebuild the reload
// shows whatever the upstream now holds and the rebuild error stays visible
// next to it.
func (c *Core) finishRebuild(ctx context.Context, productID int, variants []variant, fallback string) (State, error) {
	if err := c.rebuild(ctx, productID, variants); err != nil {
		msg := upstream.MessageOf(err, fallback)
		_ = c.refresh(ctx)
		c.setError(msg)
		return c.State(), err
	}

	if err := c.refresh(ctx); err != nil {
		return c.State(), err
	}
	return c.State(), nil
}

// ========================
// operations
// ========================

func (c *Core) Reload(ctx context.Context) (State, error) {
	if err := c.begin(); err != nil {
		return c.State(), err
	}
	defer c.end()

	c.setError("")
	err := c.refresh(ctx)
	return c.State(), err
}

func (c *Core) Add(ctx context.Context, productID int, opts AddOptions) (State, error) {
	if productID <= 0 {
		return c.State(), carterrors.ErrInvalidProductID
	}
	if err := c.validate.Struct(opts); err != nil {
		return c.State(), carterrors.ErrInvalidQuantity
	}

	if err := c.begin(); err != nil {
		return c.State(), err
	}
	defer c.end()

	c.setError("")

	if strings.TrimSpace(opts.Image) != "" {
		c.images.Set(ctx, NewVariantKey(productID, opts.Color, opts.Size), opts.Image)
	}

	req := NewAddRequest(opts.Quantity, opts.Color, opts.Size, opts.Image)
	if err := c.gateway.Add(ctx, productID, req); err != nil {
		c.setError(upstream.MessageOf(err, "Failed to add to cart"))
		return c.State(), err
	}

	c.setOpen(true)

	err := c.refresh(ctx)
	return c.State(), err
}

func (c *Core) UpdateQuantity(ctx context.Context, productID, quantity int, opts VariantOptions) (State, error) {
	if productID <= 0 {
		return c.State(), carterrors.ErrInvalidProductID
	}
	next := ClampQuantity(quantity)

	if err := c.begin(); err != nil {
		return c.State(), err
	}
	defer c.end()

	c.setError("")

	ctx, cancel := detach(ctx)
	defer cancel()

	// the upstream may have changed since the last reload
	if err := c.refresh(ctx); err != nil {
		return c.State(), err
	}

	target := NewVariantKey(productID, opts.Color, opts.Size)
	siblings := c.siblings(productID)

	found := false
	variants := make([]variant, 0, len(siblings))
	for _, it := range siblings {
		q := it.Quantity
		if it.Key() == target {
			q = next
			found = true
		}
		variants = append(variants, variant{color: deref(it.Color), size: deref(it.Size), quantity: q})
	}
	if !found {
		return c.State(), carterrors.ErrCartItemNotFound
	}

	return c.finishRebuild(ctx, productID, variants, "Failed to update quantity")
}

func (c *Core) Remove(ctx context.Context, productID int, opts VariantOptions) (State, error) {
	if productID <= 0 {
		return c.State(), carterrors.ErrInvalidProductID
	}

	if err := c.begin(); err != nil {
		return c.State(), err
	}
	defer c.end()

	c.setError("")

	ctx, cancel := detach(ctx)
	defer cancel()

	if err := c.refresh(ctx); err != nil {
		return c.State(), err
	}

	target := NewVariantKey(productID, opts.Color, opts.Size)
	siblings := c.siblings(productID)

	found := false
	variants := make([]variant, 0, len(siblings))
	for _, it := range siblings {
		if it.Key() == target {
			found = true
			continue
		}
		variants = append(variants, variant{color: deref(it.Color), size: deref(it.Size), quantity: it.Quantity})
	}
	if !found {
		return c.State(), carterrors.ErrCartItemNotFound
	}
	c.images.Delete(ctx, target)

	return c.finishRebuild(ctx, productID, variants, "Failed to remove item")
}

func (c *Core) Open() State {
	c.setOpen(true)
	return c.State()
}

func (c *Core) Close() State {
	c.setOpen(false)
	return c.State()
}

func (c *Core) Pending() bool {
	return c.pending.Load()
}

// Items returns a copy of the current lines.
func (c *Core) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Item(nil), c.items...)
}

func (c *Core) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := append([]Item{}, c.items...)
	return State{
		Items:     items,
		IsOpen:    c.open,
		Pending:   c.pending.Load(),
		Error:     c.errMsg,
		Subtotal:  Subtotal(items),
		ItemCount: len(items),
	}
}

// Subtotal is the sum of price times quantity over items.
func Subtotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
