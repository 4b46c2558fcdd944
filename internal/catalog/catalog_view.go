package catalog

import (
	"strings"

	catalogerrors "github.com/khatias/rdbr-project/internal/catalog/errors"
)

const (
	// DefaultSize is sent for products that offer no sizes.
	DefaultSize = "S"

	maxQuantityOption = 10
)

// ProductView is the detail page model of a product.
type ProductView struct {
	Product         Product  `json:"product"`
	Gallery         []string `json:"gallery"`
	ActiveIndex     int      `json:"active_index"`
	ActiveColor     string   `json:"active_color,omitempty"`
	Stock           *int     `json:"stock,omitempty"`
	QuantityOptions []int    `json:"quantity_options"`
}

// Selection is what a purchase adds to the cart.
type Selection struct {
	Color    string
	Size     string
	Quantity int
	Image    string
}

// Gallery lists the cover image followed by the product images, without
// blanks or duplicates.
func Gallery(p Product) []string {
	raw := append([]string{p.CoverImage}, p.Images...)
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, u := range raw {
		key := strings.TrimSpace(u)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, u)
	}
	return out
}

func indexFold(values []string, v string) int {
	if v == "" {
		return -1
	}
	needle := strings.ToLower(strings.TrimSpace(v))
	for i, x := range values {
		if strings.ToLower(strings.TrimSpace(x)) == needle {
			return i
		}
	}
	return -1
}

func coverOffset(p Product) int {
	for _, img := range p.Images {
		if img == p.CoverImage {
			return 0
		}
	}
	return 1
}

// ColorImageIndex is the gallery position showing color. Colors map onto
// the product images in order, after the cover when the cover is not one
// of them; unknown colors fall back to the first one.
func ColorImageIndex(p Product, gallery []string, color string) int {
	if len(p.AvailableColors) == 0 {
		return 0
	}
	base := indexFold(p.AvailableColors, color)
	if base < 0 {
		base = 0
	}
	idx := base + coverOffset(p)
	return max(0, min(idx, len(gallery)-1))
}

// ColorAt is the color shown at a gallery position, if any.
func ColorAt(p Product, index int) (string, bool) {
	ci := index - coverOffset(p)
	if ci < 0 || ci >= len(p.AvailableColors) {
		return "", false
	}
	return p.AvailableColors[ci], true
}

// Stock is the product's non-negative stock, when the upstream reports it.
func Stock(p Product) *int {
	if p.Quantity == nil {
		return nil
	}
	s := max(0, *p.Quantity)
	return &s
}

// QuantityOptions lists the quantities a shopper can pick: 1 to 10, capped
// by known stock.
func QuantityOptions(stock *int) []int {
	limit := maxQuantityOption
	if stock != nil {
		limit = min(limit, *stock)
	}
	out := make([]int, 0, max(0, limit))
	for q := 1; q <= limit; q++ {
		out = append(out, q)
	}
	return out
}

func NewProductView(p Product) ProductView {
	gallery := Gallery(p)

	initial := ""
	if p.Color != nil {
		initial = *p.Color
	} else if len(p.AvailableColors) > 0 {
		initial = p.AvailableColors[0]
	}

	active := ColorImageIndex(p, gallery, initial)
	color, _ := ColorAt(p, active)
	stock := Stock(p)

	return ProductView{
		Product:         p,
		Gallery:         gallery,
		ActiveIndex:     active,
		ActiveColor:     color,
		Stock:           stock,
		QuantityOptions: QuantityOptions(stock),
	}
}

// ResolveSelection turns the shopper's picks into a cart line. A color is
// required when the product offers any. The size matches the offered sizes
// case-insensitively and otherwise falls back to the first one; products
// without sizes get DefaultSize. Quantity is bounded to 1..10.
func ResolveSelection(p Product, opts PurchaseOptions) (Selection, error) {
	sel := Selection{Quantity: max(1, min(maxQuantityOption, opts.Quantity))}

	if len(p.AvailableColors) > 0 {
		if strings.TrimSpace(opts.Color) == "" {
			return Selection{}, catalogerrors.ErrColorRequired
		}
		i := indexFold(p.AvailableColors, opts.Color)
		if i < 0 {
			return Selection{}, catalogerrors.ErrUnknownColor
		}
		sel.Color = p.AvailableColors[i]
	}

	if len(p.AvailableSizes) > 0 {
		sel.Size = p.AvailableSizes[0]
		if i := indexFold(p.AvailableSizes, opts.Size); i >= 0 {
			sel.Size = p.AvailableSizes[i]
		}
	} else {
		sel.Size = DefaultSize
	}

	gallery := Gallery(p)
	if len(gallery) > 0 {
		sel.Image = gallery[ColorImageIndex(p, gallery, sel.Color)]
	}
	return sel, nil
}
