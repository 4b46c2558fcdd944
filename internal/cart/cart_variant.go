package cart

import (
	"fmt"
	"strings"
)

const (
	MinQuantity = 1
	MaxQuantity = 10
)

// VariantKey identifies a cart line. Color and size are normalized, so
// " Red " and "red" are the same variant and nil, "" and "  " all mean
// "no variant".
type VariantKey struct {
	ProductID int
	Color     string
	Size      string
}

func NewVariantKey(productID int, color, size string) VariantKey {
	return VariantKey{
		ProductID: productID,
		Color:     normalize(color),
		Size:      normalize(size),
	}
}

func (k VariantKey) String() string {
	return fmt.Sprintf("%d__%s__%s", k.ProductID, k.Color, k.Size)
}

func (it Item) Key() VariantKey {
	return NewVariantKey(it.ProductID, deref(it.Color), deref(it.Size))
}

// ClampQuantity bounds a requested quantity to [MinQuantity, MaxQuantity].
func ClampQuantity(q int) int {
	return max(MinQuantity, min(MaxQuantity, q))
}

// NewAddRequest builds the upstream body, dropping blank variant fields.
func NewAddRequest(quantity int, color, size, image string) AddRequest {
	req := AddRequest{Quantity: quantity}
	if strings.TrimSpace(color) != "" {
		req.Color = color
	}
	if strings.TrimSpace(size) != "" {
		req.Size = size
	}
	if strings.TrimSpace(image) != "" {
		req.Image = image
	}
	return req
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
