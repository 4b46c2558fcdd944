package cart

import "github.com/shopspring/decimal"

type Brand struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Item is one cart line as the upstream reports it. The upstream has no line
// id; (ProductID, Color, Size) is the identity, see Key.
type Item struct {
	ProductID  int             `json:"id"`
	Name       string          `json:"name"`
	CoverImage string          `json:"cover_image,omitempty"`
	Image      string          `json:"image,omitempty"`
	Price      decimal.Decimal `json:"price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Quantity   int             `json:"quantity"`
	Brand      *Brand          `json:"brand,omitempty"`
	Color      *string         `json:"color"`
	Size       *string         `json:"size"`
}

// AddOptions are the shopper's choices for a new cart line.
type AddOptions struct {
	Quantity int    `validate:"min=1"`
	Color    string `validate:"max=255"`
	Size     string `validate:"max=255"`
	Image    string
}

// VariantOptions select one variant of a product already in the cart.
type VariantOptions struct {
	Color string `json:"color" form:"color" binding:"max=255"`
	Size  string `json:"size" form:"size" binding:"max=255"`
}

// AddRequest is the upstream POST /cart/products/{id} body. Blank fields are
// omitted, never sent as empty strings.
type AddRequest struct {
	Quantity int    `json:"quantity"`
	Color    string `json:"color,omitempty"`
	Size     string `json:"size,omitempty"`
	Image    string `json:"image,omitempty"`
}

type State struct {
	Items     []Item          `json:"items"`
	IsOpen    bool            `json:"is_open"`
	Pending   bool            `json:"pending"`
	Error     string          `json:"error,omitempty"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"`
}

type AddItemRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Color    string `json:"color"`
	Size     string `json:"size"`
	Image    string `json:"image"`
}

// UpdateQtyRequest.Quantity is a pointer so an explicit 0 reaches the clamp
// instead of failing the required check.
type UpdateQtyRequest struct {
	Quantity *int   `json:"quantity" binding:"required"`
	Color    string `json:"color"`
	Size     string `json:"size"`
}

type PurchaseRequest struct {
	Quantity int    `json:"quantity"`
	Color    string `json:"color"`
	Size     string `json:"size"`
}
