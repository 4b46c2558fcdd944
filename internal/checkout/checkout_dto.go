package checkout

import (
	"time"

	"github.com/khatias/rdbr-project/internal/cart"

	"github.com/shopspring/decimal"
)

const (
	AggregateSession       = "SESSION"
	EventCheckoutCompleted = "CHECKOUT_COMPLETED"
)

// Details is the contact form sent with an order. ZipCode is optional.
type Details struct {
	Name    string `json:"name" validate:"required"`
	Surname string `json:"surname" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
	ZipCode string `json:"zip_code"`
}

type OrderSummary struct {
	Items     []cart.Item     `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Delivery  decimal.Decimal `json:"delivery"`
	Total     decimal.Decimal `json:"total"`
}

type Result struct {
	Message string       `json:"message"`
	Summary OrderSummary `json:"summary"`
	Cart    cart.State   `json:"cart"`
}

// CheckoutCompletedPayload is the outbox payload of EventCheckoutCompleted.
type CheckoutCompletedPayload struct {
	SessionKey  string          `json:"session_key"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	ItemCount   int             `json:"item_count"`
	Total       decimal.Decimal `json:"total"`
	CompletedAt time.Time       `json:"completed_at"`
}
