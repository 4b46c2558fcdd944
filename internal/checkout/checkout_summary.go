package checkout

import (
	"github.com/khatias/rdbr-project/internal/cart"

	"github.com/shopspring/decimal"
)

// Summary prices items for the order page. Delivery is charged only when
// there is something to deliver.
func Summary(items []cart.Item, deliveryFee decimal.Decimal) OrderSummary {
	subtotal := cart.Subtotal(items)
	delivery := decimal.Zero
	if len(items) > 0 {
		delivery = deliveryFee
	}

	return OrderSummary{
		Items:     append([]cart.Item{}, items...),
		ItemCount: len(items),
		Subtotal:  subtotal,
		Delivery:  delivery,
		Total:     subtotal.Add(delivery),
	}
}
