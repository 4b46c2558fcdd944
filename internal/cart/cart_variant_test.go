package cart_test

import (
	"encoding/json"
	"testing"

	"github.com/khatias/rdbr-project/internal/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestVariantKey_Normalizes(t *testing.T) {
	a := cart.NewVariantKey(7, "Red", "M")
	b := cart.NewVariantKey(7, " red ", "m")
	assert.Equal(t, a, b)
	assert.Equal(t, "7__red__m", a.String())

	none := cart.NewVariantKey(7, "", "")
	assert.Equal(t, none, cart.NewVariantKey(7, "   ", " "))
	assert.Equal(t, none, cart.Item{ProductID: 7}.Key())
	assert.NotEqual(t, a, cart.NewVariantKey(8, "red", "m"))
}

func TestItemKey(t *testing.T) {
	it := cart.Item{ProductID: 3, Color: strp("Blue "), Size: strp("XL")}
	assert.Equal(t, cart.NewVariantKey(3, "blue", "xl"), it.Key())
}

func TestClampQuantity(t *testing.T) {
	for q := -5; q <= 20; q++ {
		got := cart.ClampQuantity(q)
		assert.GreaterOrEqual(t, got, cart.MinQuantity)
		assert.LessOrEqual(t, got, cart.MaxQuantity)
	}
	assert.Equal(t, 5, cart.ClampQuantity(5))
	assert.Equal(t, 1, cart.ClampQuantity(0))
	assert.Equal(t, 10, cart.ClampQuantity(11))
}

func TestNewAddRequest_OmitsBlankFields(t *testing.T) {
	raw, err := json.Marshal(cart.NewAddRequest(3, "", "  ", ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"quantity":3}`, string(raw))

	raw, err = json.Marshal(cart.NewAddRequest(1, "Red", "M", "red.png"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"quantity":1,"color":"Red","size":"M","image":"red.png"}`, string(raw))
}
