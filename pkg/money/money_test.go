package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "$25.99", Format(decimal.RequireFromString("25.99")))
	assert.Equal(t, "$2.00", Format(decimal.NewFromInt(2)))
	assert.Equal(t, "$0.00", Format(decimal.Zero))
	assert.Equal(t, "$0.13", Format(decimal.RequireFromString("0.125")))
	assert.Equal(t, "-$1.50", Format(decimal.RequireFromString("-1.5")))
}

func TestFormatShippingAndDiscount(t *testing.T) {
	assert.Equal(t, "Free", FormatShipping(decimal.Zero))
	assert.Equal(t, "$5.99", FormatShipping(decimal.RequireFromString("5.99")))
	assert.Equal(t, "-$2.00", FormatDiscount(decimal.NewFromInt(2)))
	assert.Equal(t, "-$0.00", FormatDiscount(decimal.Zero))
}

func TestRound(t *testing.T) {
	assert.True(t, Round(decimal.RequireFromString("2.345")).Equal(decimal.RequireFromString("2.35")))
	assert.True(t, Round(decimal.RequireFromString("2.344")).Equal(decimal.RequireFromString("2.34")))
}

func TestNumberRoundTrip(t *testing.T) {
	payload, err := json.Marshal(map[string]json.Number{"price": Number(decimal.RequireFromString("19.99"))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":19.99}`, string(payload))

	var decoded map[string]json.Number
	require.NoError(t, json.Unmarshal(payload, &decoded))
	amount, err := FromNumber(decoded["price"])
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("19.99")))

	_, err = FromNumber("")
	assert.Error(t, err)
}
