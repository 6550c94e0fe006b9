package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evanazhr/simple-pos-api/internal/models"
)

func TestPriceOrder(t *testing.T) {
	products := []models.Product{
		{ID: 1, Name: "americano", Price: 10000},
		{ID: 2, Name: "latte", Price: 5000},
	}
	items := []LineInput{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}

	quote, err := PriceOrder(products, items)
	require.NoError(t, err)
	require.Equal(t, int64(25000), quote.Subtotal)
	require.Equal(t, int64(2500), quote.Tax)
	require.Equal(t, int64(27500), quote.GrandTotal)
}

func TestPriceOrderEmpty(t *testing.T) {
	quote, err := PriceOrder(nil, nil)
	require.NoError(t, err)
	require.Equal(t, int64(0), quote.Subtotal)
	require.Equal(t, int64(0), quote.Tax)
	require.Equal(t, int64(0), quote.GrandTotal)
}

func TestPriceOrderMissingLine(t *testing.T) {
	products := []models.Product{{ID: 1, Name: "americano", Price: 10000}}

	_, err := PriceOrder(products, []LineInput{{ProductID: 2, Quantity: 1}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no matching order line")
}

func TestPriceOrderIntegerTax(t *testing.T) {
	// 1001 * 10 / 100 truncates to 100; nothing fractional may ever
	// reach a persisted total.
	products := []models.Product{{ID: 1, Name: "mint", Price: 1001}}

	quote, err := PriceOrder(products, []LineInput{{ProductID: 1, Quantity: 1}})
	require.NoError(t, err)
	require.Equal(t, int64(1001), quote.Subtotal)
	require.Equal(t, int64(100), quote.Tax)
	require.Equal(t, int64(1101), quote.GrandTotal)
}
