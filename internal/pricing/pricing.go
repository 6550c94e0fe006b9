package pricing

import (
	"fmt"

	"github.com/evanazhr/simple-pos-api/internal/models"
)

const taxRatePercent = 10

type LineInput struct {
	ProductID uint
	Quantity  uint
}

type Quote struct {
	Subtotal   int64 `json:"subtotal"`
	Tax        int64 `json:"tax"`
	GrandTotal int64 `json:"grand_total"`
}

// PriceOrder computes totals from authoritative product prices and
// client-submitted quantities. All amounts are integers in minor
// currency units, so no rounding can leak into persisted totals.
//
// Every product must have a matching line in items; the caller builds
// the product list from the item ids, so a miss means the inputs were
// assembled wrong, not that the client sent a bad id. Unknown ids in
// items are the caller's problem and are rejected before pricing.
func PriceOrder(products []models.Product, items []LineInput) (Quote, error) {
	qtyByProduct := make(map[uint]uint, len(items))
	for _, it := range items {
		qtyByProduct[it.ProductID] = it.Quantity
	}

	var subtotal int64
	for _, p := range products {
		qty, ok := qtyByProduct[p.ID]
		if !ok {
			return Quote{}, fmt.Errorf("product %d has no matching order line", p.ID)
		}
		subtotal += p.Price * int64(qty)
	}

	tax := subtotal * taxRatePercent / 100
	return Quote{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal + tax,
	}, nil
}
