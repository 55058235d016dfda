package cart

import (
	"github.com/shopspring/decimal"

	"github.com/studiomosaico/storefront-gateway/pkg/woocommerce"
)

// secondaryQuantityScale is the stored precision of _m2_quantity.
const secondaryQuantityScale = 3

// mergeResult is the reconciled state of a line item after folding an
// incoming quantity (and optional secondary quantity) into it.
type mergeResult struct {
	Quantity          int
	SecondaryQuantity decimal.Decimal
	HasSecondary      bool
	UnitPrice         decimal.Decimal
	Subtotal          string
	Total             string
}

// mergeLineItem folds qtyDelta and secondaryDelta into existing. The unit
// price is carried over from the existing item, never recomputed from the
// catalog. Normal items price by secondary quantity (area), samples by the
// integer count; that asymmetry is a domain rule.
func mergeLineItem(existing woocommerce.LineItem, qtyDelta int, secondaryDelta *decimal.Decimal) mergeResult {
	result := mergeResult{
		Quantity:  existing.Quantity + qtyDelta,
		UnitPrice: existing.Price,
	}

	sample := isSampleLineItem(existing)
	existingSecondary, hasExisting := secondaryQuantityOf(existing)
	if !sample && (hasExisting || secondaryDelta != nil) {
		merged := existingSecondary
		if secondaryDelta != nil {
			merged = merged.Add(*secondaryDelta)
		}
		result.SecondaryQuantity = merged.Round(secondaryQuantityScale)
		result.HasSecondary = true
	}

	pricedQuantity := decimal.NewFromInt(int64(result.Quantity))
	if result.HasSecondary {
		pricedQuantity = result.SecondaryQuantity
	}
	amount := result.UnitPrice.Mul(pricedQuantity).StringFixed(2)
	result.Subtotal = amount
	result.Total = amount
	return result
}

// secondaryQuantityOf reads the stored _m2_quantity of a line item.
func secondaryQuantityOf(item woocommerce.LineItem) (decimal.Decimal, bool) {
	raw := item.MetaValue(MetaKeySecondaryQuantity)
	if raw == "" {
		return decimal.Zero, false
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}
