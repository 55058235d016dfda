package cart

import (
	"context"

	"github.com/studiomosaico/storefront-gateway/pkg/logger"
	"github.com/studiomosaico/storefront-gateway/pkg/woocommerce"
)

// match points at one existing line item and the pending order that owns it.
type match struct {
	order *woocommerce.Order
	item  *woocommerce.LineItem
	index int
}

// resolveProductID applies the parent-product substitution rule: some
// storefront clients pass a variation's own identifier as the product
// identifier. When product and variation ids coincide, the product record is
// fetched and its parent substituted. A failed fetch falls back to the
// caller's identifier instead of failing the whole operation.
func resolveProductID(ctx context.Context, products ProductLoader, logg *logger.Logger, productID, variationID int64) int64 {
	if productID == 0 || productID != variationID {
		return productID
	}
	product, err := products.GetProduct(ctx, productID)
	if err != nil {
		if logg != nil {
			ctx = logg.WithFields(ctx, map[string]any{"product_id": productID, "error": err.Error()})
			logg.Warn(ctx, "parent product lookup failed, keeping supplied id")
		}
		return productID
	}
	if product.ParentID != 0 {
		return product.ParentID
	}
	return productID
}

// findMatch scans every line item of every pending order in listing order
// and returns the first item whose key equals target, or nil. At most one
// match is ever acted on: the store keeps one line item per distinct key.
func findMatch(orders []woocommerce.Order, target ItemKey) *match {
	for i := range orders {
		for j := range orders[i].LineItems {
			if keyForLineItem(orders[i].LineItems[j]) == target {
				return &match{
					order: &orders[i],
					item:  &orders[i].LineItems[j],
					index: j,
				}
			}
		}
	}
	return nil
}

// findItemOwner locates the pending order containing the line item with the
// given identifier.
func findItemOwner(orders []woocommerce.Order, itemID int64) (*woocommerce.Order, int) {
	for i := range orders {
		for j := range orders[i].LineItems {
			if orders[i].LineItems[j].ID == itemID {
				return &orders[i], j
			}
		}
	}
	return nil, -1
}
