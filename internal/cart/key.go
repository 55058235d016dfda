package cart

import (
	"strconv"
	"strings"

	"github.com/studiomosaico/storefront-gateway/pkg/woocommerce"
)

const (
	// MetaKeySecondaryQuantity carries the continuous unit-of-measure
	// quantity (e.g. square meters) alongside the integer item count.
	MetaKeySecondaryQuantity = "_m2_quantity"

	// MetaKeySample marks a sample request, exempt from secondary-quantity
	// accounting.
	MetaKeySample = "_is_sample"
)

// Variation identifiers for sample SKUs embed one of these tokens.
var sampleMarkers = []string{"free-sample", "full-size-sample"}

// ItemKey is the identity two line items must share to be considered the
// same cart entry. Equality is exact on all three fields.
type ItemKey struct {
	ProductID   int64
	VariationID int64 // 0 when the item has no variation
	IsSample    bool
}

func keyForLineItem(item woocommerce.LineItem) ItemKey {
	return ItemKey{
		ProductID:   item.ProductID,
		VariationID: item.VariationID,
		IsSample:    isSampleLineItem(item),
	}
}

func isSampleLineItem(item woocommerce.LineItem) bool {
	return parseBoolMeta(item.MetaValue(MetaKeySample))
}

func parseBoolMeta(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// containsSampleMarker reports whether the raw variation identifier names a
// sample SKU (e.g. "1023-free-sample").
func containsSampleMarker(variation string) bool {
	lowered := strings.ToLower(variation)
	for _, marker := range sampleMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// parseVariationID extracts the numeric variation identifier from its raw
// string form; 0 when the string carries no usable number.
func parseVariationID(raw string) int64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	if id, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return id
	}
	// Sample SKUs arrive as "<id>-free-sample"; take the leading digits.
	digits := trimmed
	for i, r := range trimmed {
		if r < '0' || r > '9' {
			digits = trimmed[:i]
			break
		}
	}
	if digits == "" {
		return 0
	}
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
