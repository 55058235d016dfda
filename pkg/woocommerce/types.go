// Package woocommerce is the REST client for the upstream WooCommerce and
// WordPress APIs. All wire types and HTTP plumbing live here; callers see
// domain errors from pkg/errors and never touch raw responses.
package woocommerce

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MetaData is one key/value entry on a line item. WooCommerce stores these as
// an ordered array; keys are not guaranteed unique at the storage layer but
// are treated as unique by convention.
type MetaData struct {
	ID    int64  `json:"id,omitempty"`
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// LineItem is one product/variation entry inside an order. Price, subtotal
// and total are assigned by the store; this service never computes a unit
// price.
type LineItem struct {
	ID          int64           `json:"id,omitempty"`
	Name        string          `json:"name,omitempty"`
	ProductID   int64           `json:"product_id"`
	VariationID int64           `json:"variation_id,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    string          `json:"subtotal,omitempty"`
	Total       string          `json:"total,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	MetaData    []MetaData      `json:"meta_data,omitempty"`
}

// MetaValue returns the string form of the first metadata entry with the
// given key, or "" when absent.
func (li LineItem) MetaValue(key string) string {
	for _, meta := range li.MetaData {
		if meta.Key == key {
			if meta.Value == nil {
				return ""
			}
			if s, ok := meta.Value.(string); ok {
				return s
			}
			return fmt.Sprint(meta.Value)
		}
	}
	return ""
}

// HasMeta reports whether any metadata entry carries the given key.
func (li LineItem) HasMeta(key string) bool {
	for _, meta := range li.MetaData {
		if meta.Key == key {
			return true
		}
	}
	return false
}

// Order is an upstream order. Orders with status "pending" double as the
// cart container for this gateway.
type Order struct {
	ID                 int64      `json:"id"`
	Status             string     `json:"status"`
	Currency           string     `json:"currency,omitempty"`
	Total              string     `json:"total,omitempty"`
	PaymentMethod      string     `json:"payment_method,omitempty"`
	PaymentMethodTitle string     `json:"payment_method_title,omitempty"`
	LineItems          []LineItem `json:"line_items"`
	DateCreated        string     `json:"date_created,omitempty"`
}

// OrderItemInput is the plain line-item record sent on order create/replace.
// The store prices the item from the product catalog.
type OrderItemInput struct {
	ProductID   int64      `json:"product_id"`
	VariationID int64      `json:"variation_id,omitempty"`
	Quantity    int        `json:"quantity"`
	Subtotal    string     `json:"subtotal,omitempty"`
	Total       string     `json:"total,omitempty"`
	MetaData    []MetaData `json:"meta_data,omitempty"`
}

type orderCreateRequest struct {
	Status             string           `json:"status"`
	PaymentMethod      string           `json:"payment_method"`
	PaymentMethodTitle string           `json:"payment_method_title"`
	SetPaid            bool             `json:"set_paid"`
	LineItems          []OrderItemInput `json:"line_items"`
}

type orderReplaceRequest struct {
	LineItems []OrderItemInput `json:"line_items"`
}

// Product is a catalog product or variation. For a variation, ParentID is
// the owning product.
type Product struct {
	ID               int64              `json:"id"`
	Name             string             `json:"name"`
	Slug             string             `json:"slug"`
	Type             string             `json:"type"`
	ParentID         int64              `json:"parent_id"`
	Price            string             `json:"price"`
	RegularPrice     string             `json:"regular_price"`
	SalePrice        string             `json:"sale_price"`
	ShortDescription string             `json:"short_description"`
	Description      string             `json:"description"`
	Images           []ProductImage     `json:"images,omitempty"`
	Categories       []CategoryRef      `json:"categories,omitempty"`
	Attributes       []ProductAttribute `json:"attributes,omitempty"`
	Variations       []int64            `json:"variations,omitempty"`
}

type ProductImage struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ProductAttribute struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Visible bool     `json:"visible"`
	Options []string `json:"options,omitempty"`
}

// Category is a product category node; Parent is 0 at the root.
type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Parent int64  `json:"parent"`
	Count  int    `json:"count"`
}

// Attribute is a global product attribute (e.g. color, finish).
type Attribute struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// AttributeTerm is one selectable value of a global attribute.
type AttributeTerm struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// Page is a WordPress page with rendered content.
type Page struct {
	ID      int64        `json:"id"`
	Slug    string       `json:"slug"`
	Title   RenderedText `json:"title"`
	Content RenderedText `json:"content"`
	Excerpt RenderedText `json:"excerpt"`
}

type RenderedText struct {
	Rendered string `json:"rendered"`
}

// apiError is the WooCommerce/WordPress error payload shape.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Status int `json:"status"`
	} `json:"data"`
}
