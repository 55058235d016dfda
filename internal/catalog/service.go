// Package catalog reshapes the upstream product surface for storefront reads.
package catalog

import (
	"context"
	"fmt"

	"github.com/studiomosaico/storefront-gateway/pkg/logger"
	"github.com/studiomosaico/storefront-gateway/pkg/woocommerce"
)

const (
	defaultPerPage = 12
	maxPerPage     = 100
)

// Client is the slice of the upstream client the catalog reads through.
type Client interface {
	ListProducts(ctx context.Context, params woocommerce.ProductListParams) (*woocommerce.ProductList, error)
	GetProduct(ctx context.Context, productID int64) (*woocommerce.Product, error)
	ListProductVariations(ctx context.Context, productID int64) ([]woocommerce.Product, error)
	ListCategories(ctx context.Context) ([]woocommerce.Category, error)
	ListAttributes(ctx context.Context) ([]woocommerce.Attribute, error)
	ListAttributeTerms(ctx context.Context, attributeID int64) ([]woocommerce.AttributeTerm, error)
}

// ProductsQuery carries the storefront's list filters.
type ProductsQuery struct {
	Page     int
	PerPage  int
	Search   string
	Category string
	OrderBy  string
	Order    string
}

// ProductPage is one page of products plus the pagination envelope.
type ProductPage struct {
	Items      []woocommerce.Product `json:"items"`
	Page       int                   `json:"page"`
	PerPage    int                   `json:"per_page"`
	Total      int                   `json:"total"`
	TotalPages int                   `json:"total_pages"`
}

// ProductDetail couples a product with its variation records.
type ProductDetail struct {
	Product    woocommerce.Product   `json:"product"`
	Variations []woocommerce.Product `json:"variations,omitempty"`
}

// AttributeDetail couples a global attribute with its selectable terms.
type AttributeDetail struct {
	Attribute woocommerce.Attribute       `json:"attribute"`
	Terms     []woocommerce.AttributeTerm `json:"terms"`
}

type Service interface {
	ListProducts(ctx context.Context, query ProductsQuery) (*ProductPage, error)
	GetProduct(ctx context.Context, productID int64) (*ProductDetail, error)
	ListCategories(ctx context.Context) ([]woocommerce.Category, error)
	ListAttributes(ctx context.Context) ([]AttributeDetail, error)
}

type service struct {
	client Client
	logg   *logger.Logger
}

func NewService(client Client, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("catalog client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{client: client, logg: logg}, nil
}

// ListProducts fetches one catalog page with normalized pagination.
func (s *service) ListProducts(ctx context.Context, query ProductsQuery) (*ProductPage, error) {
	page := query.Page
	if page <= 0 {
		page = 1
	}
	perPage := query.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	list, err := s.client.ListProducts(ctx, woocommerce.ProductListParams{
		Page:     page,
		PerPage:  perPage,
		Search:   query.Search,
		Category: query.Category,
		OrderBy:  query.OrderBy,
		Order:    query.Order,
	})
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Items:      list.Items,
		Page:       page,
		PerPage:    perPage,
		Total:      list.Total,
		TotalPages: list.TotalPages,
	}, nil
}

// GetProduct fetches a product and, for variable products, its variations.
func (s *service) GetProduct(ctx context.Context, productID int64) (*ProductDetail, error) {
	product, err := s.client.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	detail := &ProductDetail{Product: *product}
	if len(product.Variations) > 0 {
		variations, err := s.client.ListProductVariations(ctx, productID)
		if err != nil {
			ctx = s.logg.WithFields(ctx, map[string]any{"product_id": productID, "error": err.Error()})
			s.logg.Warn(ctx, "variation fetch failed, returning product without variations")
			return detail, nil
		}
		detail.Variations = variations
	}
	return detail, nil
}

func (s *service) ListCategories(ctx context.Context) ([]woocommerce.Category, error) {
	return s.client.ListCategories(ctx)
}

// ListAttributes expands each global attribute with its terms so the
// storefront can render filter controls from one response.
func (s *service) ListAttributes(ctx context.Context) ([]AttributeDetail, error) {
	attributes, err := s.client.ListAttributes(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]AttributeDetail, 0, len(attributes))
	for _, attribute := range attributes {
		terms, err := s.client.ListAttributeTerms(ctx, attribute.ID)
		if err != nil {
			ctx = s.logg.WithFields(ctx, map[string]any{"attribute_id": attribute.ID, "error": err.Error()})
			s.logg.Warn(ctx, "attribute term fetch failed, returning attribute without terms")
			terms = nil
		}
		details = append(details, AttributeDetail{Attribute: attribute, Terms: terms})
	}
	return details, nil
}
