package woocommerce

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ProductListParams mirrors the upstream pagination and filter surface the
// storefront exposes. Zero values are omitted from the query.
type ProductListParams struct {
	Page     int
	PerPage  int
	Search   string
	Category string
	OrderBy  string
	Order    string
}

// ProductList couples a page of products with the collection totals the
// upstream reports via response headers.
type ProductList struct {
	Items      []Product
	Total      int
	TotalPages int
}

// ListProducts fetches one catalog page, surfacing upstream totals.
func (c *Client) ListProducts(ctx context.Context, params ProductListParams) (*ProductList, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(params.PerPage))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Category != "" {
		query.Set("category", params.Category)
	}
	if params.OrderBy != "" {
		query.Set("orderby", params.OrderBy)
	}
	if params.Order != "" {
		query.Set("order", params.Order)
	}

	var items []Product
	header, err := c.do(ctx, http.MethodGet, c.storeURL+commercePath+"/products", query, nil, &items, true)
	if err != nil {
		return nil, err
	}

	list := &ProductList{Items: items}
	list.Total, _ = strconv.Atoi(header.Get(TotalHeader))
	list.TotalPages, _ = strconv.Atoi(header.Get(TotalPagesHeader))
	return list, nil
}

// GetProduct fetches one product or variation record. Variations carry the
// owning product in ParentID.
func (c *Client) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	var product Product
	path := c.storeURL + commercePath + "/products/" + strconv.FormatInt(productID, 10)
	if _, err := c.do(ctx, http.MethodGet, path, nil, nil, &product, true); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProductVariations returns the variation records of a product.
func (c *Client) ListProductVariations(ctx context.Context, productID int64) ([]Product, error) {
	var variations []Product
	path := c.storeURL + commercePath + "/products/" + strconv.FormatInt(productID, 10) + "/variations"
	query := url.Values{"per_page": {"100"}}
	if _, err := c.do(ctx, http.MethodGet, path, query, nil, &variations, true); err != nil {
		return nil, err
	}
	return variations, nil
}

// ListCategories returns the product category tree as a flat list.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	query := url.Values{"per_page": {"100"}}
	path := c.storeURL + commercePath + "/products/categories"
	if _, err := c.do(ctx, http.MethodGet, path, query, nil, &categories, true); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListAttributes returns the global product attributes.
func (c *Client) ListAttributes(ctx context.Context) ([]Attribute, error) {
	var attributes []Attribute
	path := c.storeURL + commercePath + "/products/attributes"
	if _, err := c.do(ctx, http.MethodGet, path, nil, nil, &attributes, true); err != nil {
		return nil, err
	}
	return attributes, nil
}

// ListAttributeTerms returns the selectable terms of one attribute.
func (c *Client) ListAttributeTerms(ctx context.Context, attributeID int64) ([]AttributeTerm, error) {
	var terms []AttributeTerm
	query := url.Values{"per_page": {"100"}}
	path := c.storeURL + commercePath + "/products/attributes/" + strconv.FormatInt(attributeID, 10) + "/terms"
	if _, err := c.do(ctx, http.MethodGet, path, query, nil, &terms, true); err != nil {
		return nil, err
	}
	return terms, nil
}
