package woocommerce

import (
	"context"
	"net/http"
	"net/url"

	pkgerrors "github.com/studiomosaico/storefront-gateway/pkg/errors"
)

// ListPages returns published WordPress pages.
func (c *Client) ListPages(ctx context.Context) ([]Page, error) {
	var pages []Page
	query := url.Values{"per_page": {"100"}, "status": {"publish"}}
	if _, err := c.do(ctx, http.MethodGet, c.contentURL+contentPath+"/pages", query, nil, &pages, false); err != nil {
		return nil, err
	}
	return pages, nil
}

// GetPageBySlug returns the published page with the given slug. The content
// API answers slug filters with a list, so an empty list is a NotFound.
func (c *Client) GetPageBySlug(ctx context.Context, slug string) (*Page, error) {
	var pages []Page
	query := url.Values{"slug": {slug}, "status": {"publish"}}
	if _, err := c.do(ctx, http.MethodGet, c.contentURL+contentPath+"/pages", query, nil, &pages, false); err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "page not found")
	}
	return &pages[0], nil
}
