// Package content serves store pages sourced from the WordPress side of the
// upstream installation.
package content

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/studiomosaico/storefront-gateway/pkg/errors"
	"github.com/studiomosaico/storefront-gateway/pkg/logger"
	"github.com/studiomosaico/storefront-gateway/pkg/woocommerce"
)

// Client is the slice of the upstream client the content reads go through.
type Client interface {
	ListPages(ctx context.Context) ([]woocommerce.Page, error)
	GetPageBySlug(ctx context.Context, slug string) (*woocommerce.Page, error)
}

// PageSummary is the listing row for a page.
type PageSummary struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// PageView is the full rendered page.
type PageView struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Excerpt string `json:"excerpt,omitempty"`
}

type Service interface {
	ListPages(ctx context.Context) ([]PageSummary, error)
	GetPage(ctx context.Context, slug string) (*PageView, error)
}

type service struct {
	client Client
	logg   *logger.Logger
}

func NewService(client Client, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("content client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{client: client, logg: logg}, nil
}

func (s *service) ListPages(ctx context.Context) ([]PageSummary, error) {
	pages, err := s.client.ListPages(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]PageSummary, 0, len(pages))
	for _, page := range pages {
		summaries = append(summaries, PageSummary{
			Slug:  page.Slug,
			Title: page.Title.Rendered,
		})
	}
	return summaries, nil
}

func (s *service) GetPage(ctx context.Context, slug string) (*PageView, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}

	page, err := s.client.GetPageBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &PageView{
		Slug:    page.Slug,
		Title:   page.Title.Rendered,
		Content: page.Content.Rendered,
		Excerpt: page.Excerpt.Rendered,
	}, nil
}
