package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studiomosaico/storefront-gateway/internal/cart"
	"github.com/studiomosaico/storefront-gateway/internal/catalog"
	"github.com/studiomosaico/storefront-gateway/internal/content"
	"github.com/studiomosaico/storefront-gateway/pkg/config"
	"github.com/studiomosaico/storefront-gateway/pkg/logger"
	"github.com/studiomosaico/storefront-gateway/pkg/woocommerce"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) Add(ctx context.Context, input cart.AddItemInput) (*cart.MutationResult, error) {
	return &cart.MutationResult{OrderID: 1}, nil
}

func (stubCartService) UpdateByID(ctx context.Context, itemID int64, input cart.UpdateItemInput) (*cart.MutationResult, error) {
	return &cart.MutationResult{OrderID: 1}, nil
}

func (stubCartService) RemoveByID(ctx context.Context, itemID int64) (*cart.RemoveResult, error) {
	return &cart.RemoveResult{Message: "item removed"}, nil
}

func (stubCartService) List(ctx context.Context) (*cart.View, error) {
	return &cart.View{LineItems: []cart.ItemView{}}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) ListProducts(ctx context.Context, query catalog.ProductsQuery) (*catalog.ProductPage, error) {
	return &catalog.ProductPage{}, nil
}

func (stubCatalogService) GetProduct(ctx context.Context, productID int64) (*catalog.ProductDetail, error) {
	return &catalog.ProductDetail{}, nil
}

func (stubCatalogService) ListCategories(ctx context.Context) ([]woocommerce.Category, error) {
	return nil, nil
}

func (stubCatalogService) ListAttributes(ctx context.Context) ([]catalog.AttributeDetail, error) {
	return nil, nil
}

type stubContentService struct{}

func (stubContentService) ListPages(ctx context.Context) ([]content.PageSummary, error) {
	return nil, nil
}

func (stubContentService) GetPage(ctx context.Context, slug string) (*content.PageView, error) {
	return &content.PageView{Slug: slug}, nil
}

func newTestRouter() http.Handler {
	return NewRouter(RouterParams{
		Config: &config.Config{
			App:  config.AppConfig{Env: "dev"},
			CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		},
		Logger:         logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		StorePinger:    stubPinger{},
		CartService:    stubCartService{},
		CatalogService: stubCatalogService{},
		ContentService: stubContentService{},
	})
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"health live", http.MethodGet, "/health/live", "", http.StatusOK},
		{"health ready", http.MethodGet, "/health/ready", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"cart fetch", http.MethodGet, "/api/v1/cart", "", http.StatusOK},
		{"cart add", http.MethodPost, "/api/v1/cart/items", `{"product_id":1,"quantity":1}`, http.StatusCreated},
		{"cart update", http.MethodPut, "/api/v1/cart/items/7", `{"quantity":2}`, http.StatusOK},
		{"cart remove", http.MethodDelete, "/api/v1/cart/items/7", "", http.StatusOK},
		{"products", http.MethodGet, "/api/v1/catalog/products", "", http.StatusOK},
		{"product detail", http.MethodGet, "/api/v1/catalog/products/5", "", http.StatusOK},
		{"categories", http.MethodGet, "/api/v1/catalog/categories", "", http.StatusOK},
		{"attributes", http.MethodGet, "/api/v1/catalog/attributes", "", http.StatusOK},
		{"pages", http.MethodGet, "/api/v1/content/pages", "", http.StatusOK},
		{"page detail", http.MethodGet, "/api/v1/content/pages/about", "", http.StatusOK},
		{"unknown", http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.want {
				t.Fatalf("%s %s: expected %d got %d (%s)", tt.method, tt.path, tt.want, resp.Code, resp.Body.String())
			}
		})
	}
}

type countingCartService struct {
	stubCartService
	adds int
}

func (s *countingCartService) Add(ctx context.Context, input cart.AddItemInput) (*cart.MutationResult, error) {
	s.adds++
	return &cart.MutationResult{OrderID: int64(s.adds)}, nil
}

type memoryIdempotencyStore struct {
	data map[string]string
}

func (m *memoryIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (m *memoryIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	m.data[key] = str
	return true, nil
}

func (m *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

func TestRouterReplaysIdempotentCartMutations(t *testing.T) {
	svc := &countingCartService{}
	store := &memoryIdempotencyStore{data: make(map[string]string)}
	router := NewRouter(RouterParams{
		Config: &config.Config{
			App:  config.AppConfig{Env: "dev"},
			CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		},
		Logger:           logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		StorePinger:      stubPinger{},
		IdempotencyStore: store,
		CartService:      svc,
		CatalogService:   stubCatalogService{},
		ContentService:   stubContentService{},
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":1,"quantity":1}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "router-key")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	first := send()
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", first.Code, first.Body.String())
	}
	if len(store.data) != 1 {
		t.Fatalf("expected one stored record, got %d", len(store.data))
	}

	second := send()
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201 got %d (%s)", second.Code, second.Body.String())
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("expected replayed body %s got %s", first.Body.String(), second.Body.String())
	}
	if svc.adds != 1 {
		t.Fatalf("service handled %d adds, expected the retry to be replayed", svc.adds)
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter()

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected request id header")
	}
}
