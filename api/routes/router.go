package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/studiomosaico/storefront-gateway/api/controllers"
	"github.com/studiomosaico/storefront-gateway/api/middleware"
	"github.com/studiomosaico/storefront-gateway/internal/cart"
	"github.com/studiomosaico/storefront-gateway/internal/catalog"
	"github.com/studiomosaico/storefront-gateway/internal/content"
	"github.com/studiomosaico/storefront-gateway/pkg/config"
	"github.com/studiomosaico/storefront-gateway/pkg/logger"
	"github.com/studiomosaico/storefront-gateway/pkg/metrics"
	pkgredis "github.com/studiomosaico/storefront-gateway/pkg/redis"
)

// RouterParams carries the dependencies the HTTP surface needs. StorePinger
// and IdempotencyStore are interfaces so tests can stub the upstream.
type RouterParams struct {
	Config           *config.Config
	Logger           *logger.Logger
	StorePinger      controllers.Pinger
	RedisPinger      controllers.Pinger
	IdempotencyStore pkgredis.IdempotencyStore
	Registry         *prometheus.Registry
	CartService      cart.Service
	CatalogService   catalog.Service
	ContentService   content.Service
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()

	registry := p.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	reqMetrics := metrics.NewRequestMetrics(registry)

	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.Metrics(reqMetrics),
		middleware.CORS(p.Config.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.Logger, p.StorePinger, p.RedisPinger))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(p.IdempotencyStore, p.Logger))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(p.CartService, p.Logger))
			r.Post("/items", controllers.CartAddItem(p.CartService, p.Logger))
			r.Put("/items/{itemId}", controllers.CartUpdateItem(p.CartService, p.Logger))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(p.CartService, p.Logger))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.ProductsList(p.CatalogService, p.Logger))
			r.Get("/products/{productId}", controllers.ProductDetail(p.CatalogService, p.Logger))
			r.Get("/categories", controllers.CategoriesList(p.CatalogService, p.Logger))
			r.Get("/attributes", controllers.AttributesList(p.CatalogService, p.Logger))
		})

		r.Route("/content", func(r chi.Router) {
			r.Get("/pages", controllers.PagesList(p.ContentService, p.Logger))
			r.Get("/pages/{slug}", controllers.PageDetail(p.ContentService, p.Logger))
		})
	})

	return r
}
