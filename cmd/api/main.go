package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/studiomosaico/storefront-gateway/api/routes"
	"github.com/studiomosaico/storefront-gateway/internal/cart"
	"github.com/studiomosaico/storefront-gateway/internal/catalog"
	"github.com/studiomosaico/storefront-gateway/internal/content"
	"github.com/studiomosaico/storefront-gateway/pkg/config"
	"github.com/studiomosaico/storefront-gateway/pkg/logger"
	"github.com/studiomosaico/storefront-gateway/pkg/redis"
	"github.com/studiomosaico/storefront-gateway/pkg/woocommerce"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	storeClient, err := woocommerce.NewClient(cfg.WooCommerce, cfg.WordPress, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build store client", err)
		os.Exit(1)
	}

	params := routes.RouterParams{
		Config:      cfg,
		Logger:      logg,
		StorePinger: storeClient,
	}

	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		params.RedisPinger = redisClient
		params.IdempotencyStore = redisClient
	}

	orderRepo, err := cart.NewOrderRepository(storeClient)
	if err != nil {
		logg.Error(context.Background(), "failed to build order repository", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(orderRepo, storeClient, logg, cfg.Cart.PendingPageSize)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	params.CartService = cartService

	catalogService, err := catalog.NewService(storeClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	params.CatalogService = catalogService

	contentService, err := content.NewService(storeClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create content service", err)
		os.Exit(1)
	}
	params.ContentService = contentService

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	params.Registry = registry

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":   cfg.App.Env,
		"addr":  addr,
		"store": cfg.WooCommerce.StoreURL,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(params),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
