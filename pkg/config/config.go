package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App         AppConfig
	WooCommerce WooCommerceConfig
	WordPress   WordPressConfig
	Cart        CartConfig
	Redis       RedisConfig
	CORS        CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.WooCommerce.validate(); err != nil {
		return nil, err
	}
	cfg.WordPress.applyDefaults(cfg.WooCommerce.StoreURL)
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// WooCommerceConfig wires the upstream commerce backend. The client is
// constructed from this struct and injected; nothing reads it ambiently.
type WooCommerceConfig struct {
	StoreURL       string        `envconfig:"STOREFRONT_WC_STORE_URL" required:"true"`
	ConsumerKey    string        `envconfig:"STOREFRONT_WC_CONSUMER_KEY" required:"true"`
	ConsumerSecret string        `envconfig:"STOREFRONT_WC_CONSUMER_SECRET" required:"true"`
	Timeout        time.Duration `envconfig:"STOREFRONT_WC_TIMEOUT" default:"30s"`
}

func (w WooCommerceConfig) validate() error {
	parsed, err := url.Parse(w.StoreURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("STOREFRONT_WC_STORE_URL must be an absolute URL")
	}
	return nil
}

// WordPressConfig wires the content backend. It defaults to the store URL
// since WooCommerce runs inside WordPress.
type WordPressConfig struct {
	BaseURL string `envconfig:"STOREFRONT_WP_BASE_URL"`
}

func (w *WordPressConfig) applyDefaults(storeURL string) {
	if w.BaseURL == "" {
		w.BaseURL = storeURL
	}
}

type CartConfig struct {
	// PendingPageSize bounds how many pending orders one cart read scans.
	PendingPageSize int `envconfig:"STOREFRONT_CART_PENDING_PAGE_SIZE" default:"50"`
}

type RedisConfig struct {
	// URL is optional; when empty the idempotency middleware is disabled.
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
