package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/studiomosaico/storefront-gateway/pkg/config"
	pkgerrors "github.com/studiomosaico/storefront-gateway/pkg/errors"
	"github.com/studiomosaico/storefront-gateway/pkg/logger"
)

const (
	commercePath = "/wp-json/wc/v3"
	contentPath  = "/wp-json/wp/v2"

	// TotalHeader / TotalPagesHeader carry collection sizes on list responses.
	TotalHeader      = "X-WP-Total"
	TotalPagesHeader = "X-WP-TotalPages"
)

var (
	errStoreURLRequired    = errors.New("store URL is required")
	errCredentialsRequired = errors.New("consumer key and secret are required")
	errLoggerRequired      = errors.New("woocommerce logger is required")
)

// Client exposes the WooCommerce REST v3 and WordPress v2 surfaces with
// centralized auth, logging, and error mapping.
type Client struct {
	httpClient     *http.Client
	storeURL       string
	contentURL     string
	consumerKey    string
	consumerSecret string
	logger         *logger.Logger
}

// NewClient initializes the upstream client from explicit configuration.
func NewClient(cfg config.WooCommerceConfig, wp config.WordPressConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	storeURL := strings.TrimSuffix(strings.TrimSpace(cfg.StoreURL), "/")
	if storeURL == "" {
		return nil, errStoreURLRequired
	}
	if strings.TrimSpace(cfg.ConsumerKey) == "" || strings.TrimSpace(cfg.ConsumerSecret) == "" {
		return nil, errCredentialsRequired
	}
	contentURL := strings.TrimSuffix(strings.TrimSpace(wp.BaseURL), "/")
	if contentURL == "" {
		contentURL = storeURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient:     &http.Client{Timeout: timeout},
		storeURL:       storeURL,
		contentURL:     contentURL,
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		logger:         logg,
	}, nil
}

// Ping verifies upstream reachability with a cheap single-item list call.
func (c *Client) Ping(ctx context.Context) error {
	query := url.Values{"per_page": {"1"}}
	var out []json.RawMessage
	_, err := c.do(ctx, http.MethodGet, c.storeURL+commercePath+"/products", query, nil, &out, true)
	return err
}

// do executes one upstream request. Commerce endpoints authenticate with the
// consumer key/secret over basic auth; content endpoints are public reads.
func (c *Client) do(ctx context.Context, method, rawURL string, query url.Values, payload, out any, authenticated bool) (http.Header, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode upstream request")
		}
		body = bytes.NewReader(encoded)
	}

	target := rawURL
	if len(query) > 0 {
		target = rawURL + "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upstream request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log(ctx, "error", method, req.URL.Path, map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upstream request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read upstream response")
	}

	if resp.StatusCode >= 400 {
		mapped := c.mapError(resp.StatusCode, respBody, method, req.URL.Path)
		c.log(ctx, "error", method, req.URL.Path, map[string]any{
			"status": resp.StatusCode,
			"error":  mapped.Error(),
		})
		return resp.Header, mapped
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return resp.Header, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode upstream response")
		}
	}

	c.log(ctx, "response", method, req.URL.Path, map[string]any{"status": resp.StatusCode})
	return resp.Header, nil
}

// mapError converts an upstream failure into a domain error, carrying the
// raw payload as details for diagnostics (it is passed through to callers).
func (c *Client) mapError(status int, body []byte, method, path string) error {
	var upstream apiError
	_ = json.Unmarshal(body, &upstream) // best effort

	message := upstream.Message
	if message == "" {
		message = fmt.Sprintf("upstream returned status %d", status)
	}

	err := pkgerrors.New(codeForStatus(status), message)
	details := map[string]any{
		"upstream_status": status,
		"method":          method,
		"path":            path,
	}
	if upstream.Code != "" {
		details["upstream_code"] = upstream.Code
	}
	if upstream.Message != "" {
		details["upstream_message"] = upstream.Message
	}
	return err.WithDetails(details)
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}

func (c *Client) log(ctx context.Context, phase, method, path string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"phase":  phase,
		"method": method,
		"path":   path,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, "woocommerce request failed", errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("woocommerce %s", phase))
	}
}
