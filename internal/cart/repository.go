package cart

import (
	"context"
	"fmt"

	"github.com/studiomosaico/storefront-gateway/pkg/woocommerce"
)

// OrderRepository abstracts the whole-order primitives the upstream store
// offers. There is no line-item patch: mutations are create, full replace,
// or delete, and none of them compose atomically.
type OrderRepository interface {
	ListPending(ctx context.Context, pageSize int) ([]woocommerce.Order, error)
	Create(ctx context.Context, items []woocommerce.OrderItemInput) (*woocommerce.Order, error)
	Replace(ctx context.Context, orderID int64, items []woocommerce.OrderItemInput) (*woocommerce.Order, error)
	Delete(ctx context.Context, orderID int64) error
	Get(ctx context.Context, orderID int64) (*woocommerce.Order, error)
}

// ProductLoader resolves product records, used for the parent-product
// substitution rule.
type ProductLoader interface {
	GetProduct(ctx context.Context, productID int64) (*woocommerce.Product, error)
}

type wooOrderRepository struct {
	client *woocommerce.Client
}

// NewOrderRepository adapts the WooCommerce client to the repository port.
func NewOrderRepository(client *woocommerce.Client) (OrderRepository, error) {
	if client == nil {
		return nil, fmt.Errorf("woocommerce client required")
	}
	return &wooOrderRepository{client: client}, nil
}

func (r *wooOrderRepository) ListPending(ctx context.Context, pageSize int) ([]woocommerce.Order, error) {
	return r.client.ListPendingOrders(ctx, pageSize)
}

func (r *wooOrderRepository) Create(ctx context.Context, items []woocommerce.OrderItemInput) (*woocommerce.Order, error) {
	return r.client.CreateOrder(ctx, items)
}

func (r *wooOrderRepository) Replace(ctx context.Context, orderID int64, items []woocommerce.OrderItemInput) (*woocommerce.Order, error) {
	return r.client.ReplaceOrderItems(ctx, orderID, items)
}

func (r *wooOrderRepository) Delete(ctx context.Context, orderID int64) error {
	return r.client.DeleteOrder(ctx, orderID)
}

func (r *wooOrderRepository) Get(ctx context.Context, orderID int64) (*woocommerce.Order, error) {
	return r.client.GetOrder(ctx, orderID)
}
