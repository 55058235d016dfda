package woocommerce

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const (
	// StatusPending marks the orders this gateway treats as the cart.
	StatusPending = "pending"

	// PaymentMethodManual is stamped on every order the cart engine creates.
	PaymentMethodManual      = "manual"
	PaymentMethodManualTitle = "Manual payment"
)

func (c *Client) ordersURL(parts ...string) string {
	u := c.storeURL + commercePath + "/orders"
	for _, part := range parts {
		u += "/" + part
	}
	return u
}

// ListPendingOrders returns up to pageSize pending orders, newest first.
func (c *Client) ListPendingOrders(ctx context.Context, pageSize int) ([]Order, error) {
	if pageSize <= 0 {
		pageSize = 50
	}
	query := url.Values{
		"status":   {StatusPending},
		"per_page": {strconv.Itoa(pageSize)},
		"orderby":  {"date"},
		"order":    {"desc"},
	}

	var orders []Order
	if _, err := c.do(ctx, http.MethodGet, c.ordersURL(), query, nil, &orders, true); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrder creates a pending manual-payment order with the given items.
// The store assigns line item identifiers and prices.
func (c *Client) CreateOrder(ctx context.Context, items []OrderItemInput) (*Order, error) {
	payload := orderCreateRequest{
		Status:             StatusPending,
		PaymentMethod:      PaymentMethodManual,
		PaymentMethodTitle: PaymentMethodManualTitle,
		SetPaid:            false,
		LineItems:          items,
	}

	var order Order
	if _, err := c.do(ctx, http.MethodPost, c.ordersURL(), nil, payload, &order, true); err != nil {
		return nil, err
	}
	return &order, nil
}

// ReplaceOrderItems overwrites the entire item list of an existing order.
// Any line item omitted from items is dropped upstream.
func (c *Client) ReplaceOrderItems(ctx context.Context, orderID int64, items []OrderItemInput) (*Order, error) {
	payload := orderReplaceRequest{LineItems: items}

	var order Order
	if _, err := c.do(ctx, http.MethodPut, c.ordersURL(strconv.FormatInt(orderID, 10)), nil, payload, &order, true); err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder permanently removes an order, bypassing the trash.
func (c *Client) DeleteOrder(ctx context.Context, orderID int64) error {
	query := url.Values{"force": {"true"}}
	_, err := c.do(ctx, http.MethodDelete, c.ordersURL(strconv.FormatInt(orderID, 10)), query, nil, nil, true)
	return err
}

// GetOrder fetches a single order; NotFound when absent.
func (c *Client) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	var order Order
	if _, err := c.do(ctx, http.MethodGet, c.ordersURL(strconv.FormatInt(orderID, 10)), nil, nil, &order, true); err != nil {
		return nil, err
	}
	return &order, nil
}
