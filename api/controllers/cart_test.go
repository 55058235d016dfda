package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	cartsvc "github.com/studiomosaico/storefront-gateway/internal/cart"
	pkgerrors "github.com/studiomosaico/storefront-gateway/pkg/errors"
)

type stubCartService struct {
	view         *cartsvc.View
	mutation     *cartsvc.MutationResult
	removal      *cartsvc.RemoveResult
	err          error
	lastAdd      cartsvc.AddItemInput
	lastUpdateID int64
	lastRemoveID int64
}

func (s *stubCartService) Add(ctx context.Context, input cartsvc.AddItemInput) (*cartsvc.MutationResult, error) {
	s.lastAdd = input
	return s.mutation, s.err
}

func (s *stubCartService) UpdateByID(ctx context.Context, itemID int64, input cartsvc.UpdateItemInput) (*cartsvc.MutationResult, error) {
	s.lastUpdateID = itemID
	return s.mutation, s.err
}

func (s *stubCartService) RemoveByID(ctx context.Context, itemID int64) (*cartsvc.RemoveResult, error) {
	s.lastRemoveID = itemID
	return s.removal, s.err
}

func (s *stubCartService) List(ctx context.Context) (*cartsvc.View, error) {
	return s.view, s.err
}

func requestWithItemID(method, url, itemID string, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	rc := chi.NewRouteContext()
	rc.URLParams.Add("itemId", itemID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestCartFetchSuccess(t *testing.T) {
	view := &cartsvc.View{
		LineItems:   []cartsvc.ItemView{{ItemID: 11, OrderID: 1, ProductID: 10, Quantity: 2}},
		OrdersFound: 1,
	}
	handler := CartFetch(&stubCartService{view: view}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data cartsvc.View `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrdersFound != 1 || len(envelope.Data.LineItems) != 1 {
		t.Fatalf("unexpected view: %+v", envelope.Data)
	}
}

func TestCartFetchUpstreamUnavailable(t *testing.T) {
	handler := CartFetch(&stubCartService{err: pkgerrors.New(pkgerrors.CodeDependency, "down")}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestCartAddItemSuccess(t *testing.T) {
	service := &stubCartService{mutation: &cartsvc.MutationResult{OrderID: 42}}
	handler := CartAddItem(service, nil)

	body := `{"product_id": 10, "variation_id": "15-free-sample", "quantity": 2, "m2_quantity": "1.5", "check_duplicates": true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if service.lastAdd.ProductID != 10 || service.lastAdd.Quantity != 2 {
		t.Fatalf("unexpected input: %+v", service.lastAdd)
	}
	if service.lastAdd.VariationID != "15-free-sample" {
		t.Fatalf("variation string must pass through untouched, got %q", service.lastAdd.VariationID)
	}
	if !service.lastAdd.CheckDuplicates {
		t.Fatal("check_duplicates not forwarded")
	}
	if service.lastAdd.SecondaryQuantity == nil || service.lastAdd.SecondaryQuantity.String() != "1.5" {
		t.Fatalf("m2_quantity not forwarded: %v", service.lastAdd.SecondaryQuantity)
	}
}

func TestCartAddItemValidatesBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing product", `{"quantity": 1}`},
		{"missing quantity", `{"product_id": 10}`},
		{"negative quantity", `{"product_id": 10, "quantity": -1}`},
		{"unknown field", `{"product_id": 10, "quantity": 1, "bogus": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CartAddItem(&stubCartService{}, nil)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(tt.body))
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, req)

			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", resp.Code)
			}
		})
	}
}

func TestCartUpdateItemSuccess(t *testing.T) {
	service := &stubCartService{mutation: &cartsvc.MutationResult{OrderID: 7}}
	handler := CartUpdateItem(service, nil)

	req := requestWithItemID(http.MethodPut, "/api/v1/cart/items/7", "7", `{"quantity": 1, "m2_quantity": "0.5"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.lastUpdateID != 7 {
		t.Fatalf("expected item id 7, got %d", service.lastUpdateID)
	}
}

func TestCartUpdateItemRejectsBadID(t *testing.T) {
	handler := CartUpdateItem(&stubCartService{}, nil)

	req := requestWithItemID(http.MethodPut, "/api/v1/cart/items/abc", "abc", `{"quantity": 1}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartRemoveItemSuccess(t *testing.T) {
	service := &stubCartService{removal: &cartsvc.RemoveResult{Message: "item removed", OrderID: 1}}
	handler := CartRemoveItem(service, nil)

	req := requestWithItemID(http.MethodDelete, "/api/v1/cart/items/11", "11", "")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.lastRemoveID != 11 {
		t.Fatalf("expected item id 11, got %d", service.lastRemoveID)
	}
}

func TestCartRemoveItemNotFound(t *testing.T) {
	handler := CartRemoveItem(&stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")}, nil)

	req := requestWithItemID(http.MethodDelete, "/api/v1/cart/items/99", "99", "")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
