package cart

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/studiomosaico/storefront-gateway/pkg/logger"
	"github.com/studiomosaico/storefront-gateway/pkg/woocommerce"
)

type stubProductLoader struct {
	product *woocommerce.Product
	err     error
	calls   int
}

func (s *stubProductLoader) GetProduct(ctx context.Context, productID int64) (*woocommerce.Product, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func sampleMeta() []woocommerce.MetaData {
	return []woocommerce.MetaData{{Key: MetaKeySample, Value: "true"}}
}

func TestFindMatchExactEquality(t *testing.T) {
	t.Parallel()

	orders := []woocommerce.Order{
		{ID: 1, LineItems: []woocommerce.LineItem{
			{ID: 11, ProductID: 10, VariationID: 5},
			{ID: 12, ProductID: 10},
		}},
		{ID: 2, LineItems: []woocommerce.LineItem{
			{ID: 21, ProductID: 10, MetaData: sampleMeta()},
		}},
	}

	if m := findMatch(orders, ItemKey{ProductID: 10}); m == nil || m.item.ID != 12 {
		t.Fatalf("expected bare product match on item 12, got %+v", m)
	}
	if m := findMatch(orders, ItemKey{ProductID: 10, VariationID: 5}); m == nil || m.item.ID != 11 {
		t.Fatalf("expected variation match on item 11, got %+v", m)
	}
	if m := findMatch(orders, ItemKey{ProductID: 10, IsSample: true}); m == nil || m.item.ID != 21 {
		t.Fatalf("expected sample match on item 21, got %+v", m)
	}
	if m := findMatch(orders, ItemKey{ProductID: 99}); m != nil {
		t.Fatalf("expected no match for unknown product, got %+v", m)
	}
	if m := findMatch(orders, ItemKey{ProductID: 10, VariationID: 6}); m != nil {
		t.Fatalf("variation ids must match exactly, got %+v", m)
	}
}

func TestFindMatchReturnsFirstAcrossOrders(t *testing.T) {
	t.Parallel()

	orders := []woocommerce.Order{
		{ID: 1, LineItems: []woocommerce.LineItem{{ID: 11, ProductID: 7}}},
		{ID: 2, LineItems: []woocommerce.LineItem{{ID: 21, ProductID: 7}}},
	}

	m := findMatch(orders, ItemKey{ProductID: 7})
	if m == nil || m.order.ID != 1 || m.item.ID != 11 {
		t.Fatalf("expected first listed order to win, got %+v", m)
	}
}

func TestResolveProductIDSubstitutesParent(t *testing.T) {
	t.Parallel()

	loader := &stubProductLoader{product: &woocommerce.Product{ID: 5, ParentID: 2}}
	if got := resolveProductID(context.Background(), loader, testLogger(), 5, 5); got != 2 {
		t.Fatalf("expected parent id 2, got %d", got)
	}
	if loader.calls != 1 {
		t.Fatalf("expected one product lookup, got %d", loader.calls)
	}
}

func TestResolveProductIDSkipsWhenIDsDiffer(t *testing.T) {
	t.Parallel()

	loader := &stubProductLoader{product: &woocommerce.Product{ID: 5, ParentID: 2}}
	if got := resolveProductID(context.Background(), loader, testLogger(), 5, 9); got != 5 {
		t.Fatalf("expected supplied id 5, got %d", got)
	}
	if loader.calls != 0 {
		t.Fatalf("expected no product lookup, got %d", loader.calls)
	}
}

func TestResolveProductIDFallsBackOnLookupFailure(t *testing.T) {
	t.Parallel()

	loader := &stubProductLoader{err: errors.New("boom")}
	if got := resolveProductID(context.Background(), loader, testLogger(), 5, 5); got != 5 {
		t.Fatalf("expected fallback to supplied id, got %d", got)
	}
}

func TestResolveProductIDKeepsIDWithoutParent(t *testing.T) {
	t.Parallel()

	loader := &stubProductLoader{product: &woocommerce.Product{ID: 5}}
	if got := resolveProductID(context.Background(), loader, testLogger(), 5, 5); got != 5 {
		t.Fatalf("expected id 5 when record has no parent, got %d", got)
	}
}

func TestFindItemOwner(t *testing.T) {
	t.Parallel()

	orders := []woocommerce.Order{
		{ID: 1, LineItems: []woocommerce.LineItem{{ID: 11}, {ID: 12}}},
		{ID: 2, LineItems: []woocommerce.LineItem{{ID: 21}}},
	}

	owner, index := findItemOwner(orders, 12)
	if owner == nil || owner.ID != 1 || index != 1 {
		t.Fatalf("expected order 1 index 1, got %v %d", owner, index)
	}
	if owner, _ := findItemOwner(orders, 99); owner != nil {
		t.Fatalf("expected nil owner for unknown item, got %+v", owner)
	}
}

func TestParseVariationID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want int64
	}{
		{"1023", 1023},
		{" 44 ", 44},
		{"1023-free-sample", 1023},
		{"free-sample", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := parseVariationID(tc.raw); got != tc.want {
			t.Fatalf("parseVariationID(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestContainsSampleMarker(t *testing.T) {
	t.Parallel()

	if !containsSampleMarker("1023-free-sample") {
		t.Fatal("expected free-sample marker to be detected")
	}
	if !containsSampleMarker("88-Full-Size-Sample") {
		t.Fatal("marker detection should ignore case")
	}
	if containsSampleMarker("1023") {
		t.Fatal("plain numeric variation is not a sample")
	}
}
