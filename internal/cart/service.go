package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/studiomosaico/storefront-gateway/pkg/errors"
	"github.com/studiomosaico/storefront-gateway/pkg/logger"
	"github.com/studiomosaico/storefront-gateway/pkg/woocommerce"
)

// Service is the cart reconciliation engine. The upstream store has no cart
// object, so the set of pending orders is the cart; mutations are realized
// with whole-order create/replace/delete calls.
type Service interface {
	Add(ctx context.Context, input AddItemInput) (*MutationResult, error)
	UpdateByID(ctx context.Context, itemID int64, input UpdateItemInput) (*MutationResult, error)
	RemoveByID(ctx context.Context, itemID int64) (*RemoveResult, error)
	List(ctx context.Context) (*View, error)
}

// AddItemInput captures an add-to-cart request. VariationID keeps its raw
// string form: sample SKUs embed a marker token in it.
type AddItemInput struct {
	ProductID         int64
	VariationID       string
	Quantity          int
	SecondaryQuantity *decimal.Decimal
	IsSample          bool
	CheckDuplicates   bool
}

// UpdateItemInput carries the deltas folded into an existing item.
type UpdateItemInput struct {
	Quantity          int
	SecondaryQuantity *decimal.Decimal
}

// MutationResult reports the order a mutation landed on.
type MutationResult struct {
	OrderID   int64                  `json:"order_id"`
	LineItems []woocommerce.LineItem `json:"line_items"`
}

// RemoveResult reports a removal outcome.
type RemoveResult struct {
	Message string `json:"message"`
	OrderID int64  `json:"order_id,omitempty"`
}

// View is the flattened cart projection.
type View struct {
	LineItems   []ItemView `json:"line_items"`
	OrdersFound int        `json:"orders_found"`
}

// ItemView is one display row of the cart.
type ItemView struct {
	ItemID            int64  `json:"item_id"`
	OrderID           int64  `json:"order_id"`
	ProductID         int64  `json:"product_id"`
	VariationID       int64  `json:"variation_id,omitempty"`
	Name              string `json:"name,omitempty"`
	Quantity          int    `json:"quantity"`
	IsSample          bool   `json:"is_sample"`
	SecondaryQuantity string `json:"m2_quantity,omitempty"`
	DisplayQuantity   string `json:"display_quantity"`
	DisplayPrice      string `json:"display_price"`
	Total             string `json:"total"`
}

type service struct {
	repo     OrderRepository
	products ProductLoader
	logg     *logger.Logger
	pageSize int

	// mu serializes cart mutations within this process. The store scopes
	// the cart to one shared account, so the unit of exclusion is the whole
	// cart. Instances do not coordinate; see DESIGN.md.
	mu sync.Mutex
}

// NewService builds the cart engine on the provided ports.
func NewService(repo OrderRepository, products ProductLoader, logg *logger.Logger, pageSize int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	return &service{
		repo:     repo,
		products: products,
		logg:     logg,
		pageSize: pageSize,
	}, nil
}

// Add creates a new order for the item or merges it into a duplicate.
func (s *service) Add(ctx context.Context, input AddItemInput) (*MutationResult, error) {
	if input.ProductID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	variationID := parseVariationID(input.VariationID)
	sample := input.IsSample || containsSampleMarker(input.VariationID)
	productID := resolveProductID(ctx, s.products, s.logg, input.ProductID, variationID)

	if !input.CheckDuplicates {
		return s.createSingleItemOrder(ctx, productID, variationID, input, sample)
	}

	orders, err := s.repo.ListPending(ctx, s.pageSize)
	if err != nil {
		return nil, err
	}

	found := findMatch(orders, ItemKey{ProductID: productID, VariationID: variationID, IsSample: sample})
	if found == nil {
		return s.createSingleItemOrder(ctx, productID, variationID, input, sample)
	}
	return s.mergeIntoOrder(ctx, found, input)
}

// createSingleItemOrder realizes the no-duplicate path: one new order with
// one new line item.
func (s *service) createSingleItemOrder(ctx context.Context, productID, variationID int64, input AddItemInput, sample bool) (*MutationResult, error) {
	item := woocommerce.OrderItemInput{
		ProductID:   productID,
		VariationID: variationID,
		Quantity:    input.Quantity,
	}
	if sample {
		item.MetaData = append(item.MetaData, woocommerce.MetaData{Key: MetaKeySample, Value: "true"})
	} else if input.SecondaryQuantity != nil {
		item.MetaData = append(item.MetaData, woocommerce.MetaData{
			Key:   MetaKeySecondaryQuantity,
			Value: input.SecondaryQuantity.Round(secondaryQuantityScale).String(),
		})
	}

	order, err := s.repo.Create(ctx, []woocommerce.OrderItemInput{item})
	if err != nil {
		return nil, err
	}
	return &MutationResult{OrderID: order.ID, LineItems: order.LineItems}, nil
}

// mergeIntoOrder folds the incoming quantities into the matched item and
// rebuilds the owning order. The store only replaces whole orders, so the
// merge is realized as create-new-then-delete-old; when the create itself
// fails, an in-place full replacement is the fallback.
func (s *service) mergeIntoOrder(ctx context.Context, found *match, input AddItemInput) (*MutationResult, error) {
	merged := mergeLineItem(*found.item, input.Quantity, input.SecondaryQuantity)

	items := make([]woocommerce.OrderItemInput, 0, len(found.order.LineItems))
	for i := range found.order.LineItems {
		if i == found.index {
			items = append(items, combinedItemInput(*found.item, merged))
			continue
		}
		items = append(items, carryOverItemInput(found.order.LineItems[i]))
	}

	created, err := s.repo.Create(ctx, items)
	if err != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"order_id": found.order.ID, "error": err.Error()})
		s.logg.Warn(ctx, "replacement order creation failed, replacing in place")
		replaced, replaceErr := s.repo.Replace(ctx, found.order.ID, items)
		if replaceErr != nil {
			return nil, replaceErr
		}
		return &MutationResult{OrderID: replaced.ID, LineItems: replaced.LineItems}, nil
	}

	s.deleteSuperseded(ctx, found.order.ID, created.ID)
	return &MutationResult{OrderID: created.ID, LineItems: created.LineItems}, nil
}

// UpdateByID folds deltas into the first line item of the order with the
// given identifier. The public surface addresses orders, not line items, and
// only the first item is touched.
func (s *service) UpdateByID(ctx context.Context, itemID int64, input UpdateItemInput) (*MutationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.repo.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if len(order.LineItems) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order has no line items")
	}

	first := order.LineItems[0]
	merged := mergeLineItem(first, input.Quantity, input.SecondaryQuantity)

	replaced, err := s.repo.Replace(ctx, order.ID, []woocommerce.OrderItemInput{combinedItemInput(first, merged)})
	if err != nil {
		return nil, err
	}
	return &MutationResult{OrderID: replaced.ID, LineItems: replaced.LineItems}, nil
}

// RemoveByID removes the line item with the given identifier from the cart.
// A one-item order is deleted outright; otherwise a new order is created
// with the remaining items and the original deleted.
func (s *service) RemoveByID(ctx context.Context, itemID int64) (*RemoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.repo.ListPending(ctx, s.pageSize)
	if err != nil {
		return nil, err
	}

	owner, index := findItemOwner(orders, itemID)
	if owner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	if len(owner.LineItems) == 1 {
		if err := s.repo.Delete(ctx, owner.ID); err != nil {
			return nil, err
		}
		return &RemoveResult{Message: "item removed", OrderID: owner.ID}, nil
	}

	remaining := make([]woocommerce.OrderItemInput, 0, len(owner.LineItems)-1)
	for i := range owner.LineItems {
		if i == index {
			continue
		}
		remaining = append(remaining, carryOverItemInput(owner.LineItems[i]))
	}

	created, err := s.repo.Create(ctx, remaining)
	if err != nil {
		return nil, err
	}
	s.deleteSuperseded(ctx, owner.ID, created.ID)
	return &RemoveResult{Message: "item removed", OrderID: created.ID}, nil
}

// List projects every pending order's line items into one display list.
func (s *service) List(ctx context.Context) (*View, error) {
	orders, err := s.repo.ListPending(ctx, s.pageSize)
	if err != nil {
		return nil, err
	}

	view := &View{LineItems: []ItemView{}, OrdersFound: len(orders)}
	for i := range orders {
		for _, item := range orders[i].LineItems {
			view.LineItems = append(view.LineItems, projectItem(orders[i].ID, item))
		}
	}
	return view, nil
}

// deleteSuperseded removes the order replaced by a newly created one. A
// failed delete leaves the old order behind as an orphan; the mutation that
// triggered it still succeeded, so this only warns.
func (s *service) deleteSuperseded(ctx context.Context, oldID, newID int64) {
	if err := s.repo.Delete(ctx, oldID); err != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"orphaned_order_id": oldID,
			"new_order_id":      newID,
			"error":             err.Error(),
		})
		s.logg.Warn(ctx, "orphaned order left behind after failed delete")
	}
}

// combinedItemInput renders a merge result as the replacement wire item,
// carrying over the matched item's metadata with the secondary quantity
// rewritten.
func combinedItemInput(existing woocommerce.LineItem, merged mergeResult) woocommerce.OrderItemInput {
	input := woocommerce.OrderItemInput{
		ProductID:   existing.ProductID,
		VariationID: existing.VariationID,
		Quantity:    merged.Quantity,
		Subtotal:    merged.Subtotal,
		Total:       merged.Total,
	}
	for _, meta := range existing.MetaData {
		if meta.Key == MetaKeySecondaryQuantity {
			continue
		}
		input.MetaData = append(input.MetaData, woocommerce.MetaData{Key: meta.Key, Value: meta.Value})
	}
	if merged.HasSecondary {
		input.MetaData = append(input.MetaData, woocommerce.MetaData{
			Key:   MetaKeySecondaryQuantity,
			Value: merged.SecondaryQuantity.String(),
		})
	}
	return input
}

// carryOverItemInput converts an existing line item for inclusion in a
// create/replace call without changing it. Metadata identifiers are dropped
// since the target order assigns its own.
func carryOverItemInput(item woocommerce.LineItem) woocommerce.OrderItemInput {
	input := woocommerce.OrderItemInput{
		ProductID:   item.ProductID,
		VariationID: item.VariationID,
		Quantity:    item.Quantity,
		Subtotal:    item.Subtotal,
		Total:       item.Total,
	}
	for _, meta := range item.MetaData {
		input.MetaData = append(input.MetaData, woocommerce.MetaData{Key: meta.Key, Value: meta.Value})
	}
	return input
}

func projectItem(orderID int64, item woocommerce.LineItem) ItemView {
	sample := isSampleLineItem(item)
	secondary, hasSecondary := secondaryQuantityOf(item)

	view := ItemView{
		ItemID:       item.ID,
		OrderID:      orderID,
		ProductID:    item.ProductID,
		VariationID:  item.VariationID,
		Name:         item.Name,
		Quantity:     item.Quantity,
		IsSample:     sample,
		DisplayPrice: item.Price.StringFixed(2),
	}

	displayQuantity := decimal.NewFromInt(int64(item.Quantity))
	if !sample && hasSecondary {
		displayQuantity = secondary
		view.SecondaryQuantity = secondary.String()
	}
	view.DisplayQuantity = displayQuantity.String()
	view.Total = item.Price.Mul(displayQuantity).StringFixed(2)
	return view
}
