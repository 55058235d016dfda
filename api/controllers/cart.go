package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/studiomosaico/storefront-gateway/api/responses"
	"github.com/studiomosaico/storefront-gateway/api/validators"
	cartsvc "github.com/studiomosaico/storefront-gateway/internal/cart"
	pkgerrors "github.com/studiomosaico/storefront-gateway/pkg/errors"
	"github.com/studiomosaico/storefront-gateway/pkg/logger"
)

// AddCartItemRequest is the add-to-cart payload. VariationID stays a string
// because variation selections can carry sample marker tokens.
type AddCartItemRequest struct {
	ProductID         int64            `json:"product_id" validate:"required,gt=0"`
	VariationID       string           `json:"variation_id,omitempty"`
	Quantity          int              `json:"quantity" validate:"required,gt=0"`
	SecondaryQuantity *decimal.Decimal `json:"m2_quantity,omitempty"`
	IsSample          bool             `json:"is_sample,omitempty"`
	CheckDuplicates   bool             `json:"check_duplicates,omitempty"`
}

type UpdateCartItemRequest struct {
	Quantity          int              `json:"quantity" validate:"required,gt=0"`
	SecondaryQuantity *decimal.Decimal `json:"m2_quantity,omitempty"`
}

// CartFetch returns the flattened cart projection.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		view, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartAddItem adds a product to the cart, optionally merging duplicates.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload AddCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Add(r.Context(), cartsvc.AddItemInput{
			ProductID:         payload.ProductID,
			VariationID:       payload.VariationID,
			Quantity:          payload.Quantity,
			SecondaryQuantity: payload.SecondaryQuantity,
			IsSample:          payload.IsSample,
			CheckDuplicates:   payload.CheckDuplicates,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// CartUpdateItem folds quantity deltas into an existing cart entry.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		itemID, err := validators.ParsePathID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload UpdateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdateByID(r.Context(), itemID, cartsvc.UpdateItemInput{
			Quantity:          payload.Quantity,
			SecondaryQuantity: payload.SecondaryQuantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CartRemoveItem removes one line item from the cart.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		itemID, err := validators.ParsePathID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RemoveByID(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
