package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studiomosaico/storefront-gateway/api/responses"
	contentsvc "github.com/studiomosaico/storefront-gateway/internal/content"
	pkgerrors "github.com/studiomosaico/storefront-gateway/pkg/errors"
	"github.com/studiomosaico/storefront-gateway/pkg/logger"
)

func PagesList(svc contentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		pages, err := svc.ListPages(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pages)
	}
}

func PageDetail(svc contentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		view, err := svc.GetPage(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
