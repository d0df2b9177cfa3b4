package controllers

import (
	"net/http"

	"github.com/parkmarket/marketplace-backend/api/middleware"
	"github.com/parkmarket/marketplace-backend/api/responses"
	"github.com/parkmarket/marketplace-backend/api/validators"
	"github.com/parkmarket/marketplace-backend/internal/products"
	pkgerrors "github.com/parkmarket/marketplace-backend/pkg/errors"
	"github.com/parkmarket/marketplace-backend/pkg/logger"
)

// ProductByExternalCode finds or materializes the store product for a catalog reference.
func ProductByExternalCode(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := middleware.StoreFromContext(r.Context())
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Store credential is invalid"))
			return
		}
		query := r.URL.Query()
		id, err := svc.Materialize(r.Context(), store, query.Get("product_code"), query.Get("park_code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, products.ExternalCodeResponse{ProductID: id})
	}
}

func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := middleware.StoreFromContext(r.Context())
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Store credential is invalid"))
			return
		}
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), store.ID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, product)
	}
}
