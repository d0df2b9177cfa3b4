package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parkmarket/marketplace-backend/api/middleware"
	"github.com/parkmarket/marketplace-backend/api/responses"
	"github.com/parkmarket/marketplace-backend/api/validators"
	"github.com/parkmarket/marketplace-backend/internal/orders"
	"github.com/parkmarket/marketplace-backend/internal/stores"
	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/parkmarket/marketplace-backend/pkg/errors"
	"github.com/parkmarket/marketplace-backend/pkg/logger"
	"github.com/parkmarket/marketplace-backend/pkg/pagination"
)

func orderCode(r *http.Request) string {
	return validators.SanitizeString(chi.URLParam(r, "code"), 64)
}

// ownedStore checks that the seller owns the store named by Store-Credential.
func ownedStore(r *http.Request, storeSvc stores.Service) (*models.Store, error) {
	seller := middleware.SellerFromContext(r.Context())
	store := middleware.StoreFromContext(r.Context())
	if seller == nil || store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
	}
	return storeSvc.RequireOwner(r.Context(), seller.ID, store.ID)
}

// SellerOrders lists the newest orders of the seller's store.
func SellerOrders(storeSvc stores.Service, orderSvc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := ownedStore(r, storeSvc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := orderSvc.ListForStore(r.Context(), store.ID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, list)
	}
}

func SellerDashboardStats(storeSvc stores.Service, orderSvc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := ownedStore(r, storeSvc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stats, err := orderSvc.DashboardStats(r.Context(), store.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, stats)
	}
}

// SellerUpdateOrderStatus moves an order of the seller's store to a new status.
func SellerUpdateOrderStatus(storeSvc stores.Service, orderSvc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := ownedStore(r, storeSvc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req orders.UpdateStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := orderSvc.UpdateStatus(r.Context(), store.ID, orderCode(r), req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, detail)
	}
}
