package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/parkmarket/marketplace-backend/api/middleware"
	"github.com/parkmarket/marketplace-backend/api/responses"
	"github.com/parkmarket/marketplace-backend/api/validators"
	"github.com/parkmarket/marketplace-backend/internal/catalog"
	pkgerrors "github.com/parkmarket/marketplace-backend/pkg/errors"
	"github.com/parkmarket/marketplace-backend/pkg/logger"
	"github.com/parkmarket/marketplace-backend/pkg/maria"
)

func CatalogParks(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parks, err := svc.ListParks(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, parks)
	}
}

func CatalogPark(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		park, err := svc.GetPark(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, park)
	}
}

// CatalogParkProducts lists a park's products priced for the requesting store.
func CatalogParkProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := productQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.ListParkProducts(r.Context(), middleware.StoreFromContext(r.Context()), chi.URLParam(r, "code"), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, items)
	}
}

func CatalogParkProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := svc.GetParkProduct(r.Context(), middleware.StoreFromContext(r.Context()), chi.URLParam(r, "code"), chi.URLParam(r, "product_code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, item)
	}
}

func productQuery(r *http.Request) (maria.ProductQuery, error) {
	var (
		q   maria.ProductQuery
		err error
	)
	q.ForDate = validators.SanitizeString(r.URL.Query().Get("for_date"), 10)
	if q.NumberDays, err = validators.ParseQueryInt(r, "number_days", 0, 0, 30); err != nil {
		return q, err
	}
	if q.NumAdults, err = validators.ParseQueryInt(r, "num_adults", 0, 0, 50); err != nil {
		return q, err
	}
	if q.NumChildren, err = validators.ParseQueryInt(r, "num_children", 0, 0, 50); err != nil {
		return q, err
	}
	if raw := r.URL.Query().Get("is_special"); raw != "" {
		special, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			return q, pkgerrors.New(pkgerrors.CodeValidation, "is_special must be a boolean").WithDetails(map[string]any{"field": "is_special"})
		}
		q.IsSpecial = &special
	}
	return q, nil
}
