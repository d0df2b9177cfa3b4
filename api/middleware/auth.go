package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/parkmarket/marketplace-backend/api/responses"
	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/parkmarket/marketplace-backend/pkg/errors"
	"github.com/parkmarket/marketplace-backend/pkg/logger"
)

const (
	SellerAuthorizationHeader   = "Seller-Authorization"
	CustomerAuthorizationHeader = "Customer-Authorization"
	StoreCredentialHeader       = "Store-Credential"
)

type sellerAuthenticator interface {
	AuthenticateSeller(ctx context.Context, header string) (*models.Seller, error)
}

type customerAuthenticator interface {
	AuthenticateCustomer(ctx context.Context, header string) (*models.Customer, error)
}

type storeResolver interface {
	ResolveCredential(ctx context.Context, credential string) (*models.Store, error)
}

// SellerAuth resolves the Seller-Authorization bearer token.
func SellerAuth(authn sellerAuthenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seller, err := authn.AuthenticateSeller(r.Context(), r.Header.Get(SellerAuthorizationHeader))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			ctx := WithSeller(r.Context(), seller)
			if logg != nil {
				ctx = logg.WithSellerID(ctx, seller.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StoreCredential resolves the tenant from the Store-Credential header.
func StoreCredential(resolver storeResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := strings.TrimSpace(r.Header.Get(StoreCredentialHeader))
			if credential == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Store credential is invalid"))
				return
			}
			store, err := resolver.ResolveCredential(r.Context(), credential)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			ctx := WithStore(r.Context(), store)
			if logg != nil {
				ctx = logg.WithStoreID(ctx, store.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CustomerAuth resolves the Customer-Authorization bearer token. It must run
// after StoreCredential; a customer of another store is rejected.
func CustomerAuth(authn customerAuthenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			customer, err := authn.AuthenticateCustomer(r.Context(), r.Header.Get(CustomerAuthorizationHeader))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			store := StoreFromContext(r.Context())
			if store == nil || customer.StoreID != store.ID {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized"))
				return
			}
			ctx := WithCustomer(r.Context(), customer)
			if logg != nil {
				ctx = logg.WithCustomerID(ctx, customer.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
