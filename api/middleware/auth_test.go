package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/parkmarket/marketplace-backend/pkg/errors"
)

type stubAuthenticator struct {
	sellers   map[string]*models.Seller
	customers map[string]*models.Customer
}

func (s stubAuthenticator) AuthenticateSeller(_ context.Context, header string) (*models.Seller, error) {
	if seller, ok := s.sellers[header]; ok {
		return seller, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
}

func (s stubAuthenticator) AuthenticateCustomer(_ context.Context, header string) (*models.Customer, error) {
	if customer, ok := s.customers[header]; ok {
		return customer, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
}

type stubResolver map[string]*models.Store

func (s stubResolver) ResolveCredential(_ context.Context, credential string) (*models.Store, error) {
	if store, ok := s[credential]; ok {
		return store, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Store credential is invalid")
}

var (
	testStore    = &models.Store{ID: 1, Name: "A", Credential: "sc_a"}
	otherStore   = &models.Store{ID: 2, Name: "B", Credential: "sc_b"}
	testSeller   = &models.Seller{ID: 10, Name: "Ana"}
	testCustomer = &models.Customer{ID: 20, StoreID: 1, Name: "Bia"}
	authn        = stubAuthenticator{
		sellers:   map[string]*models.Seller{"Bearer seller-token": testSeller},
		customers: map[string]*models.Customer{"Bearer customer-token": testCustomer},
	}
	resolver = stubResolver{"sc_a": testStore, "sc_b": otherStore}
)

func TestSellerAuth(t *testing.T) {
	var got *models.Seller
	handler := SellerAuth(authn, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SellerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SellerAuthorizationHeader, "Bearer seller-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, uint(10), got.ID)
}

func TestStoreCredential(t *testing.T) {
	var got *models.Store
	handler := StoreCredential(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = StoreFromContext(r.Context())
	}))

	for _, credential := range []string{"", "sc_unknown", "Bearer sc_a"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(StoreCredentialHeader, credential)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code, credential)
		assert.Contains(t, rec.Body.String(), "Store credential is invalid")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(StoreCredentialHeader, "sc_a")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testStore, got)
}

func TestCustomerAuthRequiresMatchingStore(t *testing.T) {
	var got *models.Customer
	chain := StoreCredential(resolver, nil)(CustomerAuth(authn, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CustomerFromContext(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(StoreCredentialHeader, "sc_b")
	req.Header.Set(CustomerAuthorizationHeader, "Bearer customer-token")
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(StoreCredentialHeader, "sc_a")
	req.Header.Set(CustomerAuthorizationHeader, "Bearer customer-token")
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, uint(20), got.ID)
}

func TestCustomerAuthWithoutStoreContext(t *testing.T) {
	handler := CustomerAuth(authn, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CustomerAuthorizationHeader, "Bearer customer-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
