package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkmarket/marketplace-backend/api/controllers"
	"github.com/parkmarket/marketplace-backend/api/middleware"
	"github.com/parkmarket/marketplace-backend/internal/auth"
	"github.com/parkmarket/marketplace-backend/internal/cart"
	"github.com/parkmarket/marketplace-backend/internal/catalog"
	"github.com/parkmarket/marketplace-backend/internal/customers"
	"github.com/parkmarket/marketplace-backend/internal/orders"
	"github.com/parkmarket/marketplace-backend/internal/products"
	"github.com/parkmarket/marketplace-backend/internal/sellers"
	"github.com/parkmarket/marketplace-backend/internal/stores"
	"github.com/parkmarket/marketplace-backend/pkg/config"
	"github.com/parkmarket/marketplace-backend/pkg/db/dbtest"
	"github.com/parkmarket/marketplace-backend/pkg/logger"
	"github.com/parkmarket/marketplace-backend/pkg/maria"
	"github.com/parkmarket/marketplace-backend/pkg/metrics"
	"github.com/parkmarket/marketplace-backend/pkg/pricing"
	"github.com/parkmarket/marketplace-backend/pkg/security"
	"github.com/parkmarket/marketplace-backend/pkg/types"
)

const catalogProductJSON = `{
  "code": "MK-1D",
  "ticket_name": "Magic Kingdom 1 Day",
  "park_included": "Magic Kingdom",
  "extensions": {"about_ticket": "One day of magic", "ticket_type": "base"},
  "starting_price": {"usdbrl": {"amount": "100.00", "currency": "BRL", "symbol": "R$"}},
  "status": "active"
}`

func testConfig() *config.Config {
	return &config.Config{
		App:          config.AppConfig{Env: "test", CORSOrigins: "*"},
		FeatureFlags: config.FeatureFlagsConfig{Idempotency: true},
		Pricing:      config.PricingConfig{PlatformCommissionPercentage: decimal.NewFromInt(5)},
		Idempotency:  config.IdempotencyConfig{TTL: time.Hour},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	catalogSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(catalogProductJSON))
	}))
	t.Cleanup(catalogSrv.Close)

	client := dbtest.Client(t)
	conn := client.DB()
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	engine := pricing.NewEngine(decimal.NewFromInt(5))
	hasher := security.NewArgon2Hasher(config.PasswordConfig{
		ArgonMemoryKB: 64, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32,
	})

	mariaClient, err := maria.NewClient(catalogSrv.URL, maria.WithTimeout(2*time.Second))
	require.NoError(t, err)

	authSvc, err := auth.NewService(auth.ServiceParams{Repo: auth.NewRepository(conn), Tx: client})
	require.NoError(t, err)
	sellerSvc, err := sellers.NewService(sellers.ServiceParams{
		Repo: sellers.NewRepository(conn), Tx: client, Tokens: authSvc, Hasher: hasher,
	})
	require.NoError(t, err)
	customerSvc, err := customers.NewService(customers.ServiceParams{
		Repo: customers.NewRepository(conn), Tx: client, Tokens: authSvc, Hasher: hasher,
	})
	require.NoError(t, err)
	storeSvc, err := stores.NewService(stores.NewRepository(conn))
	require.NoError(t, err)
	productSvc, err := products.NewService(products.ServiceParams{
		Repo: products.NewRepository(conn), Catalog: mariaClient, Pricing: engine, Logger: logg,
	})
	require.NoError(t, err)
	catalogSvc, err := catalog.NewService(mariaClient, engine)
	require.NoError(t, err)
	cartSvc, err := cart.NewService(cart.NewRepository(conn), client)
	require.NoError(t, err)

	seq := 0
	orderSvc, err := orders.NewService(orders.ServiceParams{
		Repo:   orders.NewRepository(conn),
		Tx:     client,
		Logger: logg,
		NewCode: func() string {
			seq++
			return "order" + strconv.Itoa(seq)
		},
	})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	return NewRouter(Deps{
		Config:    testConfig(),
		Logger:    logg,
		Auth:      authSvc,
		Sellers:   sellerSvc,
		Customers: customerSvc,
		Stores:    storeSvc,
		Products:  productSvc,
		Catalog:   catalogSvc,
		Cart:      cartSvc,
		Orders:    orderSvc,
		Metrics:   metrics.NewHTTPMetrics(reg),
		Gatherer:  reg,
		Readiness: map[string]controllers.Pinger{"database": client},
	})
}

func call(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type shopSession struct {
	sellerHeaders   map[string]string
	customerHeaders map[string]string
	storeID         uint
	productID       uint
}

func setupShop(t *testing.T, h http.Handler) shopSession {
	t.Helper()

	rec := call(t, h, http.MethodPost, "/sellers/", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "secret1",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	seller := decode[sellers.AuthResponse](t, rec)
	sellerAuth := map[string]string{middleware.SellerAuthorizationHeader: "Bearer " + seller.AccessToken}

	rec = call(t, h, http.MethodPost, "/stores/", map[string]string{"name": "Orlando Trips"}, sellerAuth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	store := decode[stores.StoreDTO](t, rec)

	rec = call(t, h, http.MethodGet, "/stores/"+strconv.Itoa(int(store.ID))+"/get-credential", nil, sellerAuth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	credential := decode[stores.CredentialResponse](t, rec).Credential
	require.NotEmpty(t, credential)

	sellerHeaders := map[string]string{
		middleware.SellerAuthorizationHeader: "Bearer " + seller.AccessToken,
		middleware.StoreCredentialHeader:     credential,
	}
	rec = call(t, h, http.MethodPost, "/stores/"+strconv.Itoa(int(store.ID))+"/products", map[string]any{
		"name": "Park Hopper", "price": 2500, "external_id": "PH-2D", "park_code": "mk",
	}, sellerHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	product := decode[products.ProductDTO](t, rec)

	rec = call(t, h, http.MethodPost, "/customers/", map[string]string{
		"name": "Bruno", "email": "bruno@example.com", "password": "secret2",
	}, map[string]string{middleware.StoreCredentialHeader: credential})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	customer := decode[customers.AuthResponse](t, rec)

	return shopSession{
		sellerHeaders: sellerHeaders,
		customerHeaders: map[string]string{
			middleware.StoreCredentialHeader:       credential,
			middleware.CustomerAuthorizationHeader: "Bearer " + customer.AccessToken,
		},
		storeID:   store.ID,
		productID: product.ID,
	}
}

func checkout(t *testing.T, h http.Handler, s shopSession) orders.Detail {
	t.Helper()
	rec := call(t, h, http.MethodPost, "/carts/", map[string]any{
		"product_id": s.productID, "amount": 2, "attributes": map[string]any{"visit_date": "2026-11-02"},
	}, s.customerHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodPost, "/orders/", map[string]string{
		"customer_name": "Bruno", "customer_email": "bruno@example.com", "customer_document": "123",
		"customer_phone": "555", "address_street": "Main", "address_number": "1",
		"address_city": "Orlando", "address_state": "FL", "address_zip": "32830",
	}, s.customerHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[orders.Detail](t, rec)
}

func TestHealthLive(t *testing.T) {
	h := newTestRouter(t)

	rec := call(t, h, http.MethodGet, "/health/live", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-Marketplace-Env"))

	rec = call(t, h, http.MethodGet, "/health/ready", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"database":"ok"`)
}

func TestMarketplaceFlow(t *testing.T) {
	h := newTestRouter(t)
	s := setupShop(t, h)

	rec := call(t, h, http.MethodGet, "/carts/current", nil, s.customerHeaders)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[cart.View](t, rec).CartEmpty)

	order := checkout(t, h, s)
	assert.Equal(t, "order1", order.Code)
	assert.Equal(t, int64(5000), order.TotalPrice)
	require.Len(t, order.Items, 1)
	assert.Equal(t, types.Attributes{"visit_date": "2026-11-02"}, order.Items[0].Attributes)

	rec = call(t, h, http.MethodGet, "/carts/current", nil, s.customerHeaders)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[cart.View](t, rec).CartEmpty)

	rec = call(t, h, http.MethodGet, "/orders/order1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "created", string(decode[orders.Detail](t, rec).Status))

	rec = call(t, h, http.MethodPost, "/orders/order1/pay", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "paid", string(decode[orders.Detail](t, rec).Status))

	rec = call(t, h, http.MethodGet, "/seller/orders", nil, s.sellerHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list := decode[orders.SellerOrderList](t, rec)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, "2x Park Hopper", list.Orders[0].Products)

	rec = call(t, h, http.MethodGet, "/seller/dashboard-stats", nil, s.sellerHeaders)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[orders.DashboardStats](t, rec)
	assert.Equal(t, int64(5000), stats.TotalToday)
	assert.Equal(t, int64(1), stats.UniqueCustomers)
}

func TestPayCancelledOrderConflicts(t *testing.T) {
	h := newTestRouter(t)
	s := setupShop(t, h)
	order := checkout(t, h, s)

	rec := call(t, h, http.MethodPatch, "/seller/orders/"+order.Code+"/status",
		map[string]string{"status": "cancelled"}, s.sellerHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodPost, "/orders/"+order.Code+"/pay", nil, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", decode[map[string]any](t, rec)["code"])
}

func TestMaterializeByExternalCode(t *testing.T) {
	h := newTestRouter(t)
	s := setupShop(t, h)

	rec := call(t, h, http.MethodGet, "/products/by-external-code?product_code=MK-1D&park_code=mk", nil, s.customerHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[products.ExternalCodeResponse](t, rec)
	assert.NotZero(t, first.ProductID)

	rec = call(t, h, http.MethodGet, "/products/"+strconv.Itoa(int(first.ProductID)), nil, s.customerHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Magic Kingdom 1 Day", decode[products.ProductDTO](t, rec).Name)
}

func TestAuthFailures(t *testing.T) {
	h := newTestRouter(t)
	s := setupShop(t, h)

	cases := []struct {
		name    string
		method  string
		path    string
		headers map[string]string
	}{
		{"missing seller token", http.MethodPost, "/stores/", nil},
		{"bad seller token", http.MethodGet, "/seller/orders", map[string]string{
			middleware.SellerAuthorizationHeader: "Bearer nope",
			middleware.StoreCredentialHeader:     s.customerHeaders[middleware.StoreCredentialHeader],
		}},
		{"missing store credential", http.MethodGet, "/carts/current", map[string]string{
			middleware.CustomerAuthorizationHeader: s.customerHeaders[middleware.CustomerAuthorizationHeader],
		}},
		{"unknown store credential", http.MethodGet, "/maria/parks", map[string]string{
			middleware.StoreCredentialHeader: "sc_unknown",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := call(t, h, tc.method, tc.path, nil, tc.headers)
			assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
		})
	}
}

func TestSellerProfileAndStore(t *testing.T) {
	h := newTestRouter(t)
	s := setupShop(t, h)

	rec := call(t, h, http.MethodGet, "/sellers/me", nil, s.sellerHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	me := decode[sellers.SellerDTO](t, rec)
	assert.Equal(t, "ana@example.com", me.Email)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = call(t, h, http.MethodGet, "/stores/", nil, s.sellerHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, s.storeID, decode[stores.StoreDTO](t, rec).ID)
	assert.NotContains(t, rec.Body.String(), "credential")

	rec = call(t, h, http.MethodGet, "/sellers/me", nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSellerCannotAddProductToForeignStore(t *testing.T) {
	h := newTestRouter(t)
	s := setupShop(t, h)

	rec := call(t, h, http.MethodPost, "/stores/"+strconv.Itoa(int(s.storeID+1))+"/products", map[string]any{
		"name": "Hopper", "price": 100, "external_id": "X-1",
	}, s.sellerHeaders)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t)
	_ = call(t, h, http.MethodGet, "/health/live", nil, nil)

	rec := call(t, h, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/health/live")
}
