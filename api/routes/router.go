package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

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
	"github.com/parkmarket/marketplace-backend/pkg/logger"
	"github.com/parkmarket/marketplace-backend/pkg/metrics"
	"github.com/parkmarket/marketplace-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. RateLimits and
// Idempotency are nil when Redis is not configured.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	Auth      auth.Service
	Sellers   sellers.Service
	Customers customers.Service
	Stores    stores.Service
	Products  products.Service
	Catalog   catalog.Service
	Cart      cart.Service
	Orders    orders.Service

	RateLimits  middleware.RateLimitStore
	Idempotency redis.IdempotencyStore

	Metrics   *metrics.HTTPMetrics
	Gatherer  prometheus.Gatherer
	Readiness map[string]controllers.Pinger
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.Metrics),
		middleware.CORS(cfg.App.AllowedOrigins()),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	loginLimit := middleware.AuthRateLimit(loginPolicy, d.RateLimits, logg)
	registerLimit := middleware.AuthRateLimit(registerPolicy, d.RateLimits, logg)

	var idempotent func(http.Handler) http.Handler
	if cfg.FeatureFlags.Idempotency && d.Idempotency != nil {
		idempotent = middleware.Idempotency(d.Idempotency, cfg.Idempotency.TTL, logg)
	} else {
		idempotent = func(next http.Handler) http.Handler { return next }
	}

	sellerAuth := middleware.SellerAuth(d.Auth, logg)
	customerAuth := middleware.CustomerAuth(d.Auth, logg)
	storeCredential := middleware.StoreCredential(d.Stores, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.Readiness))
	})
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/sellers", func(r chi.Router) {
		r.With(registerLimit).Post("/", controllers.SellerRegister(d.Sellers, logg))
		r.With(loginLimit).Post("/auth", controllers.SellerLogin(d.Sellers, logg))
		r.With(sellerAuth).Get("/me", controllers.SellerProfile(logg))
	})

	r.Route("/stores", func(r chi.Router) {
		r.Use(sellerAuth)
		r.Get("/", controllers.StoreMine(d.Stores, logg))
		r.Post("/", controllers.StoreCreate(d.Stores, logg))
		r.Get("/{id}/get-credential", controllers.StoreGetCredential(d.Stores, logg))
		r.With(storeCredential).Post("/{id}/products", controllers.StoreCreateProduct(d.Stores, d.Products, logg))
	})

	r.Route("/customers", func(r chi.Router) {
		r.Use(storeCredential)
		r.With(registerLimit).Post("/", controllers.CustomerRegister(d.Customers, logg))
		r.With(loginLimit).Post("/auth", controllers.CustomerLogin(d.Customers, logg))
	})

	r.Route("/products", func(r chi.Router) {
		r.Use(storeCredential)
		r.Get("/by-external-code", controllers.ProductByExternalCode(d.Products, logg))
		r.Get("/{id}", controllers.ProductGet(d.Products, logg))
	})

	r.Route("/carts", func(r chi.Router) {
		r.Use(storeCredential, customerAuth)
		r.Get("/current", controllers.CartCurrent(d.Cart, logg))
		r.Post("/", controllers.CartAddItem(d.Cart, logg))
		r.Put("/update-amount", controllers.CartUpdateAmount(d.Cart, logg))
		r.Delete("/{product_id}", controllers.CartRemoveItem(d.Cart, logg))
	})

	r.Route("/orders", func(r chi.Router) {
		r.With(storeCredential, customerAuth, idempotent).Post("/", controllers.OrderCreate(d.Orders, logg))
		r.Get("/{code}", controllers.OrderGet(d.Orders, logg))
		r.With(idempotent).Post("/{code}/pay", controllers.OrderPay(d.Orders, logg))
	})

	r.Route("/seller", func(r chi.Router) {
		r.Use(sellerAuth, storeCredential)
		r.Get("/orders", controllers.SellerOrders(d.Stores, d.Orders, logg))
		r.Get("/dashboard-stats", controllers.SellerDashboardStats(d.Stores, d.Orders, logg))
		r.Patch("/orders/{code}/status", controllers.SellerUpdateOrderStatus(d.Stores, d.Orders, logg))
	})

	r.Route("/maria", func(r chi.Router) {
		r.Use(storeCredential)
		r.Get("/parks", controllers.CatalogParks(d.Catalog, logg))
		r.Get("/parks/{code}", controllers.CatalogPark(d.Catalog, logg))
		r.Get("/parks/{code}/products", controllers.CatalogParkProducts(d.Catalog, logg))
		r.Get("/parks/{code}/products/{product_code}", controllers.CatalogParkProduct(d.Catalog, logg))
	})

	return r
}
