package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/parkmarket/marketplace-backend/api/controllers"
	"github.com/parkmarket/marketplace-backend/api/routes"
	"github.com/parkmarket/marketplace-backend/internal/auth"
	"github.com/parkmarket/marketplace-backend/internal/cart"
	"github.com/parkmarket/marketplace-backend/internal/catalog"
	"github.com/parkmarket/marketplace-backend/internal/customers"
	"github.com/parkmarket/marketplace-backend/internal/orders"
	"github.com/parkmarket/marketplace-backend/internal/products"
	"github.com/parkmarket/marketplace-backend/internal/sellers"
	"github.com/parkmarket/marketplace-backend/internal/stores"
	"github.com/parkmarket/marketplace-backend/pkg/config"
	"github.com/parkmarket/marketplace-backend/pkg/db"
	"github.com/parkmarket/marketplace-backend/pkg/events"
	"github.com/parkmarket/marketplace-backend/pkg/instance"
	"github.com/parkmarket/marketplace-backend/pkg/logger"
	"github.com/parkmarket/marketplace-backend/pkg/maria"
	"github.com/parkmarket/marketplace-backend/pkg/metrics"
	"github.com/parkmarket/marketplace-backend/pkg/migrate"
	"github.com/parkmarket/marketplace-backend/pkg/pricing"
	"github.com/parkmarket/marketplace-backend/pkg/redis"
	"github.com/parkmarket/marketplace-backend/pkg/security"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(logg, "database", err)

	requireResource(logg, "dev migrations", migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient))

	readiness := map[string]controllers.Pinger{"database": dbClient}
	deps := routes.Deps{Config: cfg, Logger: logg, Readiness: readiness}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		requireResource(logg, "redis", err)
		deps.RateLimits = redisClient
		deps.Idempotency = redisClient
		readiness["redis"] = redisClient
	} else {
		logg.Warn(context.Background(), "redis not configured; auth rate limits and idempotency are disabled")
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled() {
		publisher = events.NewKafkaPublisher(cfg.Kafka)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps.Metrics = metrics.NewHTTPMetrics(reg)
	deps.Gatherer = reg

	mariaClient, err := maria.NewClient(cfg.Maria.BaseURL,
		maria.WithTimeout(cfg.Maria.Timeout),
		maria.WithAPIKey(cfg.Maria.APIKey),
	)
	requireResource(logg, "catalog client", err)

	engine := pricing.NewEngine(cfg.Pricing.PlatformCommissionPercentage)
	hasher := security.NewArgon2Hasher(cfg.Password)
	conn := dbClient.DB()

	deps.Auth, err = auth.NewService(auth.ServiceParams{Repo: auth.NewRepository(conn), Tx: dbClient})
	requireResource(logg, "auth service", err)

	deps.Sellers, err = sellers.NewService(sellers.ServiceParams{
		Repo:   sellers.NewRepository(conn),
		Tx:     dbClient,
		Tokens: deps.Auth,
		Hasher: hasher,
	})
	requireResource(logg, "seller service", err)

	deps.Customers, err = customers.NewService(customers.ServiceParams{
		Repo:   customers.NewRepository(conn),
		Tx:     dbClient,
		Tokens: deps.Auth,
		Hasher: hasher,
	})
	requireResource(logg, "customer service", err)

	deps.Stores, err = stores.NewService(stores.NewRepository(conn))
	requireResource(logg, "store service", err)

	deps.Products, err = products.NewService(products.ServiceParams{
		Repo:    products.NewRepository(conn),
		Catalog: mariaClient,
		Pricing: engine,
		Logger:  logg,
	})
	requireResource(logg, "product service", err)

	deps.Catalog, err = catalog.NewService(mariaClient, engine)
	requireResource(logg, "catalog service", err)

	deps.Cart, err = cart.NewService(cart.NewRepository(conn), dbClient)
	requireResource(logg, "cart service", err)

	deps.Orders, err = orders.NewService(orders.ServiceParams{
		Repo:      orders.NewRepository(conn),
		Tx:        dbClient,
		Publisher: publisher,
		Metrics:   metrics.NewOrderMetrics(reg),
		Logger:    logg,
	})
	requireResource(logg, "order service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	closeErr := server.Shutdown(shutdownCtx)
	cancel()
	closeErr = multierr.Append(closeErr, publisher.Close())
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "error during shutdown", closeErr)
		exitCode = 1
	}
	stop()
	os.Exit(exitCode)
}

func requireResource(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to bootstrap "+name, err)
	os.Exit(1)
}
