package config

// EnvPrefix scopes every variable read by Load.
const EnvPrefix = "MARKETPLACE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "MARKETPLACE_APP_ENV"
	EnvPort     = "MARKETPLACE_APP_PORT"
	EnvLogLevel = "MARKETPLACE_LOG_LEVEL"

	EnvDBDSN    = "MARKETPLACE_DB_DSN"
	EnvDBDriver = "MARKETPLACE_DB_DRIVER"
	EnvDBHost   = "MARKETPLACE_DB_HOST"
	EnvDBUser   = "MARKETPLACE_DB_USER"
	EnvDBName   = "MARKETPLACE_DB_NAME"

	EnvRedisURL = "MARKETPLACE_REDIS_URL"

	EnvPlatformCommission = "MARKETPLACE_PLATFORM_COMMISSION_PERCENTAGE"

	EnvMariaBaseURL = "MARKETPLACE_MARIA_API_ENDPOINT"
	EnvMariaTimeout = "MARKETPLACE_MARIA_TIMEOUT"

	EnvKafkaBrokers     = "MARKETPLACE_KAFKA_BROKERS"
	EnvKafkaOrdersTopic = "MARKETPLACE_KAFKA_ORDERS_TOPIC"

	EnvCronInterval       = "MARKETPLACE_CRON_INTERVAL"
	EnvCartAbandonAfter   = "MARKETPLACE_CART_ABANDON_AFTER"
	EnvIdempotencyTTL     = "MARKETPLACE_IDEMPOTENCY_TTL"
	EnvIdempotencyEnabled = "MARKETPLACE_FEATURE_IDEMPOTENCY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
