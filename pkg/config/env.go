package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

const (
	EnvAppEnv      = "STOREFRONT_APP_ENV"
	EnvPort        = "STOREFRONT_APP_PORT"
	EnvBackend     = "STOREFRONT_STORAGE_BACKEND"
	EnvCartKey     = "STOREFRONT_CART_KEY"
	EnvRedisURL    = "STOREFRONT_REDIS_URL"
	EnvRedisAddr   = "STOREFRONT_REDIS_ADDR"
	EnvDBDSN       = "STOREFRONT_DB_DSN"
	EnvFeedURL     = "STOREFRONT_CATALOG_FEED_URL"
	EnvShippingFee = "STOREFRONT_SHIPPING_FEE"
	EnvCoupons     = "STOREFRONT_COUPONS"
)
