package config

const EnvPrefix = "SHOPDASH"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "SHOPDASH_APP_ENV"
	EnvPort     = "SHOPDASH_APP_PORT"
	EnvDBDSN    = "SHOPDASH_DB_DSN"
	EnvDBHost   = "SHOPDASH_DB_HOST"
	EnvDBUser   = "SHOPDASH_DB_USER"
	EnvDBName   = "SHOPDASH_DB_NAME"
	EnvRedisURL = "SHOPDASH_REDIS_URL"

	EnvJWTSecret  = "SHOPDASH_JWT_SECRET"
	EnvJWTIssuer  = "SHOPDASH_JWT_ISSUER"
	EnvJWTExpMins = "SHOPDASH_JWT_EXPIRATION_MINUTES"

	EnvSyncBaseURL = "SHOPDASH_SYNC_BASE_URL"
	EnvSyncAPIKey  = "SHOPDASH_SYNC_API_KEY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
