package config

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "TIENDITA"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv   = "TIENDITA_APP_ENV"
	EnvPort     = "TIENDITA_APP_PORT"
	EnvDBDSN    = "TIENDITA_DB_DSN"
	EnvDBHost   = "TIENDITA_DB_HOST"
	EnvDBUser   = "TIENDITA_DB_USER"
	EnvDBName   = "TIENDITA_DB_NAME"
	EnvRedisURL = "TIENDITA_REDIS_URL"

	EnvJWTSecret              = "TIENDITA_JWT_SECRET"
	EnvJWTIssuer              = "TIENDITA_JWT_ISSUER"
	EnvJWTExpMins             = "TIENDITA_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "TIENDITA_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
