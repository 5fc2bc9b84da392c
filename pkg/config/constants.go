package config

const (
	EnvPrefix = "graamkart"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv    = "GRAAMKART_APP_ENV"
	EnvPort      = "GRAAMKART_APP_PORT"
	EnvDBDSN     = "GRAAMKART_DB_DSN"
	EnvDBHost    = "GRAAMKART_DB_HOST"
	EnvDBUser    = "GRAAMKART_DB_USER"
	EnvDBName    = "GRAAMKART_DB_NAME"
	EnvRedisURL  = "GRAAMKART_REDIS_URL"
	EnvJWTSecret = "GRAAMKART_JWT_SECRET"
	EnvJWTIssuer = "GRAAMKART_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
