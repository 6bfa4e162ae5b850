package config

const EnvPrefix = "EPICDREAMS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "EPICDREAMS_APP_ENV"
	EnvPort         = "EPICDREAMS_APP_PORT"
	EnvLogLevel     = "EPICDREAMS_LOG_LEVEL"
	EnvLogWarnStack = "EPICDREAMS_LOG_WARN_STACK"
	EnvAppURL       = "EPICDREAMS_APP_URL"

	EnvDBDSN      = "EPICDREAMS_DB_DSN"
	EnvDBDriver   = "EPICDREAMS_DB_DRIVER"
	EnvDBHost     = "EPICDREAMS_DB_HOST"
	EnvDBPort     = "EPICDREAMS_DB_PORT"
	EnvDBUser     = "EPICDREAMS_DB_USER"
	EnvDBPassword = "EPICDREAMS_DB_PASSWORD"
	EnvDBName     = "EPICDREAMS_DB_NAME"
	EnvDBSSLMode  = "EPICDREAMS_DB_SSLMODE"

	EnvRedisURL = "EPICDREAMS_REDIS_URL"

	EnvJWTSecret        = "EPICDREAMS_JWT_SECRET"
	EnvJWTIssuer        = "EPICDREAMS_JWT_ISSUER"
	EnvJWTExpMins       = "EPICDREAMS_JWT_EXPIRATION_MINUTES"
	EnvSessionTTLMinute = "EPICDREAMS_SESSION_TTL_MINUTES"

	EnvBcryptCost = "EPICDREAMS_BCRYPT_COST"

	EnvUseSQLite   = "EPICDREAMS_USE_SQLITE"
	EnvAutoMigrate = "EPICDREAMS_AUTO_MIGRATE"

	EnvStripeSecretKey     = "EPICDREAMS_STRIPE_SECRET_KEY"
	EnvStripeWebhookSecret = "EPICDREAMS_STRIPE_WEBHOOK_SECRET"
	EnvStripeEnv           = "EPICDREAMS_STRIPE_ENV"

	EnvSMTPHost     = "EPICDREAMS_SMTP_HOST"
	EnvSMTPPort     = "EPICDREAMS_SMTP_PORT"
	EnvSMTPUser     = "EPICDREAMS_SMTP_USER"
	EnvSMTPPassword = "EPICDREAMS_SMTP_PASSWORD"
	EnvSMTPFrom     = "EPICDREAMS_SMTP_FROM"
	EnvContactInbox = "EPICDREAMS_CONTACT_INBOX"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
