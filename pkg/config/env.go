package config

// EnvPrefix scopes envconfig lookups; every field also declares its full name.
const EnvPrefix = "RIDERHUB"

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "RIDERHUB_APP_ENV"
	EnvPort      = "RIDERHUB_APP_PORT"
	EnvLogLevel  = "RIDERHUB_LOG_LEVEL"
	EnvDBDSN     = "RIDERHUB_DB_DSN"
	EnvDBHost    = "RIDERHUB_DB_HOST"
	EnvDBUser    = "RIDERHUB_DB_USER"
	EnvDBName    = "RIDERHUB_DB_NAME"
	EnvRedisURL  = "RIDERHUB_REDIS_URL"
	EnvJWTSecret = "RIDERHUB_JWT_SECRET"
	EnvJWTIssuer = "RIDERHUB_JWT_ISSUER"
	EnvJWTExpMin = "RIDERHUB_JWT_EXPIRATION_MINUTES"
	EnvUseSQLite = "RIDERHUB_USE_SQLITE"
	EnvS3Bucket  = "RIDERHUB_S3_BUCKET"
	EnvS3Region  = "RIDERHUB_S3_REGION"
	EnvSMTPHost  = "RIDERHUB_SMTP_HOST"
	EnvSMTPFrom  = "RIDERHUB_SMTP_FROM"
	EnvFrontend  = "RIDERHUB_FRONTEND_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
