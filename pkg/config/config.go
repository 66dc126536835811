package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FormRateLimit FormRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Storage       StorageConfig
	SMTP          SMTPConfig
	Frontend      FrontendConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = cfg.DB.SQLitePath
		}
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RIDERHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"RIDERHUB_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"RIDERHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RIDERHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"RIDERHUB_DB_DSN"`
	Driver     string `envconfig:"RIDERHUB_DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"RIDERHUB_DB_SQLITE_PATH" default:"file:riderhub.db?_foreign_keys=on"`

	LegacyHost     string `envconfig:"RIDERHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"RIDERHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RIDERHUB_DB_USER"`
	LegacyPassword string `envconfig:"RIDERHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"RIDERHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"RIDERHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RIDERHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RIDERHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RIDERHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RIDERHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"RIDERHUB_DB_SLOW_QUERY" default:"500ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RIDERHUB_REDIS_URL"`
	Address      string        `envconfig:"RIDERHUB_REDIS_ADDR"`
	Password     string        `envconfig:"RIDERHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"RIDERHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RIDERHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RIDERHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RIDERHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RIDERHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RIDERHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured. Auth rate limiting
// is skipped when it is not.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"RIDERHUB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"RIDERHUB_JWT_ISSUER" default:"riderhub"`
	ExpirationMinutes int    `envconfig:"RIDERHUB_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"RIDERHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"RIDERHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"RIDERHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"RIDERHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"RIDERHUB_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"RIDERHUB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"RIDERHUB_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"RIDERHUB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"RIDERHUB_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"RIDERHUB_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"RIDERHUB_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// FormRateLimitConfig throttles public form posts per client IP.
type FormRateLimitConfig struct {
	Window  time.Duration `envconfig:"RIDERHUB_FORM_RATE_LIMIT_WINDOW" default:"10m"`
	IPLimit int64         `envconfig:"RIDERHUB_FORM_RATE_LIMIT_IP_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"RIDERHUB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"RIDERHUB_AUTO_MIGRATE" default:"false"`
}

// StorageConfig points at an S3 compatible bucket holding product images.
type StorageConfig struct {
	Bucket          string `envconfig:"RIDERHUB_S3_BUCKET"`
	Region          string `envconfig:"RIDERHUB_S3_REGION" default:"af-south-1"`
	Endpoint        string `envconfig:"RIDERHUB_S3_ENDPOINT"`
	AccessKeyID     string `envconfig:"RIDERHUB_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"RIDERHUB_S3_SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `envconfig:"RIDERHUB_S3_USE_PATH_STYLE" default:"false"`
	PublicBaseURL   string `envconfig:"RIDERHUB_S3_PUBLIC_BASE_URL"`
	KeyPrefix       string `envconfig:"RIDERHUB_S3_KEY_PREFIX" default:"products"`
	MaxUploadMB     int    `envconfig:"RIDERHUB_MAX_UPLOAD_MB" default:"10"`
}

func (s StorageConfig) MaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(s.MaxUploadMB) << 20
}

type SMTPConfig struct {
	Host     string `envconfig:"RIDERHUB_SMTP_HOST"`
	Port     int    `envconfig:"RIDERHUB_SMTP_PORT" default:"587"`
	Username string `envconfig:"RIDERHUB_SMTP_USERNAME"`
	Password string `envconfig:"RIDERHUB_SMTP_PASSWORD"`
	From     string `envconfig:"RIDERHUB_SMTP_FROM" default:"no-reply@riderhub.co.ke"`
}

// Enabled reports whether outbound mail has a relay to talk to.
func (s SMTPConfig) Enabled() bool {
	return strings.TrimSpace(s.Host) != ""
}

type FrontendConfig struct {
	BaseURL       string `envconfig:"RIDERHUB_FRONTEND_URL" default:"http://localhost:3000"`
	AllowedOrigin string `envconfig:"RIDERHUB_CORS_ORIGINS" default:"http://localhost:3000"`
}

// Origins splits the comma separated CORS origin list.
func (f FrontendConfig) Origins() []string {
	var out []string
	for _, part := range strings.Split(f.AllowedOrigin, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
