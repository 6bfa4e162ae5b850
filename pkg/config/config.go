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
	FeatureFlags  FeatureFlagsConfig
	Stripe        StripeConfig
	SMTP          SMTPConfig
	Admin         AdminConfig
	Checkout      CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	cfg.App.URL = strings.TrimRight(strings.TrimSpace(cfg.App.URL), "/")
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"EPICDREAMS_APP_ENV" required:"true"`
	Port           string   `envconfig:"EPICDREAMS_APP_PORT" required:"true"`
	LogLevel       string   `envconfig:"EPICDREAMS_LOG_LEVEL" default:"info"`
	LogWarnStack   bool     `envconfig:"EPICDREAMS_LOG_WARN_STACK" default:"false"`
	URL            string   `envconfig:"EPICDREAMS_APP_URL" default:"http://localhost:3000"`
	AllowedOrigins []string `envconfig:"EPICDREAMS_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DBConfig struct {
	DSN    string `envconfig:"EPICDREAMS_DB_DSN"`
	Driver string `envconfig:"EPICDREAMS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"EPICDREAMS_DB_HOST"`
	LegacyPort     int    `envconfig:"EPICDREAMS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"EPICDREAMS_DB_USER"`
	LegacyPassword string `envconfig:"EPICDREAMS_DB_PASSWORD"`
	LegacyName     string `envconfig:"EPICDREAMS_DB_NAME"`
	LegacySSLMode  string `envconfig:"EPICDREAMS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"EPICDREAMS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EPICDREAMS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EPICDREAMS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EPICDREAMS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the local sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"EPICDREAMS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"EPICDREAMS_REDIS_ADDR"`
	Password     string        `envconfig:"EPICDREAMS_REDIS_PASSWORD"`
	DB           int           `envconfig:"EPICDREAMS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EPICDREAMS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EPICDREAMS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EPICDREAMS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EPICDREAMS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EPICDREAMS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"EPICDREAMS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"EPICDREAMS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"EPICDREAMS_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"EPICDREAMS_SESSION_TTL_MINUTES" default:"10080"`
	CookieSecure      bool   `envconfig:"EPICDREAMS_COOKIE_SECURE" default:"true"`
}

// SessionTTL returns the admin session lifetime configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

// AccessTTL returns the access token lifetime.
func (j JWTConfig) AccessTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	BcryptCost int `envconfig:"EPICDREAMS_BCRYPT_COST" default:"12"`
	MinLength  int `envconfig:"EPICDREAMS_PASSWORD_MIN_LENGTH" default:"8"`
}

type AuthRateLimitConfig struct {
	LoginWindow       time.Duration `envconfig:"EPICDREAMS_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit   int           `envconfig:"EPICDREAMS_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit      int           `envconfig:"EPICDREAMS_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	ForgotWindow      time.Duration `envconfig:"EPICDREAMS_RATE_LIMIT_FORGOT_WINDOW" default:"15m"`
	ForgotEmailLimit  int           `envconfig:"EPICDREAMS_RATE_LIMIT_FORGOT_EMAIL_LIMIT" default:"3"`
	ForgotIPLimit     int           `envconfig:"EPICDREAMS_RATE_LIMIT_FORGOT_IP_LIMIT" default:"10"`
	ContactWindow     time.Duration `envconfig:"EPICDREAMS_RATE_LIMIT_CONTACT_WINDOW" default:"10m"`
	ContactEmailLimit int           `envconfig:"EPICDREAMS_RATE_LIMIT_CONTACT_EMAIL_LIMIT" default:"3"`
	ContactIPLimit    int           `envconfig:"EPICDREAMS_RATE_LIMIT_CONTACT_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"EPICDREAMS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"EPICDREAMS_AUTO_MIGRATE" default:"false"`
}

type StripeConfig struct {
	SecretKey      string        `envconfig:"EPICDREAMS_STRIPE_SECRET_KEY"`
	WebhookSecret  string        `envconfig:"EPICDREAMS_STRIPE_WEBHOOK_SECRET"`
	Env            string        `envconfig:"EPICDREAMS_STRIPE_ENV" default:"test"`
	IdempotencyTTL time.Duration `envconfig:"EPICDREAMS_STRIPE_IDEMPOTENCY_TTL" default:"720h"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

const defaultFromAddress = "noreply@epicdreamsentertainment.com"

type SMTPConfig struct {
	Host         string `envconfig:"EPICDREAMS_SMTP_HOST"`
	Port         int    `envconfig:"EPICDREAMS_SMTP_PORT" default:"587"`
	User         string `envconfig:"EPICDREAMS_SMTP_USER"`
	Password     string `envconfig:"EPICDREAMS_SMTP_PASSWORD"`
	From         string `envconfig:"EPICDREAMS_SMTP_FROM"`
	ContactInbox string `envconfig:"EPICDREAMS_CONTACT_INBOX"`
}

// Enabled reports whether an SMTP relay is configured.
func (s SMTPConfig) Enabled() bool {
	return strings.TrimSpace(s.Host) != ""
}

// ImplicitTLS reports whether the relay expects TLS from the first byte (SMTPS).
func (s SMTPConfig) ImplicitTLS() bool {
	return s.Port == 465
}

// FromAddress resolves the sender, falling back to the SMTP user and then the
// storefront no-reply mailbox.
func (s SMTPConfig) FromAddress() string {
	if from := strings.TrimSpace(s.From); from != "" {
		return from
	}
	if user := strings.TrimSpace(s.User); user != "" {
		return user
	}
	return defaultFromAddress
}

type AdminConfig struct {
	DefaultEmail    string        `envconfig:"EPICDREAMS_ADMIN_DEFAULT_EMAIL" default:"admin@epicdreamsent.com"`
	DefaultPassword string        `envconfig:"EPICDREAMS_ADMIN_DEFAULT_PASSWORD" default:"ChangeMe123!"`
	ResetTokenTTL   time.Duration `envconfig:"EPICDREAMS_ADMIN_RESET_TOKEN_TTL" default:"1h"`
}

type CheckoutConfig struct {
	AllowedCountries []string      `envconfig:"EPICDREAMS_CHECKOUT_ALLOWED_COUNTRIES" default:"US,CA,GB,AU"`
	AutomaticTax     bool          `envconfig:"EPICDREAMS_CHECKOUT_AUTOMATIC_TAX" default:"true"`
	SettingsCacheTTL time.Duration `envconfig:"EPICDREAMS_SETTINGS_CACHE_TTL" default:"1h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:epicdreams.db?cache=shared&_foreign_keys=on"
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
