package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Upstream     UpstreamConfig
	Redis        RedisConfig
	DB           DBConfig
	JWT          JWTConfig
	CartStore    CartStoreConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.CartStore.validate(); err != nil {
		return nil, err
	}
	if cfg.CartStore.IsSQL() {
		if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BODEGON_APP_ENV" required:"true"`
	Port         string `envconfig:"BODEGON_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BODEGON_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BODEGON_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig locates the remote catalog/sales API that owns all
// persistence and pricing authority.
type UpstreamConfig struct {
	BaseURL string        `envconfig:"BODEGON_UPSTREAM_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"BODEGON_UPSTREAM_TIMEOUT" default:"15s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BODEGON_REDIS_URL"`
	Address      string        `envconfig:"BODEGON_REDIS_ADDR"`
	Password     string        `envconfig:"BODEGON_REDIS_PASSWORD"`
	DB           int           `envconfig:"BODEGON_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BODEGON_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BODEGON_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BODEGON_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BODEGON_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BODEGON_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type DBConfig struct {
	DSN    string `envconfig:"BODEGON_DB_DSN"`
	Driver string `envconfig:"BODEGON_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BODEGON_DB_HOST"`
	LegacyPort     int    `envconfig:"BODEGON_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BODEGON_DB_USER"`
	LegacyPassword string `envconfig:"BODEGON_DB_PASSWORD"`
	LegacyName     string `envconfig:"BODEGON_DB_NAME"`
	LegacySSLMode  string `envconfig:"BODEGON_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BODEGON_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BODEGON_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BODEGON_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BODEGON_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BODEGON_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BODEGON_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BODEGON_JWT_EXPIRATION_MINUTES" default:"60"`
}

// CartStoreConfig selects the persistence port backing the keyed cart store.
type CartStoreConfig struct {
	Backend string        `envconfig:"BODEGON_CART_STORE_BACKEND" default:"redis"`
	TTL     time.Duration `envconfig:"BODEGON_CART_TTL" default:"720h"`
}

const (
	CartStoreRedis = "redis"
	CartStoreSQL   = "sql"
)

func (c CartStoreConfig) IsSQL() bool {
	return strings.EqualFold(c.Backend, CartStoreSQL)
}

func (c CartStoreConfig) validate() error {
	backend := strings.ToLower(strings.TrimSpace(c.Backend))
	if backend != CartStoreRedis && backend != CartStoreSQL {
		return fmt.Errorf("invalid cart store backend %q", c.Backend)
	}
	return nil
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"BODEGON_CORS_ALLOWED_ORIGINS" default:"*"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BODEGON_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BODEGON_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" {
		return nil
	}
	if useSQLite {
		db.DSN = "file:bodegon.db?cache=shared"
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
