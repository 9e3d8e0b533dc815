package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App         AppConfig
	DB          DBConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Password    PasswordConfig
	Persistence PersistenceConfig
	RateLimit   AuthRateLimitConfig
	RemoteSync  RemoteSyncConfig
	Copywriter  CopywriterConfig
	Features    FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPDASH_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPDASH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPDASH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPDASH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPDASH_DB_DSN"`
	Driver string `envconfig:"SHOPDASH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPDASH_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPDASH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPDASH_DB_USER"`
	LegacyPassword string `envconfig:"SHOPDASH_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPDASH_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPDASH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPDASH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPDASH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPDASH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPDASH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPDASH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPDASH_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPDASH_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPDASH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPDASH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPDASH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPDASH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPDASH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPDASH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SHOPDASH_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SHOPDASH_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SHOPDASH_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHOPDASH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHOPDASH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHOPDASH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHOPDASH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHOPDASH_ARGON_KEY_LEN" default:"32"`
}

// PersistenceConfig tunes the slot store and state bindings.
type PersistenceConfig struct {
	SlotPrefix    string        `envconfig:"SHOPDASH_SLOT_PREFIX" default:"shopdash"`
	SaveDebounce  time.Duration `envconfig:"SHOPDASH_SAVE_DEBOUNCE" default:"500ms"`
	MigrationFlag string        `envconfig:"SHOPDASH_MIGRATION_FLAG" default:"shopdash_migration_complete"`
}

// AuthRateLimitConfig throttles the credential endpoints.
type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SHOPDASH_RL_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit       int           `envconfig:"SHOPDASH_RL_LOGIN_IP_LIMIT" default:"10"`
	LoginEmailLimit    int           `envconfig:"SHOPDASH_RL_LOGIN_EMAIL_LIMIT" default:"5"`
	RegisterWindow     time.Duration `envconfig:"SHOPDASH_RL_REGISTER_WINDOW" default:"1h"`
	RegisterIPLimit    int           `envconfig:"SHOPDASH_RL_REGISTER_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"SHOPDASH_RL_REGISTER_EMAIL_LIMIT" default:"3"`
}

// RemoteSyncConfig tunes the remote reconciliation client.
type RemoteSyncConfig struct {
	Enabled      bool          `envconfig:"SHOPDASH_SYNC_ENABLED" default:"false"`
	BaseURL      string        `envconfig:"SHOPDASH_SYNC_BASE_URL"`
	APIKey       string        `envconfig:"SHOPDASH_SYNC_API_KEY"`
	PushDebounce time.Duration `envconfig:"SHOPDASH_SYNC_PUSH_DEBOUNCE" default:"2s"`
	HTTPTimeout  time.Duration `envconfig:"SHOPDASH_SYNC_HTTP_TIMEOUT" default:"15s"`
}

// CopywriterConfig points at the text-generation API used for listing copy.
type CopywriterConfig struct {
	BaseURL     string        `envconfig:"SHOPDASH_COPYWRITER_BASE_URL" default:"https://openrouter.ai/api/v1"`
	APIKey      string        `envconfig:"SHOPDASH_COPYWRITER_API_KEY"`
	Model       string        `envconfig:"SHOPDASH_COPYWRITER_MODEL" default:"meta-llama/llama-3.1-8b-instruct"`
	HTTPTimeout time.Duration `envconfig:"SHOPDASH_COPYWRITER_HTTP_TIMEOUT" default:"30s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHOPDASH_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHOPDASH_AUTO_MIGRATE" default:"false"`
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
