package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Session  SessionConfig
	Admin    AdminConfig
	Password PasswordConfig
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
	Env          string `envconfig:"HOSTEL_APP_ENV" default:"dev"`
	Port         string `envconfig:"HOSTEL_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"HOSTEL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HOSTEL_LOG_WARN_STACK" default:"false"`

	// AuthEnabled switches between the open roster surface and the
	// session-gated one. When disabled, roster routes accept anonymous
	// requests and client-supplied ids.
	AuthEnabled bool `envconfig:"HOSTEL_AUTH_ENABLED" default:"true"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HOSTEL_DB_DSN"`
	Driver string `envconfig:"HOSTEL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"HOSTEL_DB_HOST"`
	LegacyPort     int    `envconfig:"HOSTEL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"HOSTEL_DB_USER"`
	LegacyPassword string `envconfig:"HOSTEL_DB_PASSWORD"`
	LegacyName     string `envconfig:"HOSTEL_DB_NAME"`
	LegacySSLMode  string `envconfig:"HOSTEL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HOSTEL_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"HOSTEL_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"HOSTEL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HOSTEL_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"HOSTEL_DB_AUTO_MIGRATE" default:"false"`
}

type SessionConfig struct {
	Secret     string `envconfig:"HOSTEL_SESSION_SECRET" required:"true"`
	CookieName string `envconfig:"HOSTEL_SESSION_COOKIE_NAME" default:"hostel_session"`
	MaxAgeSecs int    `envconfig:"HOSTEL_SESSION_MAX_AGE_SECS" default:"86400"`
	Secure     bool   `envconfig:"HOSTEL_SESSION_SECURE" default:"false"`
}

// AdminConfig holds the bootstrap admin credentials. The password is hashed
// at creation time and never persisted in plaintext.
type AdminConfig struct {
	Name     string `envconfig:"HOSTEL_ADMIN_NAME" default:"Admin"`
	Email    string `envconfig:"HOSTEL_ADMIN_EMAIL" default:"admin@hostel.local"`
	Password string `envconfig:"HOSTEL_ADMIN_PASSWORD" default:"admin123"`
}

// Username derives the bootstrap admin username from the configured email.
func (a AdminConfig) Username() string {
	if at := strings.Index(a.Email, "@"); at > 0 {
		return a.Email[:at]
	}
	return a.Email
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"HOSTEL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"HOSTEL_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"HOSTEL_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"HOSTEL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"HOSTEL_ARGON_KEY_LEN" default:"32"`
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
