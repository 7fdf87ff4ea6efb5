package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	DBTypeMemory   = "memory"
	DBTypeSQLite   = "sqlite"
	DBTypePostgres = "postgres"
	DBTypeMySQL    = "mysql"
	DBTypeMongo    = "mongo"

	ORMGorm = "gorm"
	ORMSQL  = "sql"

	defaultAccessSecret  = "dev-access-secret-change-me"
	defaultRefreshSecret = "dev-refresh-secret-change-me"
	defaultSessionSecret = "dev-session-secret-change-me"
)

// Config contains server configuration loaded from the environment.
type Config struct {
	Port          string   `env:"PORT" envDefault:"8080"`
	AppEnv        string   `env:"APP_ENV" envDefault:"development"`
	LogLevel      string   `env:"LOG_LEVEL" envDefault:"info"`
	SessionSecret string   `env:"SESSION_SECRET" envDefault:"dev-session-secret-change-me"`
	CORSOrigins   []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	OpenAIAPIKey  string   `env:"OPENAI_API_KEY"`
	Database      Database `envPrefix:"DB_"`
	Mongo         Mongo    `envPrefix:"MONGO_"`
	Redis         Redis    `envPrefix:"REDIS_"`
	JWT           JWT      `envPrefix:"JWT_"`
}

// Database selects the storage backend.
type Database struct {
	Type string `env:"TYPE" envDefault:"memory"`
	ORM  string `env:"ORM" envDefault:"gorm"`
	// DSN is used by postgres and mysql.
	DSN string `env:"DSN"`
	// Path is the sqlite database file.
	Path string `env:"PATH" envDefault:"todos.db"`
}

type Mongo struct {
	URI      string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"todo_app"`
}

// Redis is optional; an empty Addr disables the todo cache and keeps
// sessions in cookies.
type Redis struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"30s"`
}

type JWT struct {
	AccessSecret  string        `env:"ACCESS_SECRET" envDefault:"dev-access-secret-change-me"`
	RefreshSecret string        `env:"REFRESH_SECRET" envDefault:"dev-refresh-secret-change-me"`
	AccessTTL     time.Duration `env:"ACCESS_TTL" envDefault:"15m"`
	RefreshTTL    time.Duration `env:"REFRESH_TTL" envDefault:"168h"`
}

// Load parses and validates configuration from environment variables.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", c.Port, err)
	}

	switch c.AppEnv {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("invalid APP_ENV %q: must be one of development, production, test", c.AppEnv)
	}

	switch c.Database.Type {
	case DBTypeMemory, DBTypeMongo, DBTypeSQLite:
	case DBTypePostgres, DBTypeMySQL:
		if c.Database.DSN == "" {
			return fmt.Errorf("DB_DSN is required when DB_TYPE is %s", c.Database.Type)
		}
	default:
		return fmt.Errorf("invalid DB_TYPE %q: must be one of memory, sqlite, postgres, mysql, mongo", c.Database.Type)
	}

	switch c.Database.ORM {
	case ORMGorm:
	case ORMSQL:
		if c.Database.Type == DBTypeMySQL {
			return errors.New("DB_ORM=sql supports only sqlite and postgres")
		}
	default:
		return fmt.Errorf("invalid DB_ORM %q: must be one of gorm, sql", c.Database.ORM)
	}

	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must not be empty")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}

	if c.IsProduction() {
		if c.JWT.AccessSecret == defaultAccessSecret || c.JWT.RefreshSecret == defaultRefreshSecret {
			return errors.New("default JWT secrets must not be used in production")
		}
		if c.SessionSecret == defaultSessionSecret {
			return errors.New("default SESSION_SECRET must not be used in production")
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// GinMode maps APP_ENV onto gin's release/debug/test modes.
func (c *Config) GinMode() string {
	switch c.AppEnv {
	case EnvProduction:
		return "release"
	case EnvTest:
		return "test"
	default:
		return "debug"
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
