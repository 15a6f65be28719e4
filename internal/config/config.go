package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// EnvProduction selects secure cross-site session cookies.
const EnvProduction = "production"

// ErrHelpWanted is returned by Load when --help was requested; the usage text
// has already been printed.
var ErrHelpWanted = conf.ErrHelpWanted

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Env string `conf:"default:development,env:APP_ENV,help:development or production"`

	Port            string        `conf:"default:4000,env:PORT"`
	CorsOrigins     []string      `conf:"default:http://localhost:3000;https://pizza-six-alpha.vercel.app,env:CORS_ORIGINS"`
	ReadTimeout     time.Duration `conf:"default:10s,env:READ_TIMEOUT"`
	WriteTimeout    time.Duration `conf:"default:10s,env:WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `conf:"default:20s,env:SHUTDOWN_TIMEOUT"`
	LoginRateLimit  float64       `conf:"default:10,env:LOGIN_RATE_LIMIT,help:requests per second per client on /user"`
	LoginRateBurst  int           `conf:"default:20,env:LOGIN_RATE_BURST"`

	StoreDriver   string `conf:"default:mongo,env:STORE_DRIVER,help:mongo mysql postgres or memory"`
	MongoURI      string `conf:"default:mongodb://localhost:27017,env:MONGODB_URI,mask"`
	MongoDatabase string `conf:"default:Internship,env:MONGODB_DATABASE"`
	SQLDSN        string `conf:"env:SQL_DSN,mask"`

	RedisAddr     string `conf:"env:REDIS_ADDR"`
	RedisPassword string `conf:"env:REDIS_PASSWORD,mask"`
	RedisDB       int    `conf:"default:0,env:REDIS_DB"`

	SessionSecret string `conf:"required,mask,env:SESSION_SECRET"`
	JWTSecret     string `conf:"required,mask,env:JWT_SECRET"`

	SeedFile string `conf:"default:seed/items.json,env:SEED_FILE"`
}

// Load reads an optional .env file and builds Config from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	help, err := conf.Parse("", &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
		}
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values conf cannot express as tags.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverMemory:
	case DriverMySQL, DriverPostgres:
		if c.SQLDSN == "" {
			return fmt.Errorf("SQL_DSN is required for store driver %q", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.LoginRateLimit <= 0 {
		return errors.New("LOGIN_RATE_LIMIT must be positive")
	}
	return nil
}

// Production reports whether cookies must be issued for HTTPS cross-site use.
func (c *Config) Production() bool {
	return c.Env == EnvProduction
}

// String renders the configuration with secrets masked, for startup logs.
func (c *Config) String() string {
	out, err := conf.String(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return out
}
