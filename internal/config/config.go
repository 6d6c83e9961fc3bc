package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const Production = "production"

type DatabaseOptions struct {
	Driver     string `env:"DB_DRIVER" envDefault:"postgres"`
	Host       string `env:"PG_HOST" envDefault:"localhost"`
	Port       string `env:"PG_PORT" envDefault:"5432"`
	User       string `env:"PG_USER" envDefault:"postgres"`
	Password   string `env:"PG_PASSWORD" envDefault:"postgres"`
	Name       string `env:"PG_DB" envDefault:"dispatch"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"dispatch.db"`
}

// ConnectionString builds the postgres URL. Credentials and the database
// name are escaped.
func (d *DatabaseOptions) ConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

type CacheOptions struct {
	Backend       string `env:"CACHE_BACKEND" envDefault:"memory"`
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
}

type ImportOptions struct {
	PreviewTTL   time.Duration `env:"IMPORT_PREVIEW_TTL" envDefault:"30m"`
	MaxBytes     int64         `env:"IMPORT_MAX_BYTES" envDefault:"10485760"`
	ProfilesPath string        `env:"IMPORT_PROFILES_PATH"`
}

type RateLimitOptions struct {
	RPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	Burst int     `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

type Configuration struct {
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	// AuthSecret enables bearer auth on /api when set.
	AuthSecret string `env:"AUTH_SECRET"`

	Database  DatabaseOptions
	Cache     CacheOptions
	Import    ImportOptions
	RateLimit RateLimitOptions
}

// Load reads .env files that exist, then the process environment.
func Load() (*Configuration, error) {
	if _, err := LoadEnv([]string{".env", ".env.local"}); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}
	return Parse()
}

// Parse builds a Configuration from the current environment only.
func Parse() (*Configuration, error) {
	c := &Configuration{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadEnv loads the env files that exist and returns how many were found.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func (c *Configuration) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be 'postgres' or 'sqlite', got '%s'", c.Database.Driver))
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("CACHE_BACKEND must be 'memory' or 'redis', got '%s'", c.Cache.Backend))
	}
	if c.Import.PreviewTTL <= 0 {
		errs = append(errs, fmt.Errorf("IMPORT_PREVIEW_TTL must be positive, got %s", c.Import.PreviewTTL))
	}
	if c.Import.MaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("IMPORT_MAX_BYTES must be positive, got %d", c.Import.MaxBytes))
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Configuration) Production() bool {
	return strings.EqualFold(c.AppEnv, Production)
}

func (c *Configuration) AuthEnabled() bool {
	return c.AuthSecret != ""
}

func (c *Configuration) Address() string {
	return ":" + c.HTTPPort
}
