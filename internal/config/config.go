package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Postgres   PostgresConfig
	Auth       AuthConfig
	Pagination PaginationConfig
	Telemetry  TelemetryConfig
	Kafka      KafkaConfig
}

type ServerConfig struct {
	Addr            string        `env:"SERVER_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	CORSCredentials bool          `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
}

type PostgresConfig struct {
	DatabaseURL   string `env:"DATABASE_URL"`
	Host          string `env:"PGHOST" envDefault:"localhost"`
	Port          string `env:"PGPORT" envDefault:"5432"`
	User          string `env:"PGUSER"`
	Password      string `env:"PGPASSWORD"`
	Database      string `env:"PGDATABASE"`
	SSLMode       string `env:"PGSSLMODE" envDefault:"disable"`
	MaxConns      int32  `env:"PGMAXCONNS" envDefault:"10"`
	RunMigrations bool   `env:"DB_RUN_MIGRATIONS" envDefault:"true"`
}

// AuthConfig controls bearer token lifetime and the background expiry sweep.
type AuthConfig struct {
	TokenTTL      time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"60m"`
	SweepInterval time.Duration `env:"AUTH_SWEEP_INTERVAL" envDefault:"10m"`
	BcryptCost    int           `env:"AUTH_BCRYPT_COST" envDefault:"10"`
}

type PaginationConfig struct {
	Page       int `env:"PAGINATION_PAGE" envDefault:"1"`
	PerPage    int `env:"PAGINATION_PER_PAGE" envDefault:"15"`
	MaxPerPage int `env:"PAGINATION_MAX_PER_PAGE" envDefault:"100"`
}

type TelemetryConfig struct {
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"notekeep-backend"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	MetricsPath  string `env:"METRICS_PATH" envDefault:"/metrics"`
}

// KafkaConfig is optional; an empty broker list disables event publishing.
type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"notekeep.events"`
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must be positive")
	}
	if c.Auth.SweepInterval <= 0 {
		return fmt.Errorf("AUTH_SWEEP_INTERVAL must be positive")
	}
	return nil
}

// DSN returns DATABASE_URL when set, otherwise a postgres:// URL built from the PG* parts.
func (p PostgresConfig) DSN() (string, error) {
	if p.DatabaseURL != "" {
		return p.DatabaseURL, nil
	}
	if p.User == "" || p.Database == "" {
		return "", fmt.Errorf("missing required env: DATABASE_URL or PGUSER/PGDATABASE")
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(p.Host, p.Port),
		Path:   p.Database,
	}
	if p.Password == "" {
		u.User = url.User(p.User)
	} else {
		u.User = url.UserPassword(p.User, p.Password)
	}
	q := u.Query()
	q.Set("sslmode", p.SSLMode)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
