package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// Config holds the environment driven configuration for the studio API.
type Config struct {
	Port        string `env:"PORT" envDefault:"3001"`
	BaseURL     string `env:"BASE_URL"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"console"`

	// Database
	DatabaseURL      string `env:"DATABASE_URL"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"studiodb"`
	DBMaxConns       int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns       int32  `env:"DB_MIN_CONNS" envDefault:"2"`
	AutoMigrate      bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	// Session tokens. JWT_SECRET has no default.
	JWTSecret string        `env:"JWT_SECRET,notEmpty"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"72h"`

	// Upload gateway
	StorageBackend string        `env:"STORAGE_BACKEND" envDefault:"local"`
	UploadDir      string        `env:"UPLOAD_DIR" envDefault:"uploads"`
	UploadFolder   string        `env:"UPLOAD_FOLDER" envDefault:"studio-24mm"`
	UploadMaxBytes int64         `env:"UPLOAD_MAX_BYTES" envDefault:"104857600"`
	UploadTimeout  time.Duration `env:"UPLOAD_TIMEOUT" envDefault:"60s"`
	S3Endpoint     string        `env:"S3_ENDPOINT"`
	S3AccessKey    string        `env:"S3_ACCESS_KEY"`
	S3SecretKey    string        `env:"S3_SECRET_KEY"`
	S3Bucket       string        `env:"S3_BUCKET" envDefault:"studio-media"`
	S3UseSSL       bool          `env:"S3_USE_SSL" envDefault:"false"`
	S3PublicURL    string        `env:"S3_PUBLIC_URL"`

	// Seed account
	SeedEmail    string `env:"SEED_EMAIL"`
	SeedName     string `env:"SEED_NAME"`
	SeedPassword string `env:"SEED_PASSWORD"`
}

// Load reads an optional .env file and parses the environment into Config.
func Load() (*Config, error) {
	// Ignore error if .env file doesn't exist (e.g. in production)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.UploadFolder = strings.Trim(strings.TrimSpace(cfg.UploadFolder), "/")
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	if cfg.UploadMaxBytes <= 0 {
		cfg.UploadMaxBytes = 100 * 1024 * 1024
	}

	switch cfg.StorageBackend {
	case StorageLocal:
	case StorageMinio:
		if cfg.S3Endpoint == "" || cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_ENDPOINT and S3_BUCKET are required when STORAGE_BACKEND is %q", StorageMinio)
		}
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	return cfg, nil
}

// DSN returns DATABASE_URL, or a connection string built from the POSTGRES_* variables.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "postgres://" + c.PostgresUser + ":" +
		c.PostgresPassword + "@" +
		c.PostgresHost + ":" +
		c.PostgresPort + "/" +
		c.PostgresDB + "?sslmode=disable"
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// BodyLimit is the largest request body Fiber will accept: one full upload plus form overhead.
func (c *Config) BodyLimit() int {
	return int(c.UploadMaxBytes) + 1024*1024
}
