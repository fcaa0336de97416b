package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quillhq/quill/pkg/quill"
	"github.com/quillhq/quill/pkg/quill/repo/memory"
	repopg "github.com/quillhq/quill/pkg/quill/repo/postgres"
	fsstorage "github.com/quillhq/quill/pkg/quill/storage/fs"
	memorystorage "github.com/quillhq/quill/pkg/quill/storage/memory"
	s3storage "github.com/quillhq/quill/pkg/quill/storage/s3"
)

// ServerConfig represents server configuration for the quill service.
//
// DATABASE_URL selects the repository: empty or "memory" uses the in-memory
// repository, a postgres:// or postgresql:// URL uses Postgres.
//
// STORAGE_URL selects the blob store:
//
//	memory://                          in-memory storage (default)
//	file:///var/lib/quill/media       filesystem storage
//	s3://bucket?region=us-east-1      S3 or S3-compatible storage
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	DatabaseURL string `env:"DATABASE_URL" env-default:""`
	StorageURL  string `env:"STORAGE_URL" env-default:"memory://"`

	JWTSecret        string        `env:"JWT_SECRET" env-default:""`
	TokenTTL         time.Duration `env:"TOKEN_TTL" env-default:"168h"`
	GuestTokenTTL    time.Duration `env:"GUEST_TOKEN_TTL" env-default:"24h"`
	StrictValidation bool          `env:"STRICT_VALIDATION" env-default:"false"`

	// Admin bootstrap: an admin actor with these credentials is created at
	// startup when no admin exists yet.
	AdminHandle   string `env:"ADMIN_HANDLE" env-default:"admin"`
	AdminEmail    string `env:"ADMIN_EMAIL" env-default:"admin@example.com"`
	AdminPassword string `env:"ADMIN_PASSWORD" env-default:"admin123"`

	issuer *quill.TokenIssuer
}

// LoadServerConfig reads configuration from the environment
func LoadServerConfig() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.DatabaseURL != "" && c.DatabaseURL != "memory" &&
		!strings.HasPrefix(c.DatabaseURL, "postgres://") &&
		!strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return fmt.Errorf("unsupported DATABASE_URL format (use 'memory' or 'postgresql://...')")
	}
	if c.Environment == "production" && c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	if c.AdminPassword == "" {
		return errors.New("admin password must not be empty")
	}
	return nil
}

// TokenIssuer returns the shared token issuer for the service and the API's
// verifier. Without a configured secret a random per-process one is used,
// invalidating sessions on restart.
func (c *ServerConfig) TokenIssuer() *quill.TokenIssuer {
	if c.issuer == nil {
		secret := c.JWTSecret
		if secret == "" {
			secret = uuid.NewString()
		}
		c.issuer = quill.NewTokenIssuer([]byte(secret))
	}
	return c.issuer
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService() (quill.Service, error) {
	repo, err := c.buildRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.buildStorageBackend()
	if err != nil {
		return nil, fmt.Errorf("failed to build storage backend: %w", err)
	}

	return quill.New(
		quill.WithRepository(repo),
		quill.WithBlobStore(store),
		quill.WithEventSink(quill.NewLogEventSink(nil)),
		quill.WithStrictValidation(c.StrictValidation),
		quill.WithTokenTTL(c.TokenTTL),
		quill.WithGuestTokenTTL(c.GuestTokenTTL),
		quill.WithTokenIssuer(c.TokenIssuer()),
	)
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository() (quill.Repository, error) {
	if c.DatabaseURL == "" || c.DatabaseURL == "memory" {
		return memory.New(), nil
	}

	cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	return repopg.NewWithPool(pool), nil
}

// buildStorageBackend creates a BlobStore from the STORAGE_URL scheme
func (c *ServerConfig) buildStorageBackend() (quill.BlobStore, error) {
	if c.StorageURL == "" || c.StorageURL == "memory://" {
		return memorystorage.New(), nil
	}

	u, err := url.Parse(c.StorageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse STORAGE_URL: %w", err)
	}

	switch u.Scheme {
	case "memory":
		return memorystorage.New(), nil

	case "file":
		return fsstorage.New(fsstorage.Config{
			BaseDir:   u.Path,
			URLPrefix: u.Query().Get("url_prefix"),
		})

	case "s3":
		q := u.Query()
		return s3storage.New(s3storage.Config{
			Bucket:          u.Host,
			Region:          q.Get("region"),
			AccessKeyID:     q.Get("access_key_id"),
			SecretAccessKey: q.Get("secret_access_key"),
			Endpoint:        q.Get("endpoint"),
			UsePathStyle:    q.Get("use_path_style") == "true",
		})

	default:
		return nil, fmt.Errorf("unsupported STORAGE_URL scheme: %s", u.Scheme)
	}
}

// PingPostgres verifies connectivity to Postgres.
func PingPostgres(databaseURL string) error {
	if databaseURL == "" {
		return errors.New("database_url is required")
	}
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
