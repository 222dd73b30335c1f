// Package config handles configuration for the server component,
// including defaults, environment, JSON overlay, and command-line flags.
package config

import (
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	BlobBackendFS = "fs"
	BlobBackendS3 = "s3"
)

// Config holds runtime settings for the GophNotes server.
//
// Fields:
//   - ListenAddr: bind address of the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps everything in memory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration: lifetime of tokens issued with -issue-token.
//   - BlobBackend / BlobDir: where attachment payloads live ("fs" or "s3").
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
//   - MaxUploadBytes: largest accepted attachment.
//   - ShutdownTimeout: grace period for in-flight requests on exit.
type Config struct {
	ListenAddr                  string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	BlobBackend                 string
	BlobDir                     string
	S3RootUser                  string
	S3RootPassword              string
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
	MaxUploadBytes              int64
	ShutdownTimeout             time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 30 * 24 * time.Hour
	c.BlobBackend = BlobBackendFS
	c.BlobDir = "uploads"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "gophnotes"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.MaxUploadBytes = 50 << 20
	c.ShutdownTimeout = 10 * time.Second
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ListenAddr, validation.Required),
		validation.Field(&c.SecretKey, validation.Required, validation.Length(8, 0)),
		validation.Field(&c.AccessTokenValidityDuration, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.BlobBackend, validation.Required, validation.In(BlobBackendFS, BlobBackendS3)),
		validation.Field(&c.BlobDir, validation.When(c.BlobBackend == BlobBackendFS, validation.Required)),
		validation.Field(&c.S3Bucket, validation.When(c.BlobBackend == BlobBackendS3, validation.Required)),
		validation.Field(&c.S3Region, validation.When(c.BlobBackend == BlobBackendS3, validation.Required)),
		validation.Field(&c.S3BaseEndpoint, is.URL),
		validation.Field(&c.MaxUploadBytes, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.ShutdownTimeout, validation.Required),
	)
}

// LoadConfig builds a Config by applying defaults, then GOPHNOTES_*
// environment variables, then an optional JSON file and finally
// command-line flags, and validates the result.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

func load(args []string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg, lookupEnv); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
