package config

import (
	"fmt"
	"strconv"
	"time"
)

// Environment variables read by parseEnv. A .env file in the working
// directory is loaded into the environment by cmd/server before this runs.
const (
	EnvListenAddr     = "GOPHNOTES_LISTEN_ADDR"
	EnvDatabaseDSN    = "GOPHNOTES_DATABASE_DSN"
	EnvSecretKey      = "GOPHNOTES_SECRET_KEY"
	EnvTokenValidity  = "GOPHNOTES_TOKEN_VALIDITY"
	EnvBlobBackend    = "GOPHNOTES_BLOB_BACKEND"
	EnvBlobDir        = "GOPHNOTES_BLOB_DIR"
	EnvS3RootUser     = "GOPHNOTES_S3_ROOT_USER"
	EnvS3RootPassword = "GOPHNOTES_S3_ROOT_PASSWORD"
	EnvS3Bucket       = "GOPHNOTES_S3_BUCKET"
	EnvS3Region       = "GOPHNOTES_S3_REGION"
	EnvS3BaseEndpoint = "GOPHNOTES_S3_BASE_ENDPOINT"
	EnvMaxUploadBytes = "GOPHNOTES_MAX_UPLOAD_BYTES"
)

func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		EnvListenAddr:     &cfg.ListenAddr,
		EnvDatabaseDSN:    &cfg.DatabaseDSN,
		EnvSecretKey:      &cfg.SecretKey,
		EnvBlobBackend:    &cfg.BlobBackend,
		EnvBlobDir:        &cfg.BlobDir,
		EnvS3RootUser:     &cfg.S3RootUser,
		EnvS3RootPassword: &cfg.S3RootPassword,
		EnvS3Bucket:       &cfg.S3Bucket,
		EnvS3Region:       &cfg.S3Region,
		EnvS3BaseEndpoint: &cfg.S3BaseEndpoint,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvTokenValidity); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTokenValidity, err)
		}
		cfg.AccessTokenValidityDuration = d
	}
	if v, ok := lookup(EnvMaxUploadBytes); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxUploadBytes, err)
		}
		cfg.MaxUploadBytes = n
	}
	return nil
}
