package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
	"github.com/dmitrijs2005/gophnotes/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. Fields that are absent keep their current value.
type JsonConfig struct {
	ListenAddr                  string         `json:"listen_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	BlobBackend                 string         `json:"blob_backend"`
	BlobDir                     string         `json:"blob_dir"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	MaxUploadBytes              int64          `json:"max_upload_bytes"`
	ShutdownTimeout             timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads the JSON file named by -c or -config into cfg. Without
// either flag nothing is loaded.
func parseJson(cfg *Config, args []string) error {
	path := flagx.JsonConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	for dst, v := range map[*string]string{
		&cfg.ListenAddr:     c.ListenAddr,
		&cfg.DatabaseDSN:    c.DatabaseDSN,
		&cfg.SecretKey:      c.SecretKey,
		&cfg.BlobBackend:    c.BlobBackend,
		&cfg.BlobDir:        c.BlobDir,
		&cfg.S3RootUser:     c.S3RootUser,
		&cfg.S3RootPassword: c.S3RootPassword,
		&cfg.S3Bucket:       c.S3Bucket,
		&cfg.S3Region:       c.S3Region,
		&cfg.S3BaseEndpoint: c.S3BaseEndpoint,
	} {
		if v != "" {
			*dst = v
		}
	}
	if c.AccessTokenValidityDuration.Duration > 0 {
		cfg.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.MaxUploadBytes > 0 {
		cfg.MaxUploadBytes = c.MaxUploadBytes
	}
	if c.ShutdownTimeout.Duration > 0 {
		cfg.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	return nil
}
