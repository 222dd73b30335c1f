// Package config loads runtime configuration for the GophNotes client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//  4. GOPHNOTES_TOKEN, only when no token was set above.
//
// The result is validated before it is returned.
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "token": "…",
//	  "db_path": "gophnotes.db",
//	  "log_file": "gophnotes.log",
//	  "sync_interval": "30s",
//	  "request_timeout": "10s",
//	  "max_attempts": 8,
//	  "backoff_base": "5s",
//	  "backoff_cap": "10m"
//	}
package config
