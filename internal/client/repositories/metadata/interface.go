// Package metadata stores small key/value facts about the local replica,
// such as the last successful push and pull times.
package metadata

import (
	"context"
	"time"
)

const (
	KeyLastPushAt = "last_push_at"
	KeyLastPullAt = "last_pull_at"

	KeyVaultSalt     = "vault_salt"
	KeyVaultVerifier = "vault_verifier"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)

	// GetTime returns the zero time when key is absent.
	GetTime(ctx context.Context, key string) (time.Time, error)
	SetTime(ctx context.Context, key string, t time.Time) error
}
