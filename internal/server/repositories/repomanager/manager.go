package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/entities"
)

// Repos groups the repositories bound to one handle: the plain database or a
// single transaction.
type Repos struct {
	Entities    entities.Repository
	Attachments attachments.Repository
}

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Repos() Repos
	// InTx runs fn with repositories bound to one transaction. A non-nil
	// error from fn rolls everything back. Calls must not be nested.
	InTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
	Close() error
}
