package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/entities"
)

// MemoryRepositoryManager keeps everything in process memory. It backs the
// server when no DSN is configured and the service tests.
//
// InTx serializes transactions and restores a snapshot of the attachments
// repository when fn fails. Entity writes are single-row and apply at once
// whether or not they run inside InTx, so a failed transaction never reverts
// entity changes made concurrently through Repos.
type MemoryRepositoryManager struct {
	txMu        sync.Mutex
	entities    *entities.MemoryRepository
	attachments *attachments.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		entities:    entities.NewMemoryRepository(),
		attachments: attachments.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Repos() Repos {
	return Repos{Entities: m.entities, Attachments: m.attachments}
}

func (m *MemoryRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) (err error) {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	snap := m.attachments.Snapshot()
	defer func() {
		if p := recover(); p != nil {
			m.attachments.Restore(snap)
			panic(p)
		}
		if err != nil {
			m.attachments.Restore(snap)
		}
	}()

	return fn(ctx, m.Repos())
}

func (m *MemoryRepositoryManager) Close() error { return nil }
