package entities

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type key struct {
	userID, kind, id string
}

// MemoryRepository keeps entities in a map. It backs dev mode and tests.
type MemoryRepository struct {
	mu   sync.RWMutex
	rows map[key]models.Entity
	now  func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: map[key]models.Entity{}, now: time.Now}
}

func (r *MemoryRepository) put(k key, payload json.RawMessage) {
	r.rows[k] = models.Entity{
		UserID:    k.userID,
		Kind:      k.kind,
		ID:        k.id,
		Payload:   slices.Clone(payload),
		UpdatedAt: r.now().UTC(),
	}
}

func (r *MemoryRepository) Upsert(_ context.Context, userID, kind, id string, payload json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(key{userID, kind, id}, payload)
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, userID, kind, id string, payload json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{userID, kind, id}
	if _, ok := r.rows[k]; !ok {
		return common.ErrorNotFound
	}
	r.put(k, payload)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, userID, kind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, key{userID, kind, id})
	return nil
}

func (r *MemoryRepository) List(_ context.Context, userID, kind string) ([]models.Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]models.Entity, 0)
	for k, e := range r.rows {
		if k.userID == userID && k.kind == kind {
			e.Payload = slices.Clone(e.Payload)
			result = append(result, e)
		}
	}
	slices.SortFunc(result, func(a, b models.Entity) int { return strings.Compare(a.ID, b.ID) })
	return result, nil
}
