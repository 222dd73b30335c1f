package attachments

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// MemoryRepository keeps rows in a map and enforces the same single-latest
// rule as the PostgreSQL partial unique index.
type MemoryRepository struct {
	mu   sync.RWMutex
	rows map[string]models.Attachment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: map[string]models.Attachment{}}
}

func (r *MemoryRepository) collect(keep func(a *models.Attachment) bool) []models.Attachment {
	result := make([]models.Attachment, 0)
	for _, a := range r.rows {
		if keep(&a) {
			result = append(result, a)
		}
	}
	return result
}

func (r *MemoryRepository) Latest(_ context.Context, userID, noteID, filename string) (*models.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.rows {
		if a.IsLatest && a.UserID == userID && a.NoteID == noteID && a.Filename == filename {
			return &a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) Insert(_ context.Context, a *models.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[a.ID]; ok {
		return errDuplicate("id", a.ID)
	}
	for _, o := range r.rows {
		if o.GroupKey() != a.GroupKey() {
			continue
		}
		if o.Version == a.Version {
			return errDuplicate("version", a.ID)
		}
		if o.IsLatest && a.IsLatest {
			return errDuplicate("latest", a.ID)
		}
	}
	r.rows[a.ID] = *a
	return nil
}

func (r *MemoryRepository) ClearLatest(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok || !a.IsLatest {
		return dbx.ErrNoRowsAffected
	}
	a.IsLatest = false
	r.rows[id] = a
	return nil
}

func (r *MemoryRepository) SetLatest(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return dbx.ErrNoRowsAffected
	}
	for _, o := range r.rows {
		if o.ID != id && o.IsLatest && o.GroupKey() == a.GroupKey() {
			return errDuplicate("latest", id)
		}
	}
	a.IsLatest = true
	r.rows[id] = a
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *MemoryRepository) DeleteOld(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok || a.IsLatest {
		return dbx.ErrNoRowsAffected
	}
	delete(r.rows, id)
	return nil
}

func (r *MemoryRepository) ListLatest(_ context.Context, userID, noteID string) ([]models.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := r.collect(func(a *models.Attachment) bool {
		return a.IsLatest && a.UserID == userID && a.NoteID == noteID
	})
	slices.SortFunc(result, func(a, b models.Attachment) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Filename, b.Filename)
	})
	return result, nil
}

func (r *MemoryRepository) History(_ context.Context, userID, noteID, filename string) ([]models.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := r.collect(func(a *models.Attachment) bool {
		return a.UserID == userID && a.NoteID == noteID && a.Filename == filename
	})
	slices.SortFunc(result, func(a, b models.Attachment) int { return cmp.Compare(b.Version, a.Version) })
	return result, nil
}

func (r *MemoryRepository) ListAll(_ context.Context) ([]models.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := r.collect(func(*models.Attachment) bool { return true })
	slices.SortFunc(result, func(a, b models.Attachment) int {
		return cmp.Or(
			cmp.Compare(a.UserID, b.UserID),
			cmp.Compare(a.NoteID, b.NoteID),
			cmp.Compare(a.Filename, b.Filename),
			cmp.Compare(b.Version, a.Version),
		)
	})
	return result, nil
}

// Snapshot is an opaque copy of a MemoryRepository's rows.
type Snapshot struct {
	rows map[string]models.Attachment
}

// Snapshot and Restore let an in-memory transaction roll back.
func (r *MemoryRepository) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{rows: maps.Clone(r.rows)}
}

func (r *MemoryRepository) Restore(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = s.rows
}
