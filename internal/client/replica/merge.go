package replica

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/syncqueue"
)

type mergeRepo[T any] interface {
	Upsert(ctx context.Context, v *T) error
	Delete(ctx context.Context, id string) error
	IDsByStatus(ctx context.Context, synced bool) ([]string, error)
}

// merge folds the authoritative set of one kind into the replica.
//
// Entities with local changes (status not synced, or any queued entry, which
// also covers pending deletes whose row is already gone) are left alone.
// Everything else is overwritten with the remote copy, and synced rows the
// server no longer has are removed.
func merge[T any](
	ctx context.Context,
	repo mergeRepo[T],
	queue syncqueue.Repository,
	kind models.EntityKind,
	remote []T,
	idOf func(*T) string,
	markSynced func(*T),
) (MergeResult, error) {
	var res MergeResult

	protected := make(map[string]struct{})
	dirty, err := repo.IDsByStatus(ctx, false)
	if err != nil {
		return res, err
	}
	queued, err := queue.EntityIDs(ctx, kind)
	if err != nil {
		return res, err
	}
	for _, id := range dirty {
		protected[id] = struct{}{}
	}
	for _, id := range queued {
		protected[id] = struct{}{}
	}

	seen := make(map[string]struct{}, len(remote))
	for i := range remote {
		v := &remote[i]
		id := idOf(v)
		if id == "" {
			return res, fmt.Errorf("remote %s without id", kind)
		}
		seen[id] = struct{}{}
		if _, ok := protected[id]; ok {
			res.Preserved++
			continue
		}
		markSynced(v)
		if err := repo.Upsert(ctx, v); err != nil {
			return res, err
		}
		res.Written++
	}

	synced, err := repo.IDsByStatus(ctx, true)
	if err != nil {
		return res, err
	}
	for _, id := range synced {
		if _, ok := seen[id]; ok {
			continue
		}
		if _, ok := protected[id]; ok {
			continue
		}
		if err := repo.Delete(ctx, id); err != nil {
			return res, err
		}
		res.Deleted++
	}

	return res, nil
}

func (s *SQLiteStore) MergeNotebooks(ctx context.Context, remote []models.Notebook) (MergeResult, error) {
	var res MergeResult
	err := s.withTx(ctx, func(ctx context.Context, r repos) error {
		var err error
		res, err = merge[models.Notebook](ctx, r.notebooks, r.queue, models.KindNotebook, remote,
			func(nb *models.Notebook) string { return nb.ID },
			func(nb *models.Notebook) { nb.SyncStatus = models.StatusSynced })
		return err
	})
	if err != nil {
		return MergeResult{}, fmt.Errorf("failed to merge notebooks: %w", err)
	}
	s.logger.Debug(ctx, "merged remote notebooks", "written", res.Written, "deleted", res.Deleted, "preserved", res.Preserved)
	s.publish(models.KindNotebook)
	return res, nil
}

func (s *SQLiteStore) MergeTags(ctx context.Context, remote []models.Tag) (MergeResult, error) {
	var res MergeResult
	err := s.withTx(ctx, func(ctx context.Context, r repos) error {
		var err error
		res, err = merge[models.Tag](ctx, r.tags, r.queue, models.KindTag, remote,
			func(t *models.Tag) string { return t.ID },
			func(t *models.Tag) { t.SyncStatus = models.StatusSynced })
		return err
	})
	if err != nil {
		return MergeResult{}, fmt.Errorf("failed to merge tags: %w", err)
	}
	s.logger.Debug(ctx, "merged remote tags", "written", res.Written, "deleted", res.Deleted, "preserved", res.Preserved)
	s.publish(models.KindTag)
	return res, nil
}

func (s *SQLiteStore) MergeNotes(ctx context.Context, remote []models.Note) (MergeResult, error) {
	var res MergeResult
	err := s.withTx(ctx, func(ctx context.Context, r repos) error {
		var err error
		res, err = merge[models.Note](ctx, r.notes, r.queue, models.KindNote, remote,
			func(n *models.Note) string { return n.ID },
			func(n *models.Note) { n.SyncStatus = models.StatusSynced })
		return err
	})
	if err != nil {
		return MergeResult{}, fmt.Errorf("failed to merge notes: %w", err)
	}
	s.logger.Debug(ctx, "merged remote notes", "written", res.Written, "deleted", res.Deleted, "preserved", res.Preserved)
	s.publish(models.KindNote)
	return res, nil
}
