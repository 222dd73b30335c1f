package tags

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, t *models.Tag) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, sync_status) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, sync_status = excluded.sync_status
	`, t.ID, t.Name, string(t.SyncStatus))
	if err != nil {
		return fmt.Errorf("failed to upsert tag %s: %w", t.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Tag, error) {
	var (
		t      models.Tag
		status string
	)
	err := r.db.QueryRowContext(ctx, `SELECT id, name, sync_status FROM tags WHERE id = ?`, id).Scan(&t.ID, &t.Name, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag %s: %w", id, err)
	}
	t.SyncStatus = models.SyncStatus(status)
	return &t, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, sync_status FROM tags ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var result []models.Tag
	for rows.Next() {
		var (
			t      models.Tag
			status string
		)
		if err := rows.Scan(&t.ID, &t.Name, &status); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		t.SyncStatus = models.SyncStatus(status)
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tag rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete tag %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) SetStatus(ctx context.Context, id string, status models.SyncStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tags SET sync_status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to set status of tag %s: %w", id, err)
	}
	if err := dbx.ExpectRows(res, 1); err != nil {
		if errors.Is(err, dbx.ErrNoRowsAffected) {
			return common.ErrorNotFound
		}
		return err
	}
	return nil
}

func (r *SQLiteRepository) IDsByStatus(ctx context.Context, synced bool) ([]string, error) {
	query := `SELECT id FROM tags WHERE sync_status = ? ORDER BY id`
	if !synced {
		query = `SELECT id FROM tags WHERE sync_status <> ? ORDER BY id`
	}
	return dbx.QueryStrings(ctx, r.db, query, string(models.StatusSynced))
}
