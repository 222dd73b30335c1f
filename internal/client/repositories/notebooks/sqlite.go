package notebooks

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

func (r *SQLiteRepository) Upsert(ctx context.Context, nb *models.Notebook) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notebooks (id, name, created_at, updated_at, sync_status)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			sync_status = excluded.sync_status
	`, nb.ID, nb.Name, dbx.UnixNano(nb.CreatedAt), dbx.UnixNano(nb.UpdatedAt), string(nb.SyncStatus))
	if err != nil {
		return fmt.Errorf("failed to upsert notebook %s: %w", nb.ID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNotebook(s scanner) (*models.Notebook, error) {
	var (
		nb                 models.Notebook
		createdAt, updated int64
		status             string
	)
	if err := s.Scan(&nb.ID, &nb.Name, &createdAt, &updated, &status); err != nil {
		return nil, err
	}
	nb.CreatedAt = dbx.FromUnixNano(createdAt)
	nb.UpdatedAt = dbx.FromUnixNano(updated)
	nb.SyncStatus = models.SyncStatus(status)
	return &nb, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Notebook, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, created_at, updated_at, sync_status FROM notebooks WHERE id = ?`, id)
	nb, err := scanNotebook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notebook %s: %w", id, err)
	}
	return nb, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Notebook, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at, updated_at, sync_status FROM notebooks ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list notebooks: %w", err)
	}
	defer rows.Close()

	var result []models.Notebook
	for rows.Next() {
		nb, err := scanNotebook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notebook row: %w", err)
		}
		result = append(result, *nb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notebook rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notebooks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete notebook %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) SetStatus(ctx context.Context, id string, status models.SyncStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notebooks SET sync_status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to set status of notebook %s: %w", id, err)
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
	query := `SELECT id FROM notebooks WHERE sync_status = ? ORDER BY id`
	if !synced {
		query = `SELECT id FROM notebooks WHERE sync_status <> ? ORDER BY id`
	}
	return dbx.QueryStrings(ctx, r.db, query, string(models.StatusSynced))
}
