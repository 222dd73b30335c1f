package notes

import (
	"context"
	"database/sql"
	"encoding/json"
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

const noteColumns = `id, title, content, notebook_id, trashed, encrypted, tag_ids, attachments, created_at, updated_at, sync_status`

func (r *SQLiteRepository) Upsert(ctx context.Context, n *models.Note) error {
	tagIDs := n.TagIDs
	if tagIDs == nil {
		tagIDs = []string{}
	}
	tags, err := json.Marshal(tagIDs)
	if err != nil {
		return fmt.Errorf("failed to encode tag ids: %w", err)
	}
	attachments := n.Attachments
	if attachments == nil {
		attachments = []models.AttachmentSummary{}
	}
	att, err := json.Marshal(attachments)
	if err != nil {
		return fmt.Errorf("failed to encode attachments: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO notes (`+noteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			notebook_id = excluded.notebook_id,
			trashed = excluded.trashed,
			encrypted = excluded.encrypted,
			tag_ids = excluded.tag_ids,
			attachments = excluded.attachments,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			sync_status = excluded.sync_status
	`, n.ID, n.Title, n.Content, n.NotebookID, n.Trashed, n.Encrypted, string(tags), string(att),
		dbx.UnixNano(n.CreatedAt), dbx.UnixNano(n.UpdatedAt), string(n.SyncStatus))
	if err != nil {
		return fmt.Errorf("failed to upsert note %s: %w", n.ID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*models.Note, error) {
	var (
		n                  models.Note
		tags, att, status  string
		createdAt, updated int64
	)
	if err := s.Scan(&n.ID, &n.Title, &n.Content, &n.NotebookID, &n.Trashed, &n.Encrypted, &tags, &att, &createdAt, &updated, &status); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &n.TagIDs); err != nil {
		return nil, fmt.Errorf("bad tag_ids for note %s: %w", n.ID, err)
	}
	if err := json.Unmarshal([]byte(att), &n.Attachments); err != nil {
		return nil, fmt.Errorf("bad attachments for note %s: %w", n.ID, err)
	}
	n.CreatedAt = dbx.FromUnixNano(createdAt)
	n.UpdatedAt = dbx.FromUnixNano(updated)
	n.SyncStatus = models.SyncStatus(status)
	return &n, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Note, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note %s: %w", id, err)
	}
	return n, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Note, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+noteColumns+` FROM notes ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var result []models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", err)
		}
		result = append(result, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate note rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete note %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) SetStatus(ctx context.Context, id string, status models.SyncStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notes SET sync_status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to set status of note %s: %w", id, err)
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
	query := `SELECT id FROM notes WHERE sync_status = ? ORDER BY id`
	if !synced {
		query = `SELECT id FROM notes WHERE sync_status <> ? ORDER BY id`
	}
	return dbx.QueryStrings(ctx, r.db, query, string(models.StatusSynced))
}
