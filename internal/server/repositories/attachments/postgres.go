package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

const columns = `id, user_id, note_id, storage_key, filename, mime_type, size, hash, version, is_latest, created_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (*models.Attachment, error) {
	var a models.Attachment
	err := s.Scan(&a.ID, &a.UserID, &a.NoteID, &a.StorageKey, &a.Filename, &a.MimeType,
		&a.Size, &a.Hash, &a.Version, &a.IsLatest, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Attachment, error) {
	a, err := scanRow(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select attachment: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]models.Attachment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select attachments: %w", err)
	}
	defer rows.Close()

	result := make([]models.Attachment, 0)
	for rows.Next() {
		a, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iteration failed: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Latest(ctx context.Context, userID, noteID, filename string) (*models.Attachment, error) {
	query := `SELECT ` + columns + ` FROM attachments
		WHERE user_id = $1 AND note_id = $2 AND filename = $3 AND is_latest`
	return r.queryOne(ctx, query, userID, noteID, filename)
}

func (r *PostgresRepository) Insert(ctx context.Context, a *models.Attachment) error {
	query := `INSERT INTO attachments (` + columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.UserID, a.NoteID, a.StorageKey, a.Filename, a.MimeType,
		a.Size, a.Hash, a.Version, a.IsLatest, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert attachment: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ClearLatest(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE attachments SET is_latest = FALSE WHERE id = $1 AND is_latest`, id)
	if err != nil {
		return fmt.Errorf("failed to clear latest flag: %w", err)
	}
	return dbx.ExpectRows(res, 1)
}

func (r *PostgresRepository) SetLatest(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE attachments SET is_latest = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to set latest flag: %w", err)
	}
	return dbx.ExpectRows(res, 1)
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Attachment, error) {
	return r.queryOne(ctx, `SELECT `+columns+` FROM attachments WHERE id = $1`, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	if err := dbx.ExpectRows(res, 1); err != nil {
		if errors.Is(err, dbx.ErrNoRowsAffected) {
			return common.ErrorNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) DeleteOld(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = $1 AND NOT is_latest`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return dbx.ExpectRows(res, 1)
}

func (r *PostgresRepository) ListLatest(ctx context.Context, userID, noteID string) ([]models.Attachment, error) {
	query := `SELECT ` + columns + ` FROM attachments
		WHERE user_id = $1 AND note_id = $2 AND is_latest
		ORDER BY created_at DESC, filename`
	return r.queryMany(ctx, query, userID, noteID)
}

func (r *PostgresRepository) History(ctx context.Context, userID, noteID, filename string) ([]models.Attachment, error) {
	query := `SELECT ` + columns + ` FROM attachments
		WHERE user_id = $1 AND note_id = $2 AND filename = $3
		ORDER BY version DESC`
	return r.queryMany(ctx, query, userID, noteID, filename)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]models.Attachment, error) {
	query := `SELECT ` + columns + ` FROM attachments
		ORDER BY user_id, note_id, filename, version DESC`
	return r.queryMany(ctx, query)
}
