package syncqueue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

const entryColumns = `seq, type, kind, entity_id, payload, enqueued_at, attempts, retries, next_attempt_at, last_error, quarantined`

func (r *SQLiteRepository) Enqueue(ctx context.Context, e *models.QueueEntry) (int64, error) {
	enqueuedAt := e.EnqueuedAt
	if enqueuedAt.IsZero() {
		enqueuedAt = time.Now().UTC()
	}
	var payload []byte
	if len(e.Payload) > 0 {
		payload = []byte(e.Payload)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_queue (type, kind, entity_id, payload, enqueued_at)
		VALUES (?, ?, ?, ?, ?)
	`, string(e.Type), string(e.Kind), e.EntityID, payload, dbx.UnixNano(enqueuedAt))
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue %s %s %s: %w", e.Type, e.Kind, e.EntityID, err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read queue seq: %w", err)
	}
	return seq, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.QueueEntry, error) {
	var (
		e                  models.QueueEntry
		typ, kind          string
		payload            []byte
		enqueuedAt, nextAt int64
	)
	if err := s.Scan(&e.Seq, &typ, &kind, &e.EntityID, &payload, &enqueuedAt, &e.Attempts, &e.Retries, &nextAt, &e.LastError, &e.Quarantined); err != nil {
		return nil, err
	}
	e.Type = models.MutationType(typ)
	e.Kind = models.EntityKind(kind)
	if len(payload) > 0 {
		e.Payload = payload
	}
	e.EnqueuedAt = dbx.FromUnixNano(enqueuedAt)
	e.NextAttemptAt = dbx.FromUnixNano(nextAt)
	return &e, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.QueueEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM sync_queue ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync queue: %w", err)
	}
	defer rows.Close()

	var result []models.QueueEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan queue row: %w", err)
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate queue rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, seq int64) (*models.QueueEntry, error) {
	e, err := scanEntry(r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM sync_queue WHERE seq = ?`, seq))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get queue entry %d: %w", seq, err)
	}
	return e, nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, seq int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE seq = ?`, seq); err != nil {
		return fmt.Errorf("failed to remove queue entry %d: %w", seq, err)
	}
	return nil
}

func (r *SQLiteRepository) CountForEntity(ctx context.Context, kind models.EntityKind, id string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue WHERE kind = ? AND entity_id = ?`, string(kind), id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count queue entries for %s %s: %w", kind, id, err)
	}
	return n, nil
}

func (r *SQLiteRepository) EntityIDs(ctx context.Context, kind models.EntityKind) ([]string, error) {
	ids, err := dbx.QueryStrings(ctx, r.db, `SELECT DISTINCT entity_id FROM sync_queue WHERE kind = ? ORDER BY entity_id`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list queued %s ids: %w", kind, err)
	}
	return ids, nil
}

func (r *SQLiteRepository) RecordFailure(ctx context.Context, seq int64, lastError string, nextAttemptAt time.Time, quarantine bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sync_queue
		SET attempts = attempts + 1, last_error = ?, next_attempt_at = ?, quarantined = ?
		WHERE seq = ?
	`, lastError, dbx.UnixNano(nextAttemptAt), quarantine, seq)
	if err != nil {
		return fmt.Errorf("failed to record failure of queue entry %d: %w", seq, err)
	}
	return notFoundIfNone(dbx.ExpectRows(res, 1))
}

func (r *SQLiteRepository) Postpone(ctx context.Context, seq int64, lastError string, nextAttemptAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sync_queue
		SET retries = retries + 1, last_error = ?, next_attempt_at = ?
		WHERE seq = ?
	`, lastError, dbx.UnixNano(nextAttemptAt), seq)
	if err != nil {
		return fmt.Errorf("failed to postpone queue entry %d: %w", seq, err)
	}
	return notFoundIfNone(dbx.ExpectRows(res, 1))
}

func (r *SQLiteRepository) Requeue(ctx context.Context, seq int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sync_queue SET attempts = 0, retries = 0, next_attempt_at = 0, quarantined = 0 WHERE seq = ?
	`, seq)
	if err != nil {
		return fmt.Errorf("failed to requeue entry %d: %w", seq, err)
	}
	return notFoundIfNone(dbx.ExpectRows(res, 1))
}

func (r *SQLiteRepository) Len(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sync queue: %w", err)
	}
	return n, nil
}

func notFoundIfNone(err error) error {
	if errors.Is(err, dbx.ErrNoRowsAffected) {
		return common.ErrorNotFound
	}
	return err
}
