package entities

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, userID, kind, id string, payload json.RawMessage) error {
	query := `
		INSERT INTO entities (user_id, kind, id, payload, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id, kind, id)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`
	res, err := r.db.ExecContext(ctx, query, userID, kind, id, string(payload))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectRows(res, 1)
}

func (r *PostgresRepository) Update(ctx context.Context, userID, kind, id string, payload json.RawMessage) error {
	query := `
		UPDATE entities SET payload = $4, updated_at = now()
		WHERE user_id = $1 AND kind = $2 AND id = $3
	`
	res, err := r.db.ExecContext(ctx, query, userID, kind, id, string(payload))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if err := dbx.ExpectRows(res, 1); err != nil {
		if errors.Is(err, dbx.ErrNoRowsAffected) {
			return common.ErrorNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, kind, id string) error {
	query := `DELETE FROM entities WHERE user_id = $1 AND kind = $2 AND id = $3`
	if _, err := r.db.ExecContext(ctx, query, userID, kind, id); err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, userID, kind string) ([]models.Entity, error) {
	query := `
		SELECT user_id, kind, id, payload, updated_at FROM entities
		WHERE user_id = $1 AND kind = $2
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to select entities: %w", err)
	}
	defer rows.Close()

	result := make([]models.Entity, 0)
	for rows.Next() {
		var e models.Entity
		var payload []byte
		if err := rows.Scan(&e.UserID, &e.Kind, &e.ID, &payload, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		e.Payload = payload
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iteration failed: %w", err)
	}
	return result, nil
}
