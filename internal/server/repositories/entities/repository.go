// Package entities stores the authoritative copy of every user's notes,
// notebooks and tags, keyed by (user, kind, id).
package entities

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type Repository interface {
	// Upsert creates the entity or replaces its payload.
	Upsert(ctx context.Context, userID, kind, id string, payload json.RawMessage) error

	// Update replaces the payload of an existing entity and returns
	// common.ErrorNotFound when there is none.
	Update(ctx context.Context, userID, kind, id string, payload json.RawMessage) error

	// Delete removes the entity. Deleting a missing entity is not an error.
	Delete(ctx context.Context, userID, kind, id string) error

	// List returns all entities of kind for userID ordered by id.
	List(ctx context.Context, userID, kind string) ([]models.Entity, error)
}
