// Package services implements the server's business logic on top of the
// repositories and the blob store: entity replication, attachment
// versioning and pruning.
package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
)

// EntityService stores client snapshots of notes, notebooks and tags. Every
// operation is idempotent per entity id so replayed pushes are harmless.
type EntityService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewEntityService(m repomanager.RepositoryManager, log logging.Logger) *EntityService {
	return &EntityService{repomanager: m, log: log.With("module", "entities")}
}

// payloadID extracts the entity id carried in a JSON object payload.
func payloadID(payload []byte) (string, error) {
	var p struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInvalidPayload, err)
	}
	if p.ID == "" {
		return "", fmt.Errorf("%w: missing id", common.ErrorInvalidPayload)
	}
	return p.ID, nil
}

// Create upserts the entity identified by the payload's id and returns it.
func (s *EntityService) Create(ctx context.Context, userID, kind string, payload []byte) (string, error) {
	id, err := payloadID(payload)
	if err != nil {
		return "", err
	}
	if err := s.repomanager.Repos().Entities.Upsert(ctx, userID, kind, id, payload); err != nil {
		return "", fmt.Errorf("error saving %s %s: %w", kind, id, err)
	}
	s.log.Debug(ctx, "entity upserted", "user", userID, "kind", kind, "id", id)
	return id, nil
}

// Update replaces an existing entity. A payload id that disagrees with id
// is rejected; common.ErrorNotFound is returned for unknown entities.
func (s *EntityService) Update(ctx context.Context, userID, kind, id string, payload []byte) error {
	pid, err := payloadID(payload)
	if err != nil {
		return err
	}
	if pid != id {
		return fmt.Errorf("%w: id %q does not match path %q", common.ErrorInvalidPayload, pid, id)
	}
	if err := s.repomanager.Repos().Entities.Update(ctx, userID, kind, id, payload); err != nil {
		return fmt.Errorf("error updating %s %s: %w", kind, id, err)
	}
	return nil
}

func (s *EntityService) Delete(ctx context.Context, userID, kind, id string) error {
	if err := s.repomanager.Repos().Entities.Delete(ctx, userID, kind, id); err != nil {
		return fmt.Errorf("error deleting %s %s: %w", kind, id, err)
	}
	return nil
}

// List returns the raw payloads of every entity of kind owned by userID.
func (s *EntityService) List(ctx context.Context, userID, kind string) ([]json.RawMessage, error) {
	items, err := s.repomanager.Repos().Entities.List(ctx, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", kind, err)
	}
	result := make([]json.RawMessage, 0, len(items))
	for _, e := range items {
		result = append(result, e.Payload)
	}
	return result, nil
}
