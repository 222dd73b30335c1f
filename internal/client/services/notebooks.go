package services

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/replica"
)

const maxNameLength = 100

type NotebookService interface {
	Create(ctx context.Context, name string) (*models.Notebook, error)
	Rename(ctx context.Context, id, name string) (*models.Notebook, error)
	// Delete refuses with ErrNotebookNotEmpty while any note, trashed or
	// not, still points at the notebook.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Notebook, error)
}

type notebookService struct {
	store replica.Store
	now   func() time.Time
}

func NewNotebookService(store replica.Store) NotebookService {
	return &notebookService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

func validateName(name string) error {
	return validation.Validate(name, validation.Required, validation.RuneLength(1, maxNameLength))
}

func (s *notebookService) Create(ctx context.Context, name string) (*models.Notebook, error) {
	if err := validateName(name); err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	now := s.now()
	nb := &models.Notebook{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.store.SaveNotebook(ctx, nb, models.MutationCreate); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	return nb, nil
}

func (s *notebookService) Rename(ctx context.Context, id, name string) (*models.Notebook, error) {
	if err := validateName(name); err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	nb, err := s.store.GetNotebook(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("notebook %s: %w", id, err)
	}
	if nb.Name == name {
		return nb, nil
	}
	nb.Name = name
	nb.UpdatedAt = s.now()
	if err := s.store.SaveNotebook(ctx, nb, models.MutationUpdate); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	return nb, nil
}

func (s *notebookService) Delete(ctx context.Context, id string) error {
	notes, err := s.store.ListNotes(ctx)
	if err != nil {
		return fmt.Errorf("error: %w", err)
	}
	for _, n := range notes {
		if n.NotebookID == id {
			return fmt.Errorf("notebook %s: %w", id, ErrNotebookNotEmpty)
		}
	}
	if err := s.store.Delete(ctx, models.KindNotebook, id); err != nil {
		return fmt.Errorf("notebook %s: %w", id, err)
	}
	return nil
}

func (s *notebookService) List(ctx context.Context) ([]models.Notebook, error) {
	return s.store.ListNotebooks(ctx)
}
