package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/replica"
)

type TagService interface {
	Create(ctx context.Context, name string) (*models.Tag, error)
	Rename(ctx context.Context, id, name string) (*models.Tag, error)
	// Delete detaches the tag from every local note, each as its own UPDATE,
	// and then deletes the tag.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Tag, error)
}

type tagService struct {
	store replica.Store
	now   func() time.Time
}

func NewTagService(store replica.Store) TagService {
	return &tagService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

func (s *tagService) Create(ctx context.Context, name string) (*models.Tag, error) {
	if err := validateName(name); err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	t := &models.Tag{ID: uuid.NewString(), Name: name}
	if err := s.store.SaveTag(ctx, t, models.MutationCreate); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	return t, nil
}

func (s *tagService) Rename(ctx context.Context, id, name string) (*models.Tag, error) {
	if err := validateName(name); err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	t, err := s.store.GetTag(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("tag %s: %w", id, err)
	}
	if t.Name == name {
		return t, nil
	}
	t.Name = name
	if err := s.store.SaveTag(ctx, t, models.MutationUpdate); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	return t, nil
}

func (s *tagService) Delete(ctx context.Context, id string) error {
	if _, err := s.store.GetTag(ctx, id); err != nil {
		return fmt.Errorf("tag %s: %w", id, err)
	}

	notes, err := s.store.ListNotes(ctx)
	if err != nil {
		return fmt.Errorf("error: %w", err)
	}
	for i := range notes {
		n := &notes[i]
		idx := slices.Index(n.TagIDs, id)
		if idx < 0 {
			continue
		}
		n.TagIDs = slices.Delete(n.TagIDs, idx, idx+1)
		n.UpdatedAt = s.now()
		if err := s.store.SaveNote(ctx, n, models.MutationUpdate); err != nil {
			return fmt.Errorf("detaching tag from note %s: %w", n.ID, err)
		}
	}

	if err := s.store.Delete(ctx, models.KindTag, id); err != nil {
		return fmt.Errorf("tag %s: %w", id, err)
	}
	return nil
}

func (s *tagService) List(ctx context.Context) ([]models.Tag, error) {
	return s.store.ListTags(ctx)
}
