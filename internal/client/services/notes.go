package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/replica"
)

const maxTitleLength = 255

// NoteFilter narrows List. Zero values match everything except trashed notes.
type NoteFilter struct {
	NotebookID     string
	TagID          string
	Search         string
	IncludeTrashed bool
}

// NotePatch carries the fields Update changes; nil fields are left alone.
type NotePatch struct {
	Title      *string
	Content    *string
	NotebookID *string
}

type NoteService interface {
	Create(ctx context.Context, title, content, notebookID string) (*models.Note, error)
	Update(ctx context.Context, id string, patch NotePatch) (*models.Note, error)
	Trash(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	AddTag(ctx context.Context, noteID, tagID string) error
	RemoveTag(ctx context.Context, noteID, tagID string) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Note, error)
	List(ctx context.Context, filter NoteFilter) ([]models.Note, error)
}

type noteService struct {
	store replica.Store
	now   func() time.Time
}

func NewNoteService(store replica.Store) NoteService {
	return &noteService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

func validateTitle(title string) error {
	return validation.Validate(title, validation.Required, validation.RuneLength(1, maxTitleLength))
}

// checkNotebook verifies that a non-empty notebook id exists locally.
func (s *noteService) checkNotebook(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if _, err := s.store.GetNotebook(ctx, id); err != nil {
		return fmt.Errorf("notebook %s: %w", id, err)
	}
	return nil
}

func (s *noteService) Create(ctx context.Context, title, content, notebookID string) (*models.Note, error) {
	if err := validateTitle(title); err != nil {
		return nil, fmt.Errorf("title: %w", err)
	}
	if err := s.checkNotebook(ctx, notebookID); err != nil {
		return nil, err
	}

	now := s.now()
	n := &models.Note{
		ID:          uuid.NewString(),
		Title:       title,
		Content:     content,
		NotebookID:  notebookID,
		TagIDs:      []string{},
		Attachments: []models.AttachmentSummary{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.SaveNote(ctx, n, models.MutationCreate); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	return n, nil
}

// modify loads a note, applies fn and saves the result as an UPDATE. fn
// returning false means nothing changed and nothing is enqueued.
func (s *noteService) modify(ctx context.Context, id string, fn func(n *models.Note) (bool, error)) (*models.Note, error) {
	n, err := s.store.GetNote(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("note %s: %w", id, err)
	}
	changed, err := fn(n)
	if err != nil {
		return nil, err
	}
	if !changed {
		return n, nil
	}
	n.UpdatedAt = s.now()
	if err := s.store.SaveNote(ctx, n, models.MutationUpdate); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	return n, nil
}

func (s *noteService) Update(ctx context.Context, id string, patch NotePatch) (*models.Note, error) {
	return s.modify(ctx, id, func(n *models.Note) (bool, error) {
		changed := false
		if patch.Title != nil && *patch.Title != n.Title {
			if err := validateTitle(*patch.Title); err != nil {
				return false, fmt.Errorf("title: %w", err)
			}
			n.Title = *patch.Title
			changed = true
		}
		if patch.Content != nil && *patch.Content != n.Content {
			if n.Encrypted {
				return false, fmt.Errorf("note %s: %w", id, ErrNoteEncrypted)
			}
			n.Content = *patch.Content
			changed = true
		}
		if patch.NotebookID != nil && *patch.NotebookID != n.NotebookID {
			if err := s.checkNotebook(ctx, *patch.NotebookID); err != nil {
				return false, err
			}
			n.NotebookID = *patch.NotebookID
			changed = true
		}
		return changed, nil
	})
}

func (s *noteService) setTrashed(ctx context.Context, id string, trashed bool) error {
	_, err := s.modify(ctx, id, func(n *models.Note) (bool, error) {
		if n.Trashed == trashed {
			return false, nil
		}
		n.Trashed = trashed
		return true, nil
	})
	return err
}

func (s *noteService) Trash(ctx context.Context, id string) error {
	return s.setTrashed(ctx, id, true)
}

func (s *noteService) Restore(ctx context.Context, id string) error {
	return s.setTrashed(ctx, id, false)
}

func (s *noteService) AddTag(ctx context.Context, noteID, tagID string) error {
	if _, err := s.store.GetTag(ctx, tagID); err != nil {
		return fmt.Errorf("tag %s: %w", tagID, err)
	}
	_, err := s.modify(ctx, noteID, func(n *models.Note) (bool, error) {
		if slices.Contains(n.TagIDs, tagID) {
			return false, nil
		}
		n.TagIDs = append(n.TagIDs, tagID)
		return true, nil
	})
	return err
}

func (s *noteService) RemoveTag(ctx context.Context, noteID, tagID string) error {
	_, err := s.modify(ctx, noteID, func(n *models.Note) (bool, error) {
		i := slices.Index(n.TagIDs, tagID)
		if i < 0 {
			return false, nil
		}
		n.TagIDs = slices.Delete(n.TagIDs, i, i+1)
		return true, nil
	})
	return err
}

// Delete removes the note for good. Trash is the reversible variant.
func (s *noteService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, models.KindNote, id); err != nil {
		return fmt.Errorf("note %s: %w", id, err)
	}
	return nil
}

func (s *noteService) Get(ctx context.Context, id string) (*models.Note, error) {
	n, err := s.store.GetNote(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("note %s: %w", id, err)
	}
	return n, nil
}

func (s *noteService) List(ctx context.Context, filter NoteFilter) ([]models.Note, error) {
	all, err := s.store.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("error: %w", err)
	}

	search := strings.ToLower(filter.Search)
	result := make([]models.Note, 0, len(all))
	for _, n := range all {
		if n.Trashed && !filter.IncludeTrashed {
			continue
		}
		if filter.NotebookID != "" && n.NotebookID != filter.NotebookID {
			continue
		}
		if filter.TagID != "" && !slices.Contains(n.TagIDs, filter.TagID) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(n.Title), search) &&
			(n.Encrypted || !strings.Contains(strings.ToLower(n.Content), search)) {
			continue
		}
		result = append(result, n)
	}
	return result, nil
}
