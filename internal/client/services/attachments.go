package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/replica"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

const defaultMimeType = "application/octet-stream"

// AttachmentService works online only. After every change on the server the
// owning note's attachment summaries are rewritten through the ordinary
// update path, so the new summaries reach other devices with the note.
type AttachmentService interface {
	Upload(ctx context.Context, noteID, filename, mimeType string, r io.Reader) (*models.Attachment, error)
	UploadFile(ctx context.Context, noteID, path string) (*models.Attachment, error)
	List(ctx context.Context, noteID string) ([]models.Attachment, error)
	History(ctx context.Context, noteID, filename string) ([]models.Attachment, error)
	Delete(ctx context.Context, noteID, id string) error
	Download(ctx context.Context, id string, w io.Writer) (int64, error)
	// Refresh replaces the note's embedded summaries with the server's
	// latest versions. Nothing is enqueued when they already match.
	Refresh(ctx context.Context, noteID string) error
}

type attachmentService struct {
	client client.Client
	store  replica.Store
	logger logging.Logger
	now    func() time.Time
}

func NewAttachmentService(c client.Client, store replica.Store, logger logging.Logger) AttachmentService {
	return &attachmentService{
		client: c,
		store:  store,
		logger: logger.With("module", "attachments"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *attachmentService) writableNote(ctx context.Context, noteID string) error {
	n, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return fmt.Errorf("note %s: %w", noteID, err)
	}
	if n.Trashed {
		return fmt.Errorf("note %s: %w", noteID, ErrNoteTrashed)
	}
	return nil
}

func (s *attachmentService) Upload(ctx context.Context, noteID, filename, mimeType string, r io.Reader) (*models.Attachment, error) {
	if err := s.writableNote(ctx, noteID); err != nil {
		return nil, err
	}
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	a, err := s.client.UploadAttachment(ctx, noteID, filename, mimeType, r)
	if err != nil {
		return nil, fmt.Errorf("upload error: %w", err)
	}
	s.logger.Info(ctx, "attachment uploaded", "note", noteID, "filename", filename, "version", a.Version)

	if err := s.Refresh(ctx, noteID); err != nil {
		return a, err
	}
	return a, nil
}

func (s *attachmentService) UploadFile(ctx context.Context, noteID, path string) (*models.Attachment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	return s.Upload(ctx, noteID, filepath.Base(path), mimeType, f)
}

func (s *attachmentService) List(ctx context.Context, noteID string) ([]models.Attachment, error) {
	return s.client.ListAttachments(ctx, noteID)
}

func (s *attachmentService) History(ctx context.Context, noteID, filename string) ([]models.Attachment, error) {
	return s.client.AttachmentHistory(ctx, noteID, filename)
}

func (s *attachmentService) Delete(ctx context.Context, noteID, id string) error {
	if err := s.client.DeleteAttachment(ctx, id); err != nil {
		return fmt.Errorf("delete error: %w", err)
	}
	return s.Refresh(ctx, noteID)
}

func (s *attachmentService) Download(ctx context.Context, id string, w io.Writer) (int64, error) {
	return s.client.DownloadAttachment(ctx, id, w)
}

func (s *attachmentService) Refresh(ctx context.Context, noteID string) error {
	latest, err := s.client.ListAttachments(ctx, noteID)
	if err != nil {
		return fmt.Errorf("listing attachments: %w", err)
	}
	summaries := make([]models.AttachmentSummary, 0, len(latest))
	for _, a := range latest {
		summaries = append(summaries, a.Summary())
	}

	n, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return fmt.Errorf("note %s: %w", noteID, err)
	}
	if slices.Equal(n.Attachments, summaries) {
		return nil
	}
	n.Attachments = summaries
	n.UpdatedAt = s.now()
	if err := s.store.SaveNote(ctx, n, models.MutationUpdate); err != nil {
		return fmt.Errorf("saving error: %w", err)
	}
	return nil
}
