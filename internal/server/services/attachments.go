package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/blobstore"
	"github.com/dmitrijs2005/gophnotes/internal/server/metrics"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// AttachmentService keeps versioned attachment payloads. Each
// (user, note, filename) forms a chain of versions numbered from 1 with
// exactly one latest version.
type AttachmentService struct {
	repomanager repomanager.RepositoryManager
	blobs       blobstore.Store
	log         logging.Logger
	locks       keyedMutex
	stagingDir  string
	now         func() time.Time
}

// NewAttachmentService builds the service. Uploads are staged in stagingDir
// (os.TempDir when empty) while they are hashed.
func NewAttachmentService(m repomanager.RepositoryManager, blobs blobstore.Store, log logging.Logger, stagingDir string) *AttachmentService {
	return &AttachmentService{
		repomanager: m,
		blobs:       blobs,
		log:         log.With("module", "attachments"),
		stagingDir:  stagingDir,
		now:         time.Now,
	}
}

func groupKey(userID, noteID, filename string) string {
	a := models.Attachment{UserID: userID, NoteID: noteID, Filename: filename}
	return a.GroupKey()
}

// ContentURL is the download path of an attachment version.
func ContentURL(id string) string {
	return "/attachments/" + id + "/content"
}

func withURL(a *models.Attachment) *models.Attachment {
	a.URL = ContentURL(a.ID)
	return a
}

// cleanFilename keeps the base name of a client-supplied path.
func cleanFilename(name string) (string, error) {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "" || name == "." || name == "/" || name == ".." {
		return "", ErrEmptyFilename
	}
	return name, nil
}

// stage copies r into a temporary file and returns it rewound together with
// the payload's size and hex sha-256.
func (s *AttachmentService) stage(r io.Reader) (*os.File, int64, string, error) {
	tmp, err := os.CreateTemp(s.stagingDir, "upload-*")
	if err != nil {
		return nil, 0, "", fmt.Errorf("error creating staging file: %w", err)
	}

	h := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, h), r)
	if err == nil {
		_, err = tmp.Seek(0, io.SeekStart)
	}
	if err != nil {
		discard(tmp)
		return nil, 0, "", fmt.Errorf("error staging upload: %w", err)
	}
	return tmp, size, hex.EncodeToString(h.Sum(nil)), nil
}

func discard(f *os.File) {
	_ = f.Close()
	_ = os.Remove(f.Name())
}

// Put stores a new version of filename on noteID. Identical bytes return the
// current latest version unchanged; different bytes become version+1.
func (s *AttachmentService) Put(ctx context.Context, userID, noteID, filename, mimeType string, r io.Reader) (*models.Attachment, error) {
	if noteID == "" {
		return nil, fmt.Errorf("%w: noteId is required", common.ErrorInvalidPayload)
	}
	filename, err := cleanFilename(filename)
	if err != nil {
		return nil, err
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	staged, size, hash, err := s.stage(r)
	if err != nil {
		metrics.AttachmentPuts.WithLabelValues("failed").Inc()
		return nil, err
	}
	defer discard(staged)

	unlock := s.locks.Lock(groupKey(userID, noteID, filename))
	defer unlock()

	a, err := s.put(ctx, userID, noteID, filename, mimeType, staged, size, hash)
	if err != nil {
		metrics.AttachmentPuts.WithLabelValues("failed").Inc()
		return nil, err
	}
	return withURL(a), nil
}

func (s *AttachmentService) put(ctx context.Context, userID, noteID, filename, mimeType string, staged io.Reader, size int64, hash string) (*models.Attachment, error) {
	repos := s.repomanager.Repos()

	prev, err := repos.Attachments.Latest(ctx, userID, noteID, filename)
	if errors.Is(err, common.ErrorNotFound) {
		prev = nil
	} else if err != nil {
		return nil, fmt.Errorf("error looking up latest version: %w", err)
	}

	if prev != nil && prev.Hash == hash {
		metrics.AttachmentPuts.WithLabelValues("deduplicated").Inc()
		s.log.Debug(ctx, "attachment unchanged", "id", prev.ID, "version", prev.Version)
		return prev, nil
	}

	a := &models.Attachment{
		ID:         uuid.NewString(),
		UserID:     userID,
		NoteID:     noteID,
		StorageKey: blobstore.NewKey(userID),
		Filename:   filename,
		MimeType:   mimeType,
		Size:       size,
		Hash:       hash,
		Version:    1,
		IsLatest:   true,
		CreatedAt:  s.now().UTC(),
	}
	if prev != nil {
		a.Version = prev.Version + 1
	}

	if err := s.blobs.Put(ctx, a.StorageKey, staged); err != nil {
		return nil, fmt.Errorf("error storing payload: %w", err)
	}

	err = s.repomanager.InTx(ctx, func(ctx context.Context, r repomanager.Repos) error {
		if prev != nil {
			if err := r.Attachments.ClearLatest(ctx, prev.ID); err != nil {
				if errors.Is(err, dbx.ErrNoRowsAffected) {
					return ErrStaleLatest
				}
				return err
			}
		}
		return r.Attachments.Insert(ctx, a)
	})
	if err != nil {
		if derr := s.blobs.Delete(context.WithoutCancel(ctx), a.StorageKey); derr != nil {
			s.log.Error(ctx, "orphan payload left behind", "key", a.StorageKey, "error", derr)
		}
		return nil, fmt.Errorf("error saving attachment: %w", err)
	}

	metrics.AttachmentPuts.WithLabelValues("created").Inc()
	metrics.AttachmentBytes.Add(float64(size))
	s.log.Info(ctx, "attachment stored", "id", a.ID, "note", noteID, "filename", filename, "version", a.Version, "size", size)
	return a, nil
}

// ListLatest returns the latest version of every file attached to noteID.
func (s *AttachmentService) ListLatest(ctx context.Context, userID, noteID string) ([]models.Attachment, error) {
	items, err := s.repomanager.Repos().Attachments.ListLatest(ctx, userID, noteID)
	if err != nil {
		return nil, fmt.Errorf("error listing attachments: %w", err)
	}
	for i := range items {
		withURL(&items[i])
	}
	return items, nil
}

// History returns every stored version of filename, newest first.
func (s *AttachmentService) History(ctx context.Context, userID, noteID, filename string) ([]models.Attachment, error) {
	items, err := s.repomanager.Repos().Attachments.History(ctx, userID, noteID, filename)
	if err != nil {
		return nil, fmt.Errorf("error listing attachment history: %w", err)
	}
	for i := range items {
		withURL(&items[i])
	}
	return items, nil
}

func (s *AttachmentService) get(ctx context.Context, userID, id string) (*models.Attachment, error) {
	a, err := s.repomanager.Repos().Attachments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

// Open returns the attachment row and a reader over its payload. The caller
// closes the reader.
func (s *AttachmentService) Open(ctx context.Context, userID, id string) (*models.Attachment, io.ReadCloser, error) {
	a, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Open(ctx, a.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening payload of %s: %w", id, err)
	}
	return withURL(a), rc, nil
}

// Delete removes one version. Remaining versions keep their numbers; when
// the latest version goes, the next-highest one becomes latest. The row is
// read again under the group lock, so a concurrent delete that promoted it
// is seen.
func (s *AttachmentService) Delete(ctx context.Context, userID, id string) error {
	a, err := s.get(ctx, userID, id)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(a.GroupKey())
	defer unlock()

	err = s.repomanager.InTx(ctx, func(ctx context.Context, r repomanager.Repos) error {
		cur, err := r.Attachments.Get(ctx, id)
		if err != nil {
			return err
		}
		if cur.UserID != userID {
			return common.ErrorNotFound
		}
		a = cur

		if err := r.Attachments.Delete(ctx, id); err != nil {
			return err
		}
		if !cur.IsLatest {
			return nil
		}
		rest, err := r.Attachments.History(ctx, userID, cur.NoteID, cur.Filename)
		if err != nil {
			return err
		}
		if len(rest) == 0 {
			return nil
		}
		return r.Attachments.SetLatest(ctx, rest[0].ID)
	})
	if err != nil {
		return fmt.Errorf("error deleting attachment %s: %w", id, err)
	}

	if err := s.blobs.Delete(ctx, a.StorageKey); err != nil {
		s.log.Error(ctx, "orphan payload left behind", "key", a.StorageKey, "error", err)
	}
	s.log.Info(ctx, "attachment deleted", "id", id, "version", a.Version, "was_latest", a.IsLatest)
	return nil
}
