package services

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/blobstore"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *AttachmentService
	rm      *faultyManager
	blobs   *flakyStore
	blobDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	blobDir := t.TempDir()
	fsStore, err := blobstore.NewFSStore(blobDir)
	require.NoError(t, err)

	rm := &faultyManager{MemoryRepositoryManager: repomanager.NewMemoryRepositoryManager()}
	blobs := &flakyStore{Store: fsStore}
	svc := NewAttachmentService(rm, blobs, logging.NewNopLogger(), t.TempDir())
	return &fixture{svc: svc, rm: rm, blobs: blobs, blobDir: blobDir}
}

func (f *fixture) put(t *testing.T, filename, body string) *models.Attachment {
	t.Helper()
	a, err := f.svc.Put(context.Background(), "u1", "n1", filename, "text/plain", strings.NewReader(body))
	require.NoError(t, err)
	return a
}

// blobCount counts committed payload files.
func (f *fixture) blobCount(t *testing.T) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(f.blobDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

// faultyManager lets tests swap in failing repositories.
type faultyManager struct {
	*repomanager.MemoryRepositoryManager
	wrap func(repomanager.Repos) repomanager.Repos
}

func (m *faultyManager) apply(r repomanager.Repos) repomanager.Repos {
	if m.wrap == nil {
		return r
	}
	return m.wrap(r)
}

func (m *faultyManager) Repos() repomanager.Repos {
	return m.apply(m.MemoryRepositoryManager.Repos())
}

func (m *faultyManager) InTx(ctx context.Context, fn func(ctx context.Context, r repomanager.Repos) error) error {
	return m.MemoryRepositoryManager.InTx(ctx, func(ctx context.Context, r repomanager.Repos) error {
		return fn(ctx, m.apply(r))
	})
}

type faultyAttachments struct {
	attachments.Repository
	insertErr  error
	listAllErr error
}

func (r *faultyAttachments) Insert(ctx context.Context, a *models.Attachment) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	return r.Repository.Insert(ctx, a)
}

func (r *faultyAttachments) ListAll(ctx context.Context) ([]models.Attachment, error) {
	if r.listAllErr != nil {
		return nil, r.listAllErr
	}
	return r.Repository.ListAll(ctx)
}

func failAttachments(m *faultyManager, fa faultyAttachments) {
	m.wrap = func(r repomanager.Repos) repomanager.Repos {
		w := fa
		w.Repository = r.Attachments
		r.Attachments = &w
		return r
	}
}

// flakyStore fails Delete for the listed keys.
type flakyStore struct {
	blobstore.Store
	failDelete map[string]bool
}

var errBlobDelete = errors.New("blob delete failed")

func (s *flakyStore) Delete(ctx context.Context, key string) error {
	if s.failDelete[key] {
		return errBlobDelete
	}
	return s.Store.Delete(ctx, key)
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}
