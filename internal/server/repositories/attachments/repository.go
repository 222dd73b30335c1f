// Package attachments stores attachment version rows. Payload bytes live in
// the blob store; rows only carry the storage key.
package attachments

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type Repository interface {
	// Latest returns the latest version of (userID, noteID, filename) or
	// common.ErrorNotFound.
	Latest(ctx context.Context, userID, noteID, filename string) (*models.Attachment, error)

	Insert(ctx context.Context, a *models.Attachment) error

	// ClearLatest drops the latest flag from row id. It returns
	// dbx.ErrNoRowsAffected when the row is missing or no longer latest.
	ClearLatest(ctx context.Context, id string) error

	// SetLatest marks row id as the latest version of its chain.
	SetLatest(ctx context.Context, id string) error

	// Get returns common.ErrorNotFound for an unknown id.
	Get(ctx context.Context, id string) (*models.Attachment, error)

	// Delete removes row id and returns common.ErrorNotFound when it is gone.
	Delete(ctx context.Context, id string) error

	// DeleteOld removes row id only while it is not the latest version and
	// returns dbx.ErrNoRowsAffected otherwise.
	DeleteOld(ctx context.Context, id string) error

	// ListLatest returns the latest version of each file of a note, newest first.
	ListLatest(ctx context.Context, userID, noteID string) ([]models.Attachment, error)

	// History returns every version of one file, highest version first.
	History(ctx context.Context, userID, noteID, filename string) ([]models.Attachment, error)

	// ListAll returns every row ordered by (user, note, filename) and then
	// version descending.
	ListAll(ctx context.Context) ([]models.Attachment, error)
}
