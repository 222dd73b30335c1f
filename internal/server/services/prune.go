package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/metrics"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// PruneFailure is one version Prune could not remove.
type PruneFailure struct {
	Attachment models.Attachment
	Err        error
}

type PruneReport struct {
	Deleted    int
	BytesFreed int64
	Failed     []PruneFailure
}

// MBFreed is BytesFreed in mebibytes.
func (r *PruneReport) MBFreed() float64 {
	return float64(r.BytesFreed) / 1024 / 1024
}

// Prune keeps the newest maxVersions versions of every file and deletes the
// rest, payload first and row second. The latest version is never removed.
// Failures on single versions are collected in the report; only a failure to
// list versions is returned as an error.
func (s *AttachmentService) Prune(ctx context.Context, maxVersions int) (*PruneReport, error) {
	if maxVersions < 1 {
		return nil, ErrInvalidMaxVersions
	}

	all, err := s.repomanager.Repos().Attachments.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing attachments: %w", err)
	}

	report := &PruneReport{}
	for start := 0; start < len(all); {
		end := start + 1
		for end < len(all) && all[end].GroupKey() == all[start].GroupKey() {
			end++
		}
		if end-start > maxVersions {
			if err := s.pruneGroup(ctx, all[start+maxVersions:end], report); err != nil {
				return report, err
			}
		}
		start = end
	}

	metrics.PrunedVersions.Add(float64(report.Deleted))
	metrics.PrunedBytes.Add(float64(report.BytesFreed))
	metrics.PruneFailures.Add(float64(len(report.Failed)))
	return report, nil
}

// pruneGroup deletes the given old versions of one chain.
func (s *AttachmentService) pruneGroup(ctx context.Context, old []models.Attachment, report *PruneReport) error {
	unlock := s.locks.Lock(old[0].GroupKey())
	defer unlock()

	for _, a := range old {
		if err := ctx.Err(); err != nil {
			return err
		}
		if a.IsLatest {
			report.Failed = append(report.Failed, PruneFailure{Attachment: a, Err: ErrLatestVersion})
			continue
		}

		s.log.Info(ctx, "pruning attachment", "filename", a.Filename, "version", a.Version, "note", a.NoteID)

		if err := s.blobs.Delete(ctx, a.StorageKey); err != nil {
			s.log.Error(ctx, "failed to delete payload", "id", a.ID, "error", err)
			report.Failed = append(report.Failed, PruneFailure{Attachment: a, Err: err})
			continue
		}
		if err := s.repomanager.Repos().Attachments.DeleteOld(ctx, a.ID); err != nil {
			if errors.Is(err, dbx.ErrNoRowsAffected) {
				err = s.whyNotDeleted(ctx, a.ID)
			}
			s.log.Error(ctx, "failed to delete attachment row", "id", a.ID, "error", err)
			report.Failed = append(report.Failed, PruneFailure{Attachment: a, Err: err})
			continue
		}

		report.Deleted++
		report.BytesFreed += a.Size
	}
	return nil
}

// whyNotDeleted explains a conditional delete that matched no row.
func (s *AttachmentService) whyNotDeleted(ctx context.Context, id string) error {
	cur, err := s.repomanager.Repos().Attachments.Get(ctx, id)
	switch {
	case err != nil:
		return err
	case cur.IsLatest:
		return ErrLatestVersion
	default:
		return dbx.ErrNoRowsAffected
	}
}
