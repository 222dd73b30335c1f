package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/replica"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

// PullReport holds the merge result of every kind that was fetched and the
// kinds whose fetch failed.
type PullReport struct {
	Kinds  map[models.EntityKind]replica.MergeResult
	Failed []models.EntityKind
}

type Puller struct {
	merger replica.Merger
	remote Remote
	logger logging.Logger
}

func NewPuller(merger replica.Merger, remote Remote, logger logging.Logger) *Puller {
	return &Puller{merger: merger, remote: remote, logger: logger.With("module", "pull")}
}

// Pull refreshes notebooks, tags and notes in that order. A fetch failure is
// logged and leaves that kind untouched while the others proceed; a local
// merge failure is returned.
func (p *Puller) Pull(ctx context.Context) (PullReport, error) {
	report := PullReport{Kinds: make(map[models.EntityKind]replica.MergeResult, len(models.Kinds))}

	for _, kind := range models.Kinds {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res, err := p.pullKind(ctx, kind)
		var fe *fetchError
		if errors.As(err, &fe) {
			p.logger.Warn(ctx, "fetch failed, keeping local copy", "kind", kind, "error", fe.err)
			report.Failed = append(report.Failed, kind)
			continue
		}
		if err != nil {
			return report, err
		}
		report.Kinds[kind] = res
		p.logger.Info(ctx, "pulled", "kind", kind, "written", res.Written, "deleted", res.Deleted, "preserved", res.Preserved)
	}

	return report, nil
}

// fetchError marks a failure to read the server's set, as opposed to a
// failure to write the replica.
type fetchError struct {
	err error
}

func (e *fetchError) Error() string { return "fetch: " + e.err.Error() }
func (e *fetchError) Unwrap() error { return e.err }

func (p *Puller) pullKind(ctx context.Context, kind models.EntityKind) (replica.MergeResult, error) {
	switch kind {
	case models.KindNotebook:
		remote, err := p.remote.ListNotebooks(ctx)
		if err != nil {
			return replica.MergeResult{}, &fetchError{err}
		}
		return p.merger.MergeNotebooks(ctx, remote)
	case models.KindTag:
		remote, err := p.remote.ListTags(ctx)
		if err != nil {
			return replica.MergeResult{}, &fetchError{err}
		}
		return p.merger.MergeTags(ctx, remote)
	case models.KindNote:
		remote, err := p.remote.ListNotes(ctx)
		if err != nil {
			return replica.MergeResult{}, &fetchError{err}
		}
		return p.merger.MergeNotes(ctx, remote)
	}
	return replica.MergeResult{}, fmt.Errorf("unknown entity kind %q", kind)
}
