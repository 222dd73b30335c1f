package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

func (a *App) sync(ctx context.Context, _ []string) error {
	r, err := a.Syncer.SyncOnce(ctx)
	if err != nil {
		return err
	}
	a.printf("Pushed %d, failed %d, waiting %d, quarantined %d\n",
		r.Push.Sent, r.Push.Failed, r.Push.Skipped, r.Push.Quarantined)
	for _, kind := range models.Kinds {
		m, ok := r.Pull.Kinds[kind]
		if !ok {
			continue
		}
		a.printf("Pulled %s: %d written, %d deleted, %d kept local\n", kind.Collection(), m.Written, m.Deleted, m.Preserved)
	}
	for _, kind := range r.Pull.Failed {
		a.printf("Pull of %s failed, see log\n", kind.Collection())
	}
	return nil
}

func (a *App) status(ctx context.Context, _ []string) error {
	st, err := a.Status.Status(ctx)
	if err != nil {
		return err
	}
	online := "no"
	if st.Online {
		online = "yes"
	}
	a.printf("Online:      %s\nLast push:   %s\nLast pull:   %s\nPending:     %d\nQuarantined: %d\n",
		online, formatTime(st.LastPush), formatTime(st.LastPull), st.Pending, st.Quarantined)
	return nil
}

func (a *App) queue(ctx context.Context, _ []string) error {
	entries, err := a.Status.Queue(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.printf("Queue is empty.\n")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tOP\tKIND\tID\tATTEMPTS\tRETRIES\tNEXT\tSTATE")
	for _, e := range entries {
		state := ""
		if e.Quarantined {
			state = "quarantined: " + e.LastError
		} else if e.LastError != "" {
			state = e.LastError
		}
		next := "now"
		if !e.NextAttemptAt.IsZero() {
			next = formatTime(e.NextAttemptAt)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			e.Seq, e.Type, e.Kind, e.EntityID, e.Attempts, e.Retries, next, state)
	}
	return tw.Flush()
}

func (a *App) requeue(ctx context.Context, args []string) error {
	var seq int64
	if len(args) > 0 {
		v, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad sequence number %q", args[0])
		}
		seq = v
	}
	n, err := a.Status.Requeue(ctx, seq)
	if err != nil {
		return err
	}
	a.printf("%d entries requeued\n", n)
	return nil
}
