package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
)

func (a *App) listNotebooks(ctx context.Context, _ []string) error {
	nbs, err := a.Notebooks.List(ctx)
	if err != nil {
		return err
	}
	if len(nbs) == 0 {
		a.printf("No notebooks.\n")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS")
	for _, nb := range nbs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", nb.ID, nb.Name, statusOf(nb.SyncStatus))
	}
	return tw.Flush()
}

func (a *App) addNotebook(ctx context.Context, args []string) error {
	nb, err := a.Notebooks.Create(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	a.printf("Notebook %s created\n", nb.ID)
	return nil
}

func (a *App) renameNotebook(ctx context.Context, args []string) error {
	_, err := a.Notebooks.Rename(ctx, args[0], strings.Join(args[1:], " "))
	return err
}

func (a *App) deleteNotebook(ctx context.Context, args []string) error {
	if err := a.Notebooks.Delete(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Notebook %s deleted\n", args[0])
	return nil
}
