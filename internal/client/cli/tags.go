package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
)

func (a *App) listTags(ctx context.Context, _ []string) error {
	tags, err := a.Tags.List(ctx)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		a.printf("No tags.\n")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS")
	for _, t := range tags {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, t.Name, statusOf(t.SyncStatus))
	}
	return tw.Flush()
}

func (a *App) addTag(ctx context.Context, args []string) error {
	t, err := a.Tags.Create(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	a.printf("Tag %s created\n", t.ID)
	return nil
}

func (a *App) renameTag(ctx context.Context, args []string) error {
	_, err := a.Tags.Rename(ctx, args[0], strings.Join(args[1:], " "))
	return err
}

func (a *App) deleteTag(ctx context.Context, args []string) error {
	if err := a.Tags.Delete(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Tag %s deleted\n", args[0])
	return nil
}
