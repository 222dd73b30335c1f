package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

func (a *App) printAttachments(list []models.Attachment) error {
	if len(list) == 0 {
		a.printf("No attachments.\n")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILENAME\tVERSION\tSIZE\tCREATED")
	for _, att := range list {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", att.ID, att.Filename, att.Version, att.Size, formatTime(att.CreatedAt))
	}
	return tw.Flush()
}

func (a *App) attach(ctx context.Context, args []string) error {
	att, err := a.Attachments.UploadFile(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	a.printf("%s stored as version %d (%s)\n", att.Filename, att.Version, att.ID)
	return nil
}

func (a *App) listAttachments(ctx context.Context, args []string) error {
	list, err := a.Attachments.List(ctx, args[0])
	if err != nil {
		return err
	}
	return a.printAttachments(list)
}

func (a *App) history(ctx context.Context, args []string) error {
	list, err := a.Attachments.History(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	return a.printAttachments(list)
}

func (a *App) download(ctx context.Context, args []string) error {
	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	n, err := a.Attachments.Download(ctx, args[0], f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(args[1])
		return err
	}
	a.printf("%d bytes written to %s\n", n, args[1])
	return nil
}

func (a *App) detach(ctx context.Context, args []string) error {
	return a.Attachments.Delete(ctx, args[0], args[1])
}
