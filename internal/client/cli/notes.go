package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/services"
)

const timeLayout = "2006-01-02 15:04"

func (a *App) listNotes(ctx context.Context, args []string) error {
	var filter services.NoteFilter
	fs := flag.NewFlagSet("notes", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&filter.NotebookID, "nb", "", "notebook id")
	fs.StringVar(&filter.TagID, "tag", "", "tag id")
	fs.BoolVar(&filter.IncludeTrashed, "trash", false, "include trashed notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	filter.Search = strings.Join(fs.Args(), " ")

	notes, err := a.Notes.List(ctx, filter)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		a.printf("No notes.\n")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tUPDATED\tSTATUS")
	for _, n := range notes {
		title := n.Title
		if n.Encrypted {
			title += " [encrypted]"
		}
		if n.Trashed {
			title += " [trash]"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.ID, title, n.UpdatedAt.Local().Format(timeLayout), n.SyncStatus)
	}
	return tw.Flush()
}

func (a *App) showNote(ctx context.Context, args []string) error {
	n, err := a.Notes.Get(ctx, args[0])
	if err != nil {
		return err
	}
	a.printf("Title:    %s\n", n.Title)
	if n.NotebookID != "" {
		a.printf("Notebook: %s\n", n.NotebookID)
	}
	if len(n.TagIDs) > 0 {
		a.printf("Tags:     %s\n", strings.Join(n.TagIDs, ", "))
	}
	a.printf("Created:  %s\nUpdated:  %s\nStatus:   %s\n",
		n.CreatedAt.Local().Format(timeLayout), n.UpdatedAt.Local().Format(timeLayout), n.SyncStatus)
	if n.Trashed {
		a.printf("In trash\n")
	}
	for _, att := range n.Attachments {
		a.printf("Attachment: %s v%d (%d bytes) id=%s\n", att.Filename, att.Version, att.Size, att.ID)
	}
	a.printf("\n%s\n", a.noteContent(ctx, n))
	return nil
}

func (a *App) addNote(ctx context.Context, _ []string) error {
	title, err := GetSimpleText(a.in, "Title", a.out)
	if err != nil {
		return err
	}
	notebookID, err := GetSimpleText(a.in, "Notebook id (empty for none)", a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.in, "Content", a.out)
	if err != nil {
		return err
	}

	n, err := a.Notes.Create(ctx, title, content, notebookID)
	if err != nil {
		return err
	}
	a.printf("Note %s created\n", n.ID)
	return nil
}

func (a *App) editNote(ctx context.Context, args []string) error {
	n, err := a.Notes.Get(ctx, args[0])
	if err != nil {
		return err
	}
	title, err := GetSimpleText(a.in, "New title (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.in, "New content (empty keeps current)", a.out)
	if err != nil {
		return err
	}

	var patch services.NotePatch
	if title != "" {
		patch.Title = &title
	}
	if content != "" && !n.Encrypted {
		patch.Content = &content
	}
	if _, err := a.Notes.Update(ctx, args[0], patch); err != nil {
		return err
	}
	if content != "" && n.Encrypted {
		if err := a.Vault.Write(ctx, args[0], content); err != nil {
			return err
		}
	}
	a.printf("Note %s saved\n", args[0])
	return nil
}

func (a *App) trashNote(ctx context.Context, args []string) error {
	return a.Notes.Trash(ctx, args[0])
}

func (a *App) restoreNote(ctx context.Context, args []string) error {
	return a.Notes.Restore(ctx, args[0])
}

func (a *App) deleteNote(ctx context.Context, args []string) error {
	if err := a.Notes.Delete(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Note %s deleted\n", args[0])
	return nil
}

func (a *App) tagNote(ctx context.Context, args []string) error {
	return a.Notes.AddTag(ctx, args[0], args[1])
}

func (a *App) untagNote(ctx context.Context, args []string) error {
	return a.Notes.RemoveTag(ctx, args[0], args[1])
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(timeLayout)
}

func statusOf(s models.SyncStatus) string {
	if s == "" {
		return string(models.StatusSynced)
	}
	return string(s)
}
