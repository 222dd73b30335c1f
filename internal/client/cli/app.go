package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/services"
	"github.com/dmitrijs2005/gophnotes/internal/client/syncer"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Syncer runs one push+pull cycle on demand.
type Syncer interface {
	SyncOnce(ctx context.Context) (syncer.Report, error)
}

// Services groups everything the REPL commands call into.
type Services struct {
	Notes       services.NoteService
	Notebooks   services.NotebookService
	Tags        services.TagService
	Attachments services.AttachmentService
	Status      services.StatusService
	Vault       services.VaultService
	Syncer      Syncer
}

type App struct {
	Services

	in  *bufio.Reader
	out io.Writer

	mu   sync.RWMutex
	mode Mode
}

func NewApp(s Services) *App {
	return &App{Services: s, in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// prompt mode accordingly until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := a.Status.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) getStatus() string {
	if m := a.Mode(); m != "" {
		return fmt.Sprintf("(%s)", m)
	}
	return ""
}

// Root runs the REPL on stdin until EOF or "exit".
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to GophNotes CLI (type 'help' for commands)")
	runREPL(ctx, a.commands(), a.getStatus, bufio.NewScanner(a.in))
}
