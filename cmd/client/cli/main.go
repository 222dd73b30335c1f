package main

import (
	"context"
	"log"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/gophnotes/internal/client/cli"
	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/config"
	"github.com/dmitrijs2005/gophnotes/internal/client/replica"
	"github.com/dmitrijs2005/gophnotes/internal/client/services"
	"github.com/dmitrijs2005/gophnotes/internal/client/syncer"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	var logger logging.Logger = logging.NewNopLogger()
	if cfg.LogFile != "" {
		logger = logging.NewFileLogger(cfg.LogFile, slog.LevelInfo)
	}

	db, err := client.InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	notifier := replica.NewNotifier()
	defer notifier.Close()
	store := replica.NewSQLiteStore(db, notifier, logger)

	api := client.NewHTTPClient(cfg.ServerURL, cfg.Token, cfg.RequestTimeout)
	backoff := syncer.Backoff{Base: cfg.BackoffBase, Cap: cfg.BackoffCap, MaxAttempts: cfg.MaxAttempts}
	sc := syncer.NewSyncer(
		syncer.NewPusher(store, api, backoff, logger),
		syncer.NewPuller(store, api, logger),
		store, cfg.SyncInterval, logger,
	)

	app := cli.NewApp(cli.Services{
		Notes:       services.NewNoteService(store),
		Notebooks:   services.NewNotebookService(store),
		Tags:        services.NewTagService(store),
		Attachments: services.NewAttachmentService(api, store, logger),
		Status:      services.NewStatusService(api, store),
		Vault:       services.NewVaultService(store),
		Syncer:      sc,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		app.StartOnlineStatusWatcher(gctx, cfg.SyncInterval)
		return nil
	})
	g.Go(func() error {
		return sc.Run(gctx, cfg.Token != "")
	})

	app.Root(gctx)
	cancel()
	return g.Wait()
}
