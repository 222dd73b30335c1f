// Package server wires configuration, storage backends and the HTTP API
// into a runnable application with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/api"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/blobstore"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/httpserver"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	entities    *services.EntityService
	attachments *services.AttachmentService
}

// OpenRepositories returns a PostgreSQL manager with migrations applied when
// a DSN is configured and an in-memory one otherwise.
func OpenRepositories(ctx context.Context, c *config.Config, logger logging.Logger) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database DSN configured, keeping data in memory")
		return repomanager.NewMemoryRepositoryManager(), nil
	}

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	m := repomanager.NewPostgresRepositoryManager(db)
	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}
	return m, nil
}

// OpenBlobStore builds the payload store selected by c.BlobBackend.
func OpenBlobStore(ctx context.Context, c *config.Config) (blobstore.Store, error) {
	switch c.BlobBackend {
	case config.BlobBackendS3:
		return blobstore.NewS3Store(ctx, blobstore.S3Settings{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
		})
	case config.BlobBackendFS:
		return blobstore.NewFSStore(c.BlobDir)
	}
	return nil, fmt.Errorf("unknown blob backend %q", c.BlobBackend)
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	rm, err := OpenRepositories(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	blobs, err := OpenBlobStore(ctx, c)
	if err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		entities:    services.NewEntityService(rm, logger),
		attachments: services.NewAttachmentService(rm, blobs, logger, ""),
	}, nil
}

// IssueToken signs an access token for userID with the configured secret.
func IssueToken(c *config.Config, userID string) (string, error) {
	return auth.GenerateToken(userID, []byte(c.SecretKey), c.AccessTokenValidityDuration)
}

// Run serves the API until ctx is cancelled or SIGINT, SIGTERM or SIGQUIT
// arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer app.repomanager.Close()

	app.logger.Info(ctx, "Starting app...")

	router := api.NewRouter(app.entities, app.attachments, api.Options{
		Secret:         []byte(app.config.SecretKey),
		MaxUploadBytes: app.config.MaxUploadBytes,
	}, app.logger)
	srv := httpserver.NewHTTPServer(app.config.ListenAddr, router, app.logger, app.config.ShutdownTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
		return err
	}
	app.logger.Info(ctx, "Server stopped")
	return nil
}
