// Command prune removes old attachment versions, keeping the newest
// --max-versions of every file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

type pruner interface {
	Prune(ctx context.Context, maxVersions int) (*services.PruneReport, error)
}

// openFunc builds the pruner for cfg; the returned func releases it.
type openFunc func(ctx context.Context, cfg *config.Config, log logging.Logger) (pruner, func(), error)

func openStores(ctx context.Context, cfg *config.Config, log logging.Logger) (pruner, func(), error) {
	if cfg.DatabaseDSN == "" {
		return nil, nil, errors.New("a database DSN is required")
	}
	rm, err := server.OpenRepositories(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	blobs, err := server.OpenBlobStore(ctx, cfg)
	if err != nil {
		_ = rm.Close()
		return nil, nil, err
	}
	svc := services.NewAttachmentService(rm, blobs, log, "")
	return svc, func() { _ = rm.Close() }, nil
}

func configFrom(cmd *cli.Command) (*config.Config, error) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = cmd.String("dsn")
	cfg.BlobBackend = cmd.String("blob-backend")
	cfg.BlobDir = cmd.String("blob-dir")
	cfg.S3Bucket = cmd.String("s3-bucket")
	cfg.S3Region = cmd.String("s3-region")
	cfg.S3BaseEndpoint = cmd.String("s3-endpoint")
	cfg.S3RootUser = cmd.String("s3-user")
	cfg.S3RootPassword = cmd.String("s3-password")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newCommand(out io.Writer, open openFunc) *cli.Command {
	var defaults config.Config
	defaults.LoadDefaults()

	return &cli.Command{
		Name:   "prune",
		Usage:  "Delete attachment versions beyond the newest N of every file",
		Writer: out,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "max-versions",
				Aliases: []string{"n"},
				Usage:   "versions to keep per file",
				Value:   common.DefaultMaxVersions,
			},
			&cli.StringFlag{Name: "dsn", Usage: "PostgreSQL DSN", Sources: cli.EnvVars(config.EnvDatabaseDSN)},
			&cli.StringFlag{Name: "blob-backend", Value: defaults.BlobBackend, Usage: "fs or s3", Sources: cli.EnvVars(config.EnvBlobBackend)},
			&cli.StringFlag{Name: "blob-dir", Value: defaults.BlobDir, Sources: cli.EnvVars(config.EnvBlobDir)},
			&cli.StringFlag{Name: "s3-bucket", Value: defaults.S3Bucket, Sources: cli.EnvVars(config.EnvS3Bucket)},
			&cli.StringFlag{Name: "s3-region", Value: defaults.S3Region, Sources: cli.EnvVars(config.EnvS3Region)},
			&cli.StringFlag{Name: "s3-endpoint", Value: defaults.S3BaseEndpoint, Sources: cli.EnvVars(config.EnvS3BaseEndpoint)},
			&cli.StringFlag{Name: "s3-user", Value: defaults.S3RootUser, Sources: cli.EnvVars(config.EnvS3RootUser)},
			&cli.StringFlag{Name: "s3-password", Value: defaults.S3RootPassword, Sources: cli.EnvVars(config.EnvS3RootPassword)},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd, out, open)
		},
	}
}

func run(ctx context.Context, cmd *cli.Command, out io.Writer, open openFunc) error {
	cfg, err := configFrom(cmd)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log := logging.NewJSONLogger(os.Stderr, slog.LevelWarn).With("module", "prune")

	p, closeFn, err := open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open stores: %w", err)
	}
	defer closeFn()

	fmt.Fprintln(out, "Starting attachment pruning...")
	report, err := p.Prune(ctx, int(cmd.Int("max-versions")))
	if err != nil {
		return err
	}

	for _, f := range report.Failed {
		fmt.Fprintf(out, "Failed to delete attachment %s (%s v%d): %v\n", f.Attachment.ID, f.Attachment.Filename, f.Attachment.Version, f.Err)
	}
	fmt.Fprintln(out, "Pruning completed.")
	fmt.Fprintf(out, "Deleted %d old attachment versions.\n", report.Deleted)
	fmt.Fprintf(out, "Freed %.2f MB of space.\n", report.MBFreed())
	return nil
}

func main() {
	if err := newCommand(os.Stdout, openStores).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
