package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	_ "github.com/joho/godotenv/autoload"
)

// issueTokenFor returns the user id given with -issue-token, if any.
func issueTokenFor(args []string) string {
	var userID string
	fs := flag.NewFlagSet("issue-token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&userID, "issue-token", "", "print an access token for the user and exit")
	_ = fs.Parse(flagx.FilterArgs(args, []string{"-issue-token", "--issue-token"}))
	return userID
}

func main() {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error(ctx, "config error", "error", err)
		os.Exit(1)
	}

	if userID := issueTokenFor(os.Args[1:]); userID != "" {
		token, err := server.IssueToken(cfg, userID)
		if err != nil {
			logger.Error(ctx, "token error", "error", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "init error", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
