package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
)

var knownFlags = []string{"-a", "-t", "-d", "-l", "-i", "-rt", "-m"}

// parseFlags overlays cfg with command-line flags:
//
//	-a string   server base URL
//	-t string   access token
//	-d string   replica database path
//	-l string   log file
//	-i int      sync interval in seconds
//	-rt int     request timeout in seconds
//	-m int      attempts before a queue entry is quarantined
//
// Arguments not listed above are dropped with flagx.FilterArgs first.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("gophnotes", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "server base URL")
	fs.StringVar(&cfg.Token, "t", cfg.Token, "access token")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "replica database path")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file")
	syncInterval := fs.Int("i", int(cfg.SyncInterval.Seconds()), "sync interval (in seconds)")
	requestTimeout := fs.Int("rt", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.IntVar(&cfg.MaxAttempts, "m", cfg.MaxAttempts, "attempts before quarantine")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.SyncInterval = time.Duration(*syncInterval) * time.Second
		case "rt":
			cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
		}
	})
	return nil
}
