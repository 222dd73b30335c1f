package config

import (
	"errors"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// TokenEnv names the environment variable consulted for the access token
// when neither JSON nor flags set one.
const TokenEnv = "GOPHNOTES_TOKEN"

// Config holds runtime settings for the GophNotes client.
type Config struct {
	ServerURL      string
	Token          string
	DBPath         string
	LogFile        string
	SyncInterval   time.Duration
	RequestTimeout time.Duration
	MaxAttempts    int
	BackoffBase    time.Duration
	BackoffCap     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DBPath = "gophnotes.db"
	c.LogFile = "gophnotes.log"
	c.SyncInterval = 30 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.MaxAttempts = 8
	c.BackoffBase = 5 * time.Second
	c.BackoffCap = 10 * time.Minute
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ServerURL, validation.Required, is.URL),
		validation.Field(&c.DBPath, validation.Required),
		validation.Field(&c.SyncInterval, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.RequestTimeout, validation.Required, validation.Min(100*time.Millisecond)),
		validation.Field(&c.MaxAttempts, validation.Required, validation.Min(1)),
		validation.Field(&c.BackoffBase, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.BackoffCap, validation.Required, validation.By(func(any) error {
			if c.BackoffCap < c.BackoffBase {
				return errors.New("must not be less than the backoff base")
			}
			return nil
		})),
	)
}

// LoadConfig applies defaults, then the JSON file named by -c/-config, then
// command-line flags, then validates. Later sources take precedence.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if cfg.Token == "" {
		cfg.Token = os.Getenv(TokenEnv)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
