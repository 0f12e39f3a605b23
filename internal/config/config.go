// Package config loads command configuration from the environment, an
// optional .env file and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"newsdesk/internal/logger"
)

// Config is shared by the web and terminal commands.
type Config struct {
	// StoryPath is the game data file. Empty selects the embedded newsroom story.
	StoryPath string `env:"NEWSDESK_STORY"`
	Addr      string `env:"NEWSDESK_ADDR" envDefault:":8080"`
	// CookieSecure marks session cookies Secure; enable behind TLS.
	CookieSecure bool `env:"NEWSDESK_COOKIE_SECURE" envDefault:"false"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogEncoding string `env:"LOG_ENCODING" envDefault:"json"`
	LogFile     string `env:"LOG_FILE"`

	OTelEnabled bool `env:"OTEL_ENABLED" envDefault:"false"`
}

// Logger returns the logger settings.
func (c Config) Logger() logger.Config {
	return logger.Config{Level: c.LogLevel, Encoding: c.LogEncoding, OutputPath: c.LogFile}
}

// LoadDotEnv reads the given .env files into the process environment. Missing
// files are not an error; env vars may be set directly.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Parse loads defaults from the environment, then lets flags in fs override
// them. fs may be nil.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if fs == nil {
		return cfg, nil
	}
	fs.StringVar(&cfg.StoryPath, "story", cfg.StoryPath, "game data file (JSON or YAML); empty uses the built-in story")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file; empty logs to stdout")
	fs.BoolVar(&cfg.OTelEnabled, "otel", cfg.OTelEnabled, "export traces over OTLP/HTTP")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
