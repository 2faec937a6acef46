package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/jmagar/musicsave-bot/internal/model"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is loaded before flags are parsed. ENV_FILE overrides it.
const DefaultEnvFile = ".env"

// LoadedEnvFile is the .env path that was read, or "" when none was found.
var LoadedEnvFile string

// Load reads the .env file, parses argv (without the program name) with
// environment fallbacks, and returns the validated configuration.
// arg.ErrHelp is returned unchanged when help was requested.
func Load(argv []string) (*model.Config, error) {
	if err := LoadEnvFile(); err != nil {
		return nil, err
	}
	args, err := ParseArgs(argv)
	if err != nil {
		return nil, err
	}
	cfg := FromArgs(args)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads ENV_FILE (default .env) into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadEnvFile() error {
	path := strings.TrimSpace(os.Getenv("ENV_FILE"))
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			LoadedEnvFile = ""
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	LoadedEnvFile = path
	return nil
}

// ParseArgs parses CLI arguments using go-arg.
func ParseArgs(argv []string) (*model.Args, error) {
	var args model.Args
	p, err := NewParser(&args)
	if err != nil {
		return nil, err
	}
	if err := p.Parse(argv); err != nil {
		return nil, err
	}
	return &args, nil
}

// NewParser returns the go-arg parser for args; package main uses it to
// print help.
func NewParser(args *model.Args) (*arg.Parser, error) {
	return arg.NewParser(arg.Config{Program: "musicsave"}, args)
}

// FromArgs normalizes parsed arguments into a Config.
func FromArgs(args *model.Args) *model.Config {
	return &model.Config{
		BotToken:        strings.TrimSpace(args.BotToken),
		TelegramAPIURL:  trimURL(args.TelegramAPIURL),
		CatalogURL:      trimURL(args.CatalogURL),
		CatalogHost:     strings.ToLower(strings.TrimSpace(args.CatalogHost)),
		ListenAddr:      strings.TrimSpace(args.ListenAddr),
		WebhookURL:      strings.TrimSpace(args.WebhookURL),
		WebhookSecret:   strings.TrimSpace(args.WebhookSecret),
		DownloadTimeout: args.DownloadTimeout,
		APILogPath:      strings.TrimSpace(args.APILogPath),
		GotifyURL:       trimURL(args.GotifyURL),
		GotifyToken:     strings.TrimSpace(args.GotifyToken),
		Debug:           args.Debug,
		NoColor:         args.NoColor,
	}
}

func trimURL(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "/")
}

// Validate rejects configurations the bot cannot start with.
func Validate(cfg *model.Config) error {
	if cfg.BotToken == "" {
		return model.ErrMissingBotToken
	}
	if cfg.DownloadTimeout <= 0 {
		return fmt.Errorf("download timeout must be positive, got %s", cfg.DownloadTimeout)
	}
	if cfg.TelegramAPIURL == "" {
		return errors.New("telegram API URL must not be empty")
	}
	if cfg.CatalogURL == "" {
		return errors.New("catalog URL must not be empty")
	}
	if cfg.WebhookMode() {
		if !strings.HasPrefix(cfg.WebhookURL, "https://") {
			return fmt.Errorf("webhook URL must use https: %q", cfg.WebhookURL)
		}
		if cfg.ListenAddr == "" {
			return errors.New("webhook mode needs a listen address")
		}
	}
	if (cfg.GotifyURL == "") != (cfg.GotifyToken == "") {
		return errors.New("gotify URL and token must be set together")
	}
	return nil
}
