package model

import "time"

// Config holds the resolved runtime configuration.
type Config struct {
	BotToken        string
	TelegramAPIURL  string
	CatalogURL      string
	CatalogHost     string
	ListenAddr      string
	WebhookURL      string
	WebhookSecret   string
	DownloadTimeout time.Duration
	APILogPath      string
	GotifyURL       string
	GotifyToken     string
	Debug           bool
	NoColor         bool
}

// WebhookMode reports whether updates arrive by webhook instead of long polling.
func (c *Config) WebhookMode() bool {
	return c.WebhookURL != ""
}

// ArgsDescriptionFunc is set by package main to provide the help preamble.
// If nil, Description() returns an empty string (go-arg will use default help).
var ArgsDescriptionFunc func() string

// Args holds CLI arguments parsed by go-arg. Every flag falls back to an
// environment variable, which may itself come from a .env file.
type Args struct {
	BotToken        string        `arg:"--bot-token,env:BOT_TOKEN" help:"Telegram bot token (required)."`
	TelegramAPIURL  string        `arg:"--telegram-api,env:TELEGRAM_API_URL" default:"https://api.telegram.org" help:"Bot API base URL."`
	CatalogURL      string        `arg:"--catalog-url,env:CATALOG_API_URL" default:"http://127.0.0.1:8081" help:"Music catalog API base URL."`
	CatalogHost     string        `arg:"--catalog-host,env:CATALOG_HOST" default:"spotify.com" help:"Host substring identifying catalog track page URLs."`
	ListenAddr      string        `arg:"--listen,env:LISTEN_ADDR" default:":8080" help:"Address for the webhook, health and metrics server. Empty disables it in polling mode."`
	WebhookURL      string        `arg:"--webhook-url,env:WEBHOOK_URL" help:"Public URL for webhook delivery. Long polling is used when empty."`
	WebhookSecret   string        `arg:"--webhook-secret,env:WEBHOOK_SECRET" help:"Secret token Telegram echoes on webhook requests."`
	DownloadTimeout time.Duration `arg:"--download-timeout,env:DOWNLOAD_TIMEOUT" default:"30m" help:"Overall timeout for one track download."`
	APILogPath      string        `arg:"--api-log,env:API_LOG_PATH" help:"Write one JSON line per outbound API request to this file."`
	GotifyURL       string        `arg:"--gotify-url,env:GOTIFY_URL" help:"Gotify server for operator alerts."`
	GotifyToken     string        `arg:"--gotify-token,env:GOTIFY_TOKEN" help:"Gotify application token."`
	Debug           bool          `arg:"--debug,env:DEBUG" help:"Verbose logging."`
	NoColor         bool          `arg:"--no-color,env:NO_COLOR" help:"Disable coloured log output."`
}

// Description provides custom help text for go-arg.
func (Args) Description() string {
	if ArgsDescriptionFunc != nil {
		return ArgsDescriptionFunc()
	}
	return ""
}
