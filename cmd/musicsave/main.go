// Command musicsave runs the Telegram music search and download bot.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"
	"github.com/jmagar/musicsave-bot/internal/api"
	"github.com/jmagar/musicsave-bot/internal/bot"
	"github.com/jmagar/musicsave-bot/internal/cache"
	"github.com/jmagar/musicsave-bot/internal/config"
	"github.com/jmagar/musicsave-bot/internal/download"
	"github.com/jmagar/musicsave-bot/internal/metrics"
	"github.com/jmagar/musicsave-bot/internal/model"
	"github.com/jmagar/musicsave-bot/internal/notify"
	"github.com/jmagar/musicsave-bot/internal/server"
	"github.com/jmagar/musicsave-bot/internal/telegram"
	"github.com/jmagar/musicsave-bot/internal/ui"
)

func description() string {
	return "Telegram bot that searches a music catalog by artist or album and sends tracks to the chat.\n" +
		"Every flag can also be set through the environment or a .env file (ENV_FILE overrides the path)."
}

func main() {
	model.ArgsDescriptionFunc = description
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, arg.ErrHelp) {
		printHelp()
		return
	}
	if err != nil {
		ui.Fatal("Failed to load configuration: " + err.Error())
	}

	ui.InitColorPalette(cfg.NoColor)
	ui.SetDebug(cfg.Debug)
	if config.LoadedEnvFile != "" {
		ui.Debugf("loaded environment from %s", config.LoadedEnvFile)
	}
	if cfg.APILogPath != "" {
		if err := api.InitAPILogger(cfg.APILogPath); err != nil {
			ui.Fatal("Failed to open API log: " + err.Error())
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(cfg).run(ctx); err != nil {
		ui.Fatal(err.Error())
	}
	ui.PrintSuccess("Shut down cleanly")
}

func printHelp() {
	var args model.Args
	p, err := config.NewParser(&args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	p.WriteHelp(os.Stdout)
}

// app is the wired process: one bot, its transports and the optional HTTP
// surface.
type app struct {
	cfg      *model.Config
	tg       *telegram.Client
	poller   *telegram.Poller
	metrics  *metrics.Metrics
	bot      *bot.Bot
	notifier notify.NotifyFunc
}

func newApp(cfg *model.Config) *app {
	m := metrics.New()

	catalog := cache.NewCatalog(api.NewClient(cfg.CatalogURL, nil), cache.DefaultArtistTTL)
	catalog.Gateway.Observer = m

	tg := telegram.NewClient(cfg.TelegramAPIURL, cfg.BotToken, cfg.DownloadTimeout)
	tg.SetObserver(m)

	notifier := notify.BuildNotifier(cfg.GotifyURL, cfg.GotifyToken)
	b := bot.New(bot.Deps{
		Transport:   tg,
		Catalog:     catalog,
		Fetcher:     download.NewDownloader(cfg.DownloadTimeout),
		CatalogHost: cfg.CatalogHost,
		Metrics:     m,
		Notify:      notifier,
	})
	return &app{
		cfg:      cfg,
		tg:       tg,
		poller:   telegram.NewPoller(tg, b),
		metrics:  m,
		bot:      b,
		notifier: notifier,
	}
}

// httpServer returns the webhook/health/metrics server, or nil when no
// listen address is configured.
func (a *app) httpServer(ctx context.Context) *server.Server {
	if a.cfg.ListenAddr == "" {
		return nil
	}
	opts := server.Options{
		Gatherer:    a.metrics.Registry,
		BaseContext: ctx,
	}
	if a.cfg.WebhookMode() {
		opts.Dispatcher = a.poller
		opts.Secret = a.cfg.WebhookSecret
	}
	return server.New(opts)
}

func (a *app) run(ctx context.Context) error {
	srv := a.httpServer(ctx)

	if a.cfg.WebhookMode() {
		if err := a.registerWebhook(ctx); err != nil {
			return err
		}
		err := srv.Run(ctx, a.cfg.ListenAddr)
		a.poller.Wait()
		return err
	}

	var errc <-chan error
	if srv != nil {
		errc = a.serveSide(ctx, srv)
	}
	ui.PrintInfo("Receiving updates by long polling")
	if err := a.poller.Run(ctx); err != nil {
		a.alert(ctx, "musicsave failed to start polling", err.Error())
		return err
	}
	if errc != nil {
		return <-errc
	}
	return nil
}

// registerWebhook points Telegram at the webhook URL and logs what the Bot
// API reports about the registration.
func (a *app) registerWebhook(ctx context.Context) error {
	if err := a.tg.SetWebhook(ctx, a.cfg.WebhookURL, a.cfg.WebhookSecret); err != nil {
		return err
	}
	ui.PrintInfo("Receiving updates by webhook at " + a.cfg.WebhookURL)
	info, err := a.tg.WebhookInfo(ctx)
	if err != nil {
		ui.Warnf("could not read webhook status: %v", err)
		return nil
	}
	ui.Infof("webhook registered: %d pending updates", info.PendingUpdateCount)
	if info.LastErrorMessage != "" {
		ui.Warnf("last webhook delivery error: %s", info.LastErrorMessage)
	}
	return nil
}

// serveSide runs the health/metrics server next to the poller. A failure is
// reported as soon as it happens; polling carries on without the server.
func (a *app) serveSide(ctx context.Context, srv *server.Server) <-chan error {
	errc := make(chan error, 1)
	go func() {
		err := srv.Run(ctx, a.cfg.ListenAddr)
		if err != nil {
			ui.Errorf("HTTP server on %s stopped: %v", a.cfg.ListenAddr, err)
			a.alert(ctx, "musicsave health server down", err.Error())
		}
		errc <- err
	}()
	return errc
}

func (a *app) alert(ctx context.Context, title, msg string) {
	if a.notifier == nil {
		return
	}
	if err := a.notifier(ctx, title, msg, notify.PriorityError); err != nil {
		ui.Debugf("alert not sent: %v", err)
	}
}
