// Package server is the bot's HTTP surface: Telegram webhook delivery,
// a health probe and Prometheus metrics.
package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/jmagar/musicsave-bot/internal/telegram"
	"github.com/jmagar/musicsave-bot/internal/ui"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SecretHeader carries the webhook secret token on Telegram deliveries.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// Dispatcher receives decoded webhook updates. telegram.Poller satisfies
// it, so polling and webhook delivery share one dispatch path.
type Dispatcher interface {
	Dispatch(ctx context.Context, u telegram.Update)
}

// Options configures New.
type Options struct {
	// Dispatcher enables POST /webhook when set.
	Dispatcher Dispatcher
	// Secret, when set, must match SecretHeader on every webhook request.
	Secret string
	// Gatherer backs GET /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// BaseContext is passed to dispatched handlers. It outlives the HTTP
	// request, which is answered before the update is processed.
	BaseContext context.Context
}

// Server wraps an echo instance.
type Server struct {
	Echo *echo.Echo
	opts Options
}

// New builds the routes.
func New(opts Options) *Server {
	if opts.BaseContext == nil {
		opts.BaseContext = context.Background()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		}
		req := c.Request()
		if code >= 500 {
			ui.Errorf("HTTP %d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		} else {
			ui.Debugf("HTTP %d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		}
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]string{"error": msg})
		}
	}

	s := &Server{Echo: e, opts: opts}
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	if opts.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	if opts.Dispatcher != nil {
		e.POST("/webhook", s.webhook)
	}
	return s
}

func (s *Server) webhook(c echo.Context) error {
	if s.opts.Secret != "" {
		got := c.Request().Header.Get(SecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.opts.Secret)) != 1 {
			return echo.NewHTTPError(http.StatusUnauthorized, "bad secret token")
		}
	}
	var u telegram.Update
	if err := c.Bind(&u); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid update")
	}
	// Telegram redelivers until it gets a 2xx, so answer before handling.
	s.opts.Dispatcher.Dispatch(s.opts.BaseContext, u)
	return c.NoContent(http.StatusOK)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() {
		ui.PrintInfo("HTTP server listening on " + addr)
		errc <- s.Echo.Start(addr)
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Echo.Shutdown(shutdownCtx)
	}
}
