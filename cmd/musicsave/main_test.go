package main

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jmagar/musicsave-bot/internal/api"
	"github.com/jmagar/musicsave-bot/internal/model"
	"github.com/jmagar/musicsave-bot/internal/server"
	"github.com/jmagar/musicsave-bot/internal/testutil"
)

type botAPI struct {
	mu      sync.Mutex
	methods []string
	texts   []string
}

func (b *botAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	_ = json.NewDecoder(r.Body).Decode(&payload)
	b.mu.Lock()
	b.methods = append(b.methods, r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:])
	if text, ok := payload["text"].(string); ok {
		b.texts = append(b.texts, text)
	}
	b.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	if strings.HasSuffix(r.URL.Path, "/getWebhookInfo") {
		_, _ = io.WriteString(w, `{"ok":true,"result":{"url":"https://bot.example/webhook","pending_update_count":0,"last_error_message":"Connection refused"}}`)
		return
	}
	_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":1,"chat":{"id":42}}}`)
}

func testConfig(tgURL string) *model.Config {
	return &model.Config{
		BotToken:        "1:abc",
		TelegramAPIURL:  tgURL,
		CatalogURL:      "http://127.0.0.1:1",
		CatalogHost:     "spotify.com",
		ListenAddr:      "127.0.0.1:0",
		WebhookURL:      "https://bot.example/webhook",
		WebhookSecret:   "s3cret",
		DownloadTimeout: time.Minute,
	}
}

func TestWebhookUpdateReachesBot(t *testing.T) {
	testutil.CaptureLog(t)
	api.SetAPILogWriter(nil)
	tg := &botAPI{}
	tgSrv := httptest.NewServer(tg)
	defer tgSrv.Close()

	a := newApp(testConfig(tgSrv.URL))
	srv := a.httpServer(context.Background())
	if srv == nil {
		t.Fatal("no HTTP server in webhook mode")
	}

	body := `{"update_id":1,"message":{"message_id":5,"chat":{"id":42},"text":"/start"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(server.SecretHeader, "s3cret")
	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("webhook status = %d", rec.Code)
	}
	a.poller.Wait()

	tg.mu.Lock()
	defer tg.mu.Unlock()
	if len(tg.methods) != 1 || tg.methods[0] != "sendMessage" {
		t.Fatalf("bot API calls = %v", tg.methods)
	}
	if tg.texts[0] != "Choose a search type:" {
		t.Fatalf("reply = %q", tg.texts[0])
	}
}

func TestNoHTTPServerWithoutListenAddr(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.WebhookURL = ""
	cfg.ListenAddr = ""
	if newApp(cfg).httpServer(context.Background()) != nil {
		t.Fatal("expected no server")
	}
}

func TestDescriptionMentionsEnvFile(t *testing.T) {
	if !strings.Contains(description(), "ENV_FILE") {
		t.Fatal("help preamble does not mention ENV_FILE")
	}
}

func TestRegisterWebhookLogsStatus(t *testing.T) {
	log := testutil.CaptureLog(t)
	api.SetAPILogWriter(nil)
	tg := &botAPI{}
	tgSrv := httptest.NewServer(tg)
	defer tgSrv.Close()

	if err := newApp(testConfig(tgSrv.URL)).registerWebhook(context.Background()); err != nil {
		t.Fatalf("registerWebhook: %v", err)
	}
	tg.mu.Lock()
	methods := append([]string(nil), tg.methods...)
	tg.mu.Unlock()
	if len(methods) != 2 || methods[0] != "setWebhook" || methods[1] != "getWebhookInfo" {
		t.Fatalf("bot API calls = %v", methods)
	}
	out := log.String()
	if !strings.Contains(out, "0 pending updates") || !strings.Contains(out, "Connection refused") {
		t.Fatalf("log = %q", out)
	}
}

func TestSideServerFailureIsReportedImmediately(t *testing.T) {
	log := testutil.CaptureLog(t)
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()

	cfg := testConfig("http://127.0.0.1:1")
	cfg.WebhookURL = ""
	cfg.ListenAddr = busy.Addr().String()
	a := newApp(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	select {
	case err := <-a.serveSide(ctx, a.httpServer(ctx)):
		if err == nil {
			t.Fatal("expected listen error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server failure not reported")
	}
	if !strings.Contains(log.String(), "HTTP server on "+cfg.ListenAddr+" stopped") {
		t.Fatalf("log = %q", log.String())
	}
}
