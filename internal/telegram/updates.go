package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// allowedUpdates limits deliveries to what the bot handles.
var allowedUpdates = []string{"message", "callback_query"}

// GetUpdates long-polls for updates starting at offset. timeout is in
// seconds; the HTTP client deadline is kept above it.
func (c *Client) GetUpdates(ctx context.Context, offset, timeout int) ([]Update, error) {
	allowed, _ := json.Marshal(allowedUpdates)
	q := url.Values{}
	q.Set("timeout", strconv.Itoa(timeout))
	q.Set("allowed_updates", string(allowed))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	endpoint := c.apiURL("getUpdates") + "?" + q.Encode()

	gw := c.gw
	if need := time.Duration(timeout+10) * time.Second; gw.HTTP.Timeout != 0 && gw.HTTP.Timeout < need {
		gw = gw.WithHTTP(&http.Client{Timeout: need, Transport: gw.HTTP.Transport})
	}
	resp, err := gw.Do(ctx, "telegram.getUpdates", func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var updates []Update
	if err := decode(resp, "getUpdates", &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SetWebhook registers url for update delivery and drops updates queued
// while the bot was offline. secret, when set, is echoed by Telegram in the
// X-Telegram-Bot-Api-Secret-Token header.
func (c *Client) SetWebhook(ctx context.Context, webhookURL, secret string) error {
	payload := map[string]any{
		"url":                  webhookURL,
		"allowed_updates":      allowedUpdates,
		"drop_pending_updates": true,
	}
	if secret != "" {
		payload["secret_token"] = secret
	}
	if err := c.call(ctx, "setWebhook", payload, nil); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}

// DeleteWebhook switches the bot back to getUpdates delivery.
func (c *Client) DeleteWebhook(ctx context.Context, dropPending bool) error {
	if err := c.call(ctx, "deleteWebhook", map[string]any{
		"drop_pending_updates": dropPending,
	}, nil); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	return nil
}

// WebhookInfo reports the current webhook registration.
func (c *Client) WebhookInfo(ctx context.Context) (WebhookInfo, error) {
	var info WebhookInfo
	if err := c.call(ctx, "getWebhookInfo", map[string]any{}, &info); err != nil {
		return WebhookInfo{}, fmt.Errorf("get webhook info: %w", err)
	}
	return info, nil
}
