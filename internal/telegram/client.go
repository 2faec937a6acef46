// Package telegram is a small Bot API client: outbound chat calls, long
// polling, webhook registration and conversion of wire updates into
// model.Update.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jmagar/musicsave-bot/internal/api"
	"github.com/jmagar/musicsave-bot/internal/model"
)

// DefaultAPIBase is the public Bot API endpoint.
const DefaultAPIBase = "https://api.telegram.org"

const (
	// Bot API allows about 30 messages per second per bot.
	sendRPS   = 25.0
	sendBurst = 30

	requestTimeout = 60 * time.Second
	maxReplyBytes  = 1 << 20
)

// APIError is an ok=false reply from the Bot API.
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s error %d: %s", e.Method, e.Code, e.Description)
}

// IsNotModified reports whether err is the harmless "message is not
// modified" reply to an edit that changes nothing.
func IsNotModified(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && strings.Contains(ae.Description, "message is not modified")
}

// Client calls the Bot API for one bot token. It implements bot.Transport.
type Client struct {
	apiBase string
	token   string
	gw      *api.Gateway
	upload  *api.Gateway
}

// NewClient returns a client for token. uploadTimeout bounds one sendAudio
// request, which streams the whole track; zero means no client-side limit.
func NewClient(apiBase, token string, uploadTimeout time.Duration) *Client {
	base := strings.TrimRight(strings.TrimSpace(apiBase), "/")
	if base == "" {
		base = DefaultAPIBase
	}
	c := &Client{apiBase: base, token: token}
	c.gw = api.NewGateway("telegram", &http.Client{Timeout: requestTimeout}, sendRPS, sendBurst)
	c.gw.Scrub = c.redact
	c.upload = c.gw.WithHTTP(&http.Client{Timeout: uploadTimeout})
	return c
}

// SetObserver reports every Bot API request to o.
func (c *Client) SetObserver(o api.RequestObserver) {
	c.gw.Observer = o
	c.upload.Observer = o
}

func (c *Client) apiURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.token, method)
}

// redact strips the bot token from transport errors, which quote the URL.
func (c *Client) redact(err error) error {
	var ue *url.Error
	if c.token != "" && errors.As(err, &ue) {
		ue.URL = strings.ReplaceAll(ue.URL, c.token, "<token>")
	}
	return err
}

// call POSTs payload as JSON to method and decodes the result into out
// (which may be nil).
func (c *Client) call(ctx context.Context, method string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := c.gw.Do(ctx, "telegram."+method, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL(method), bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, method, out)
}

func decode[T any](resp *http.Response, method string, out *T) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return fmt.Errorf("telegram %s: read reply: %w", method, err)
	}
	var r apiResponse[T]
	if err := json.Unmarshal(raw, &r); err != nil {
		return fmt.Errorf("telegram %s failed: %s", method, resp.Status)
	}
	if !r.OK {
		code := r.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return &APIError{Method: method, Code: code, Description: r.Description}
	}
	if out != nil {
		*out = r.Result
	}
	return nil
}

func markup(kb model.Keyboard) *InlineKeyboardMarkup {
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, InlineKeyboardButton{Text: b.Text, CallbackData: b.Data})
		}
		rows = append(rows, buttons)
	}
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}

func withMarkup(payload map[string]any, kb model.Keyboard) map[string]any {
	if m := markup(kb); m != nil {
		payload["reply_markup"] = m
	}
	return payload
}

func sendErr(method string, err error) error {
	if err == nil {
		return nil
	}
	return &model.SendError{Method: method, Err: err}
}

// SendText sends a text message and returns its id.
func (c *Client) SendText(ctx context.Context, chatID int64, text string, kb model.Keyboard) (int, error) {
	var msg *Message
	err := c.call(ctx, "sendMessage", withMarkup(map[string]any{
		"chat_id": chatID,
		"text":    text,
	}, kb), &msg)
	if err != nil {
		return 0, sendErr("sendMessage", err)
	}
	return messageID(msg), nil
}

// EditText replaces the text and keyboard of a message.
func (c *Client) EditText(ctx context.Context, chatID int64, messageID int, text string, kb model.Keyboard) error {
	err := c.call(ctx, "editMessageText", withMarkup(map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}, kb), nil)
	if IsNotModified(err) {
		return nil
	}
	return sendErr("editMessageText", err)
}

// EditCaption replaces the caption and keyboard of a media message.
func (c *Client) EditCaption(ctx context.Context, chatID int64, messageID int, caption string, kb model.Keyboard) error {
	err := c.call(ctx, "editMessageCaption", withMarkup(map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"caption":    caption,
	}, kb), nil)
	if IsNotModified(err) {
		return nil
	}
	return sendErr("editMessageCaption", err)
}

// SendPhoto sends a picture by URL with a caption and returns the message id.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, kb model.Keyboard) (int, error) {
	var msg *Message
	err := c.call(ctx, "sendPhoto", withMarkup(map[string]any{
		"chat_id": chatID,
		"photo":   photoURL,
		"caption": caption,
	}, kb), &msg)
	if err != nil {
		return 0, sendErr("sendPhoto", err)
	}
	return messageID(msg), nil
}

// DeleteMessage removes a message.
func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if messageID == 0 {
		return nil
	}
	return sendErr("deleteMessage", c.call(ctx, "deleteMessage", map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
	}, nil))
}

// AckCallback answers a callback query so the client stops its spinner.
func (c *Client) AckCallback(ctx context.Context, callbackID string) error {
	if callbackID == "" {
		return nil
	}
	return sendErr("answerCallbackQuery", c.call(ctx, "answerCallbackQuery", map[string]any{
		"callback_query_id": callbackID,
	}, nil))
}

// SendAudio uploads audio as a multipart form. The body is streamed through
// a pipe, so audio is read while the request is in flight.
func (c *Client) SendAudio(ctx context.Context, chatID int64, audio io.Reader, filename, caption string) error {
	pr, pw := io.Pipe()
	defer pr.Close()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeAudioForm(mw, chatID, audio, filename, caption))
	}()

	resp, err := c.upload.Do(ctx, "telegram.sendAudio", func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL("sendAudio"), pr)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req, nil
	})
	if err != nil {
		return sendErr("sendAudio", err)
	}
	defer resp.Body.Close()
	var msg *Message
	return sendErr("sendAudio", decode(resp, "sendAudio", &msg))
}

func writeAudioForm(mw *multipart.Writer, chatID int64, audio io.Reader, filename, caption string) error {
	if err := mw.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return err
	}
	if caption != "" {
		if err := mw.WriteField("caption", caption); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile("audio", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return err
	}
	return mw.Close()
}

func messageID(m *Message) int {
	if m == nil {
		return 0
	}
	return m.MessageID
}
