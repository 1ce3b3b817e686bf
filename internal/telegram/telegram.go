package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/deusflow/cryptonews/internal/logger"
	"github.com/deusflow/cryptonews/internal/publish"
)

const (
	defaultAPIBase = "https://api.telegram.org"
	header         = "🚨 BREAKING NEWS"
	maxTitle       = 200
	maxMessage     = 1024
)

// Client posts selected records to a Telegram channel. It sends one request
// per item and never retries.
type Client struct {
	token   string
	chatID  string
	apiBase string
	http    *http.Client
}

func New(token, chatID string) *Client {
	return &Client{
		token:   token,
		chatID:  chatID,
		apiBase: defaultAPIBase,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// WithAPIBase points the client at another Bot API host.
func (c *Client) WithAPIBase(base string) *Client {
	c.apiBase = strings.TrimRight(base, "/")
	return c
}

func (c *Client) Name() string { return "telegram" }

// Publish sends a photo with caption when the record has an image URL,
// otherwise a text message.
func (c *Client) Publish(ctx context.Context, item publish.Item) error {
	msg := FormatMessage(item)

	if img := strings.TrimSpace(item.Record.ImageURL); img != "" {
		return c.call(ctx, "sendPhoto", map[string]any{
			"chat_id":    c.chatID,
			"photo":      img,
			"caption":    msg,
			"parse_mode": "HTML",
		})
	}

	return c.call(ctx, "sendMessage", map[string]any{
		"chat_id":                  c.chatID,
		"text":                     msg,
		"parse_mode":               "HTML",
		"disable_web_page_preview": false,
	})
}

func (c *Client) call(ctx context.Context, method string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error make JSON: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error HTTP request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logger.Warn("failed to close response body", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: status %d", resp.StatusCode)
	}
	return nil
}

// FormatMessage renders the HTML post: hashtags, header, title, Alpha Take
// and context, capped at the caption limit.
func FormatMessage(item publish.Item) string {
	title := html.EscapeString(item.Record.Title)
	if runeLen(title) > maxTitle {
		title = string([]rune(title)[:maxTitle-3]) + "..."
	}

	var b strings.Builder
	a := item.Annotation
	if a != nil && len(a.Hashtags) > 0 {
		b.WriteString(strings.Join(a.Hashtags, " "))
		b.WriteString("\n\n")
	}

	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(title)
	b.WriteString("\n\n")

	if a != nil {
		if a.Insight != "" {
			fmt.Fprintf(&b, "◼️ <b>Alpha Take:</b>\n%s\n\n", html.EscapeString(a.Insight))
		}
		if a.Context != "" {
			fmt.Fprintf(&b, "<i>Context: %s</i>", html.EscapeString(a.Context))
		}
	}

	return truncateMessage(b.String())
}

func truncateMessage(msg string) string {
	runes := []rune(msg)
	if len(runes) <= maxMessage {
		return msg
	}
	cut := string(runes[:maxMessage-4])
	if i := strings.LastIndex(cut, " "); i >= 0 && runeLen(cut[:i]) > 900 {
		cut = cut[:i] + "..."
	}
	return cut
}

func runeLen(s string) int { return len([]rune(s)) }
