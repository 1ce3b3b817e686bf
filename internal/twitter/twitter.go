// Package twitter posts selected records as tweets through the v2 API,
// signed with OAuth 1.0a user credentials.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"github.com/deusflow/cryptonews/internal/logger"
	"github.com/deusflow/cryptonews/internal/publish"
)

const (
	defaultAPIBase = "https://api.twitter.com"
	header         = "🚨"
	maxTweet       = 280
	maxAlphaTake   = 100
)

// Client tweets one post per item and never retries.
type Client struct {
	apiBase string
	http    *http.Client
}

func New(apiKey, apiSecret, accessToken, accessSecret string) *Client {
	cfg := oauth1.NewConfig(apiKey, apiSecret)
	httpClient := cfg.Client(context.Background(), oauth1.NewToken(accessToken, accessSecret))
	httpClient.Timeout = 30 * time.Second

	return &Client{
		apiBase: defaultAPIBase,
		http:    httpClient,
	}
}

// WithAPIBase points the client at another API host.
func (c *Client) WithAPIBase(base string) *Client {
	c.apiBase = strings.TrimRight(base, "/")
	return c
}

func (c *Client) Name() string { return "twitter" }

type tweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Publish creates a tweet. A 2xx answer without a tweet id is a failure.
func (c *Client) Publish(ctx context.Context, item publish.Item) error {
	body, err := json.Marshal(map[string]string{"text": FormatTweet(item)})
	if err != nil {
		return fmt.Errorf("error make JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/2/tweets", bytes.NewReader(body))
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

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("twitter API error: status %d", resp.StatusCode)
	}

	var tr tweetResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil || tr.Data.ID == "" {
		return fmt.Errorf("twitter API error: no tweet in response")
	}
	return nil
}

// FormatTweet renders "🚨 <title>" followed by the Alpha Take when it is
// short enough. An overlong title is cut so the tweet fits 280 characters.
func FormatTweet(item publish.Item) string {
	title := item.Record.Title

	alpha := ""
	if a := item.Annotation; a != nil && a.Insight != "" && runeLen(a.Insight) <= maxAlphaTake {
		alpha = "\n\n💡 " + a.Insight
	}

	tweet := header + " " + title + alpha
	if runeLen(tweet) <= maxTweet {
		return tweet
	}

	available := maxTweet - runeLen(header) - runeLen(alpha) - 5
	if r := []rune(title); len(r) > available {
		title = string(r[:available])
	}
	return header + " " + title + "..." + alpha
}

func runeLen(s string) int { return len([]rune(s)) }
