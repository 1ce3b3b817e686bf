package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/cryptonews/internal/enrich"
	"github.com/deusflow/cryptonews/internal/news"
	"github.com/deusflow/cryptonews/internal/publish"
)

func TestFormatTweet(t *testing.T) {
	tests := []struct {
		name string
		item publish.Item
		want string
	}{
		{
			name: "title only",
			item: publish.Item{Record: news.Record{Title: "SEC approves Bitcoin ETF"}},
			want: "🚨 SEC approves Bitcoin ETF",
		},
		{
			name: "short alpha take",
			item: publish.Item{
				Record:     news.Record{Title: "SEC approves Bitcoin ETF"},
				Annotation: &enrich.Annotation{Insight: "Opens the door for pension money."},
			},
			want: "🚨 SEC approves Bitcoin ETF\n\n💡 Opens the door for pension money.",
		},
		{
			name: "long alpha take dropped",
			item: publish.Item{
				Record:     news.Record{Title: "SEC approves Bitcoin ETF"},
				Annotation: &enrich.Annotation{Insight: strings.Repeat("a", 101)},
			},
			want: "🚨 SEC approves Bitcoin ETF",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTweet(tt.item))
		})
	}
}

func TestFormatTweetTruncatesTitle(t *testing.T) {
	title := strings.Repeat("é", 300)

	tweet := FormatTweet(publish.Item{Record: news.Record{Title: title}})
	assert.Equal(t, "🚨 "+strings.Repeat("é", 274)+"...", tweet)
	assert.LessOrEqual(t, runeLen(tweet), maxTweet)

	alpha := "Short take on it"
	tweet = FormatTweet(publish.Item{
		Record:     news.Record{Title: title},
		Annotation: &enrich.Annotation{Insight: alpha},
	})
	assert.True(t, strings.HasSuffix(tweet, "...\n\n💡 "+alpha))
	assert.LessOrEqual(t, runeLen(tweet), maxTweet)
}

func TestPublishSignsAndPosts(t *testing.T) {
	var got struct {
		path, auth string
		body       map[string]string
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got.body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1790","text":"ok"}}`))
	}))
	defer srv.Close()

	c := New("consumer-key", "consumer-secret", "access-token", "access-secret").WithAPIBase(srv.URL)
	err := c.Publish(context.Background(), publish.Item{Record: news.Record{Title: "Bitcoin hits record"}})
	require.NoError(t, err)

	assert.Equal(t, "/2/tweets", got.path)
	assert.True(t, strings.HasPrefix(got.auth, "OAuth "))
	assert.Contains(t, got.auth, `oauth_consumer_key="consumer-key"`)
	assert.Contains(t, got.auth, `oauth_token="access-token"`)
	assert.Equal(t, "🚨 Bitcoin hits record", got.body["text"])
}

func TestPublishFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"rejected", http.StatusForbidden, `{"title":"Forbidden"}`},
		{"no tweet id", http.StatusOK, `{"errors":[{"message":"duplicate"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New("k", "s", "t", "ts").WithAPIBase(srv.URL)
			err := c.Publish(context.Background(), publish.Item{Record: news.Record{Title: "x"}})
			assert.Error(t, err)
			assert.EqualValues(t, 1, calls.Load(), "no retries")
		})
	}
}
