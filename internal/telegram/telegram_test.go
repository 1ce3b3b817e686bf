package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/cryptonews/internal/enrich"
	"github.com/deusflow/cryptonews/internal/news"
	"github.com/deusflow/cryptonews/internal/publish"
)

func TestFormatMessage(t *testing.T) {
	item := publish.Item{
		Record: news.Record{Title: "SEC <approves> Bitcoin ETF & more"},
		Annotation: &enrich.Annotation{
			Insight:  "Pension funds can now allocate without custody risk.",
			Context:  "Strong positive",
			Hashtags: []string{"#ETF", "#SEC"},
		},
	}

	msg := FormatMessage(item)
	want := "#ETF #SEC\n\n🚨 BREAKING NEWS\n\nSEC &lt;approves&gt; Bitcoin ETF &amp; more\n\n" +
		"◼️ <b>Alpha Take:</b>\nPension funds can now allocate without custody risk.\n\n" +
		"<i>Context: Strong positive</i>"
	assert.Equal(t, want, msg)
}

func TestFormatMessageWithoutAnnotation(t *testing.T) {
	msg := FormatMessage(publish.Item{Record: news.Record{Title: "Bitcoin hits record"}})
	assert.Equal(t, "🚨 BREAKING NEWS\n\nBitcoin hits record\n\n", msg)
}

func TestFormatMessageTruncates(t *testing.T) {
	long := strings.Repeat("word ", 100)
	msg := FormatMessage(publish.Item{
		Record:     news.Record{Title: long},
		Annotation: &enrich.Annotation{Insight: strings.Repeat("insight ", 200)},
	})

	assert.LessOrEqual(t, len([]rune(msg)), maxMessage)
	assert.True(t, strings.HasSuffix(msg, "..."))
	assert.Contains(t, msg, strings.Repeat("word ", 39)+"wo...")
}

func TestPublishChoosesMethod(t *testing.T) {
	var methods []string
	var payloads []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.URL.Path)
		var p map[string]any
		_ = json.NewDecoder(r.Body).Decode(&p)
		payloads = append(payloads, p)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New("TOKEN", "@chan").WithAPIBase(srv.URL)

	require.NoError(t, c.Publish(context.Background(), publish.Item{Record: news.Record{Title: "a", ImageURL: "https://img/x.jpg"}}))
	require.NoError(t, c.Publish(context.Background(), publish.Item{Record: news.Record{Title: "b"}}))

	assert.Equal(t, []string{"/botTOKEN/sendPhoto", "/botTOKEN/sendMessage"}, methods)
	assert.Equal(t, "https://img/x.jpg", payloads[0]["photo"])
	assert.Equal(t, "HTML", payloads[0]["parse_mode"])
	assert.Equal(t, "@chan", payloads[1]["chat_id"])
}

func TestPublishNon200IsFailure(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := New("T", "C").WithAPIBase(srv.URL).Publish(context.Background(), publish.Item{Record: news.Record{Title: "x"}})
	assert.ErrorContains(t, err, "status 400")
	assert.Equal(t, 1, calls, "no retries")
}
