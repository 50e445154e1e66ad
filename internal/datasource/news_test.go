package datasource

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func rssFeed(title string, entries ...string) string {
	items := ""
	for _, e := range entries {
		items += e
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>%s</title>%s</channel></rss>`, title, items)
}

func rssItem(title, link string, published time.Time) string {
	return fmt.Sprintf(`<item><title>%s</title><link>%s</link><pubDate>%s</pubDate></item>`,
		title, link, published.Format(time.RFC1123Z))
}

func rssItemNoDate(title, link string) string {
	return fmt.Sprintf(`<item><title>%s</title><link>%s</link></item>`, title, link)
}

func serveRSS(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}))
}

func TestCollectWithinWindow(t *testing.T) {
	now := time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)

	srv := serveRSS(t, rssFeed("World News",
		rssItem("Fresh story", "https://example.com/1", now.Add(-2*time.Hour)),
		rssItem("Stale story", "https://example.com/2", now.Add(-30*time.Hour)),
		rssItem("Future story", "https://example.com/3", now.Add(2*time.Hour)),
	))
	defer srv.Close()

	c := NewFeedCollector(WithClock(func() time.Time { return now }))
	items := c.Collect(context.Background(), []string{srv.URL}, 24*time.Hour)

	if len(items) != 1 {
		t.Fatalf("Collect: got %d items, want 1", len(items))
	}
	if items[0].Title != "Fresh story" {
		t.Errorf("title: got %q, want %q", items[0].Title, "Fresh story")
	}
	if items[0].Source != "World News" {
		t.Errorf("source: got %q, want %q", items[0].Source, "World News")
	}
}

func TestCollectSkipsFailedSource(t *testing.T) {
	now := time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer broken.Close()

	healthy := serveRSS(t, rssFeed("Gaming Wire",
		rssItem("Patch notes", "https://example.com/a", now.Add(-time.Hour)),
		rssItem("Studio layoffs", "https://example.com/b", now.Add(-3*time.Hour)),
	))
	defer healthy.Close()

	c := NewFeedCollector(WithClock(func() time.Time { return now }))
	items := c.Collect(context.Background(), []string{broken.URL, healthy.URL}, 24*time.Hour)

	if len(items) != 2 {
		t.Fatalf("Collect: got %d items, want 2", len(items))
	}
	// Source order preserved: only the healthy source contributed.
	if items[0].Title != "Patch notes" || items[1].Title != "Studio layoffs" {
		t.Errorf("entry order: got [%q, %q]", items[0].Title, items[1].Title)
	}
}

func TestCollectPreservesSourceOrder(t *testing.T) {
	now := time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)

	first := serveRSS(t, rssFeed("First",
		rssItem("A1", "https://example.com/a1", now.Add(-time.Hour))))
	defer first.Close()
	second := serveRSS(t, rssFeed("Second",
		rssItem("B1", "https://example.com/b1", now.Add(-time.Minute))))
	defer second.Close()

	c := NewFeedCollector(WithClock(func() time.Time { return now }))
	items := c.Collect(context.Background(), []string{first.URL, second.URL}, 24*time.Hour)

	if len(items) != 2 {
		t.Fatalf("Collect: got %d items, want 2", len(items))
	}
	// No re-sorting by recency: configured source order wins.
	if items[0].Source != "First" || items[1].Source != "Second" {
		t.Errorf("source order: got [%q, %q]", items[0].Source, items[1].Source)
	}
}

func TestCollectUndatedPolicy(t *testing.T) {
	now := time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)
	feed := rssFeed("Mixed",
		rssItem("Dated", "https://example.com/d", now.Add(-time.Hour)),
		rssItemNoDate("Undated", "https://example.com/u"),
	)

	t.Run("drop by default", func(t *testing.T) {
		srv := serveRSS(t, feed)
		defer srv.Close()

		c := NewFeedCollector(WithClock(func() time.Time { return now }))
		items := c.Collect(context.Background(), []string{srv.URL}, 24*time.Hour)
		if len(items) != 1 {
			t.Fatalf("got %d items, want 1", len(items))
		}
		if items[0].Title != "Dated" {
			t.Errorf("title: got %q", items[0].Title)
		}
	})

	t.Run("include as now when configured", func(t *testing.T) {
		srv := serveRSS(t, feed)
		defer srv.Close()

		c := NewFeedCollector(
			WithClock(func() time.Time { return now }),
			WithIncludeUndated(true),
		)
		items := c.Collect(context.Background(), []string{srv.URL}, 24*time.Hour)
		if len(items) != 2 {
			t.Fatalf("got %d items, want 2", len(items))
		}
		if !items[1].PublishedAt.Equal(now) {
			t.Errorf("undated PublishedAt: got %v, want %v", items[1].PublishedAt, now)
		}
	})
}

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain title", "plain title"},
		{"<b>bold</b> move", "bold move"},
		{"A &amp; B", "A & B"},
		{"  padded  ", "padded"},
	}
	for _, tt := range tests {
		if got := cleanHTML(tt.in); got != tt.want {
			t.Errorf("cleanHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
