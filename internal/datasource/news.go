package datasource

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/minsukang/dailybrief/pkg/models"
)

// FeedCollector fetches and normalizes entries from a set of RSS/Atom feeds.
type FeedCollector struct {
	parser  *gofeed.Parser
	limiter *RateLimiter

	// includeUndated controls entries missing both date fields:
	// true treats them as published at collection time, false drops them.
	includeUndated bool

	now func() time.Time // injectable clock for tests
}

// FeedOption configures a FeedCollector.
type FeedOption func(*FeedCollector)

// WithIncludeUndated sets the policy for entries without a resolvable date.
func WithIncludeUndated(include bool) FeedOption {
	return func(c *FeedCollector) { c.includeUndated = include }
}

// WithClock overrides the collector's notion of now.
func WithClock(now func() time.Time) FeedOption {
	return func(c *FeedCollector) { c.now = now }
}

// NewFeedCollector creates a feed collector.
func NewFeedCollector(opts ...FeedOption) *FeedCollector {
	c := &FeedCollector{
		parser:  gofeed.NewParser(),
		limiter: NewRateLimiter(2, time.Second), // conservative: 2 req/s
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect fetches every feed URL and returns the entries whose resolved
// publish time falls within [now - window, now]. Sources are fetched
// concurrently but results keep source order, then feed-entry order.
// A fetch or parse failure for one source is logged and skipped; it never
// aborts collection from the remaining sources.
func (c *FeedCollector) Collect(ctx context.Context, urls []string, window time.Duration) []models.NewsItem {
	now := c.now()
	since := now.Add(-window)

	perSource := make([][]models.NewsItem, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, feedURL := range urls {
		i, feedURL := i, feedURL
		g.Go(func() error {
			items, err := c.fetchFeed(gctx, feedURL, since, now)
			if err != nil {
				log.Printf("warn: feed %s skipped: %v", feedURL, err)
				return nil
			}
			perSource[i] = items
			return nil
		})
	}
	g.Wait() //nolint:errcheck // goroutines never return errors

	var all []models.NewsItem
	for _, items := range perSource {
		all = append(all, items...)
	}
	return all
}

// fetchFeed parses one feed and normalizes its entries.
func (c *FeedCollector) fetchFeed(ctx context.Context, feedURL string, since, now time.Time) ([]models.NewsItem, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	source := feed.Title
	if source == "" {
		source = hostOf(feedURL)
	}

	items := make([]models.NewsItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		published, ok := resolveDate(entry, c.includeUndated, now)
		if !ok {
			continue
		}
		if published.Before(since) || published.After(now) {
			continue
		}
		items = append(items, models.NewsItem{
			Source:      source,
			Title:       cleanHTML(entry.Title),
			Link:        entry.Link,
			PublishedAt: published,
		})
	}
	return items, nil
}

// resolveDate tries the entry's date fields in a fixed order:
// published, then updated, then the configured no-date policy.
func resolveDate(entry *gofeed.Item, includeUndated bool, now time.Time) (time.Time, bool) {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed, true
	}
	if entry.UpdatedParsed != nil {
		return *entry.UpdatedParsed, true
	}
	if includeUndated {
		return now, true
	}
	return time.Time{}, false
}

// cleanHTML strips HTML tags from a string using goquery. Some feeds
// embed markup inside titles.
func cleanHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

// hostOf returns the host part of a URL, for use as a fallback source name.
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}
