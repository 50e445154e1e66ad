package briefing

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/minsukang/dailybrief/internal/llm"
	"github.com/minsukang/dailybrief/pkg/models"
)

// Category names used for pipeline errors, prompts, and fallbacks.
const (
	CategoryGreeting = "greeting"
	CategoryWeather  = "weather"
	CategoryNews     = "news"
	CategoryGaming   = "gaming"
	CategoryTrends   = "gaming_trends"
)

// promptTemplates maps a category to its summarization instruction.
// The item list is appended below the instruction, one line per item.
var promptTemplates = map[string]string{
	CategoryNews: "Summarize the main world, business, and tech events from the " +
		"headlines below in three sentences. Be factual and neutral.\n\n",
	CategoryGaming: "Summarize the most notable gaming-industry news from the " +
		"headlines below in three sentences.\n\n",
	CategoryTrends: "Based on the gaming headlines below, describe in two or three " +
		"sentences which themes or trends stand out today.\n\n",
}

// emptyFallbacks is returned without calling the provider when a category
// has no items.
var emptyFallbacks = map[string]string{
	CategoryNews:   "No new headlines in the lookback window.",
	CategoryGaming: "No new gaming news in the lookback window.",
	CategoryTrends: "Not enough gaming news to spot a trend today.",
}

// errorFallbacks is returned when the provider call fails.
var errorFallbacks = map[string]string{
	CategoryNews:   "The news summary is unavailable right now; see the sources directly.",
	CategoryGaming: "The gaming summary is unavailable right now; see the sources directly.",
	CategoryTrends: "Trend analysis is unavailable right now.",
}

// Summarizer condenses a category's news items into prose through a
// generative-text provider. Every failure mode degrades to a
// deterministic sentence; Summarize never returns an error and makes at
// most one provider call per invocation.
type Summarizer struct {
	provider llm.Provider
	opts     *llm.GenerateOptions
}

// NewSummarizer creates a summarizer on top of the given provider.
func NewSummarizer(provider llm.Provider, opts *llm.GenerateOptions) *Summarizer {
	return &Summarizer{provider: provider, opts: opts}
}

// Summarize returns prose for the category's items. Empty input returns
// the category's fixed "nothing to report" sentence without a network
// call; a provider failure returns the category's fallback sentence.
// The provider call is never retried.
func (s *Summarizer) Summarize(ctx context.Context, category string, items []models.NewsItem) string {
	if len(items) == 0 {
		return fallbackFor(emptyFallbacks, category)
	}

	prompt := promptTemplates[category] + serializeItems(items)
	resp, err := s.provider.Generate(ctx, prompt, s.opts)
	if err != nil {
		log.Printf("warn: summarization failed for %s: %v", category, err)
		return fallbackFor(errorFallbacks, category)
	}
	return resp.Content
}

// serializeItems renders items one per line for the prompt.
func serializeItems(items []models.NewsItem) string {
	var sb strings.Builder
	for _, item := range items {
		fmt.Fprintf(&sb, "- %s (%s)\n", item.Title, item.Link)
	}
	return sb.String()
}

func fallbackFor(table map[string]string, category string) string {
	if msg, ok := table[category]; ok {
		return msg
	}
	return "Nothing to report for " + category + "."
}
