package briefing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/minsukang/dailybrief/pkg/models"
)

// Dispatcher delivers embeds to a Discord-compatible webhook, one message
// per call so each payload stays under the sink's size limits.
type Dispatcher struct {
	webhookURL string
	client     *http.Client
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherHTTPClient sets a custom HTTP client.
func WithDispatcherHTTPClient(client *http.Client) DispatcherOption {
	return func(d *Dispatcher) { d.client = client }
}

// NewDispatcher creates a webhook dispatcher.
func NewDispatcher(webhookURL string, timeout time.Duration, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// --- Webhook payload shapes ---

type webhookPayload struct {
	Embeds []webhookEmbed `json:"embeds"`
}

type webhookEmbed struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Color       int               `json:"color"`
	Thumbnail   *webhookThumbnail `json:"thumbnail,omitempty"`
	Fields      []webhookField    `json:"fields,omitempty"`
	Footer      webhookFooter     `json:"footer"`
}

type webhookThumbnail struct {
	URL string `json:"url"`
}

type webhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type webhookFooter struct {
	Text string `json:"text"`
}

// Dispatch posts each embed as an independent webhook call, in order.
// A failed delivery is logged and never blocks the remaining messages;
// the returned count is how many were delivered.
func (d *Dispatcher) Dispatch(ctx context.Context, embeds []models.Embed) int {
	delivered := 0
	for _, e := range embeds {
		if err := d.send(ctx, e); err != nil {
			log.Printf("warn: dispatch of %q failed: %v", e.Title, err)
			continue
		}
		delivered++
	}
	return delivered
}

// send posts a single embed.
func (d *Dispatcher) send(ctx context.Context, e models.Embed) error {
	payload := webhookPayload{Embeds: []webhookEmbed{toWebhookEmbed(e)}}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("POST webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook HTTP %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func toWebhookEmbed(e models.Embed) webhookEmbed {
	we := webhookEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
		Footer:      webhookFooter{Text: e.Footer},
	}
	if e.Thumbnail != "" {
		we.Thumbnail = &webhookThumbnail{URL: e.Thumbnail}
	}
	for _, f := range e.Fields {
		we.Fields = append(we.Fields, webhookField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	return we
}
