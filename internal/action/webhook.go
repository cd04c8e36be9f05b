package action

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/flo-at/minmon/internal/placeholder"
)

const defaultUserAgent = "MinMon/1.0"

// Webhook issues an HTTP request whose URL, header values and body are
// placeholder-rendered. Any non-2xx response status is an error
// (spec.md §4.6).
type Webhook struct {
	Client  *resty.Client
	URL     string
	Method  string
	Headers map[string]string
	Body    string
}

// NewWebhook builds a Webhook, adding a default User-Agent header if
// the configuration didn't set one — matching the upstream's
// webhook.rs, which does the same before the header map is frozen.
func NewWebhook(client *resty.Client, url, method string, headers map[string]string, body string) *Webhook {
	h := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		h[k] = v
	}
	if _, ok := h["User-Agent"]; !ok {
		h["User-Agent"] = defaultUserAgent
	}
	return &Webhook{Client: client, URL: url, Method: method, Headers: h, Body: body}
}

func (w *Webhook) Trigger(ctx context.Context, placeholders placeholder.Map) error {
	url := placeholder.Render(w.URL, placeholders)
	body := placeholder.Render(w.Body, placeholders)
	headers := make(map[string]string, len(w.Headers))
	for k, v := range w.Headers {
		headers[k] = placeholder.Render(v, placeholders)
	}

	resp, err := w.Client.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetBody(body).
		Execute(w.Method, url)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("HTTP status code %d indicates error", resp.StatusCode())
	}
	return nil
}
