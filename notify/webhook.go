package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/studymesh/tutorcore/internal/httpclient"
)

// WebhookChannel POSTs notifications as JSON to a configured endpoint,
// covering email/push gateways that accept webhooks.
type WebhookChannel struct {
	name       string
	url        string
	httpClient *http.Client
}

// NewWebhookChannel constructs a webhook channel. A zero timeout defaults
// to ten seconds; notification delivery must never hang the pipeline.
func NewWebhookChannel(name, url string, timeout time.Duration) *WebhookChannel {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookChannel{
		name:       name,
		url:        url,
		httpClient: httpclient.New(httpclient.WithTimeout(timeout)),
	}
}

func (c *WebhookChannel) Name() string { return c.name }

func (c *WebhookChannel) Send(ctx context.Context, n Notification) error {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(n); err != nil {
		return fmt.Errorf("notify: encode notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("notify: webhook %s: %s: %s", c.name, resp.Status, data)
	}
	return nil
}
