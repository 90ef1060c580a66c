package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/content-distributor/internal/config"
	"github.com/content-distributor/internal/models"
	"github.com/rs/zerolog"
)

// WebhookClient forwards article URLs to the distribution automation
type WebhookClient struct {
	url        string
	httpClient *http.Client
	log        zerolog.Logger
}

type webhookPayload struct {
	ArticleURL string `json:"articleUrl"`
	Source     string `json:"source"`
}

// NewWebhookClient builds a client from configuration
func NewWebhookClient(cfg config.WebhookConfig, log zerolog.Logger) *WebhookClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WebhookClient{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "webhook").Logger(),
	}
}

// Distribute posts the article URL to the webhook. The payload source is always
// web_app whichever surface submitted the URL. The response body is ignored.
func (c *WebhookClient) Distribute(ctx context.Context, articleURL string) error {
	if c.url == "" {
		return fmt.Errorf("webhook client misconfigured")
	}

	body, err := json.Marshal(webhookPayload{ArticleURL: articleURL, Source: models.SourceWebApp})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send to webhook: %w", err)
	}
	defer drain(resp)

	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Webhook responded")

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	return nil
}
