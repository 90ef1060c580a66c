package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/content-distributor/internal/config"
	"github.com/rs/zerolog"
)

const defaultSystemPrompt = "You summarize articles for social media distribution. Be concise."

// SummarizerClient calls an OpenAI-compatible chat completion endpoint.
// The key is passed per call so a key stored at runtime is picked up without a restart.
type SummarizerClient struct {
	endpoint     string
	model        string
	systemPrompt string
	temperature  float64
	maxTokens    int
	httpClient   *http.Client
	log          zerolog.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// NewSummarizerClient builds a client from configuration
func NewSummarizerClient(cfg config.SummarizerConfig, log zerolog.Logger) *SummarizerClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &SummarizerClient{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		httpClient:   &http.Client{Timeout: timeout},
		log:          log.With().Str("component", "summarizer").Logger(),
	}
}

// Summarize sends the article URL as the user message. Only the status code matters.
func (c *SummarizerClient) Summarize(ctx context.Context, articleURL, apiKey string) error {
	if c.endpoint == "" || c.model == "" {
		return fmt.Errorf("summarizer client misconfigured")
	}
	if strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("summarizer api key is empty")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: safePrompt(c.systemPrompt)},
			{Role: "user", Content: articleURL},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return fmt.Errorf("marshal summarizer payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send to summarizer: %w", err)
	}
	defer drain(resp)

	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Summarizer responded")

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("summarizer: %w", err)
	}
	return nil
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return defaultSystemPrompt
	}
	return prompt
}
