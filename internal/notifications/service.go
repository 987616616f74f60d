package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mediadock/internal/config"
)

const (
	defaultTimeout = 10 * time.Second
	// maxErrorBody caps how much of an upstream error response is kept.
	maxErrorBody = 64 << 10
)

// ErrWebhookNotConfigured is returned by every send when no webhook URL is set.
var ErrWebhookNotConfigured = errors.New("DISCORD_WEBHOOK_URL is not set")

// UpstreamError reports a webhook response with status 400 or above.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("discord returned %d", e.StatusCode)
	}
	return fmt.Sprintf("discord returned %d: %s", e.StatusCode, body)
}

// Service defines the outbound chat surface used by the relay.
type Service interface {
	// Send posts content as a single chat message.
	Send(ctx context.Context, content string) error
	// TestNotification posts a fixed message to verify the webhook.
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by a Discord webhook when
// configured. Without a webhook URL every call fails with
// ErrWebhookNotConfigured.
func NewService(cfg *config.Config) Service {
	endpoint := strings.TrimSpace(cfg.Relay.WebhookURL)
	if endpoint == "" {
		return unconfiguredService{}
	}

	timeout := cfg.RelayTimeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &http.Client{Timeout: timeout}
	return &discordService{
		endpoint:  endpoint,
		userAgent: cfg.Relay.UserAgent,
		client:    client,
	}
}

type payload struct {
	Content string `json:"content"`
}

type discordService struct {
	endpoint  string
	userAgent string
	client    *http.Client
}

func (d *discordService) Send(ctx context.Context, content string) error {
	return d.send(ctx, payload{Content: content})
}

func (d *discordService) TestNotification(ctx context.Context) error {
	return d.send(ctx, payload{Content: "🧪 mediadock relay test"})
}

func (d *discordService) send(ctx context.Context, data payload) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build discord request: %w", err)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send discord message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &UpstreamError{StatusCode: resp.StatusCode, Body: string(text)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type unconfiguredService struct{}

func (unconfiguredService) Send(context.Context, string) error     { return ErrWebhookNotConfigured }
func (unconfiguredService) TestNotification(context.Context) error { return ErrWebhookNotConfigured }
