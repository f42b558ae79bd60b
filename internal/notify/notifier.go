package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/safetrack/platform/health-engine/internal/models"
	"github.com/safetrack/platform/health-engine/pkg/logger"
	"go.uber.org/zap"
)

// Notifier delivers per-tenant alert events. Delivery mechanics (email,
// SMS, push) are the receiving service's responsibility.
type Notifier interface {
	Send(ctx context.Context, event *models.AlertEvent) error
}

// WebhookNotifier posts alert events to the notification service webhook
type WebhookNotifier struct {
	httpClient *http.Client
	webhookURL string
}

// NewWebhookNotifier creates a webhook notifier
func NewWebhookNotifier(webhookURL string) *WebhookNotifier {
	return &WebhookNotifier{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		webhookURL: webhookURL,
	}
}

// Send posts one alert event as JSON
func (n *WebhookNotifier) Send(ctx context.Context, event *models.AlertEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notification service returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// LogNotifier logs alert events instead of delivering them. Used when no
// webhook URL is configured.
type LogNotifier struct{}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Send logs the event and reports success
func (n *LogNotifier) Send(_ context.Context, event *models.AlertEvent) error {
	logger.Info("Alert event (no webhook configured)",
		zap.String("tenantID", event.TenantID),
		zap.String("title", event.Title),
		zap.Int("assets", len(event.Assets)),
		zap.Int("recipients", len(event.Recipients)),
	)
	return nil
}
