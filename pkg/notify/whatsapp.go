package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dukaanly/dukaanly-api/pkg/money"
)

// Notifier sends customer-facing notifications. Callers treat delivery as
// fire-and-forget: a failed send is logged by the caller, never propagated.
type Notifier interface {
	BillCleared(ctx context.Context, phone, billNumber string, total money.Amount) error
}

// WhatsAppConfig holds the gateway connection settings
type WhatsAppConfig struct {
	GatewayURL string
	Token      string
	SenderID   string
}

// WhatsAppNotifier delivers notifications through a WhatsApp gateway HTTP API
type WhatsAppNotifier struct {
	config WhatsAppConfig
	client *http.Client
}

// NewWhatsAppNotifier creates a new WhatsApp notifier
func NewWhatsAppNotifier(config WhatsAppConfig) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// BillCleared sends the "bill cleared" message to the customer's phone
func (n *WhatsAppNotifier) BillCleared(ctx context.Context, phone, billNumber string, total money.Amount) error {
	message := fmt.Sprintf(
		"Thank you! Your bill %s of %s has been fully cleared. We appreciate your business.",
		billNumber, total.Display(),
	)
	return n.send(ctx, phone, message)
}

func (n *WhatsAppNotifier) send(ctx context.Context, phone, message string) error {
	payload, err := json.Marshal(map[string]string{
		"sender":    n.config.SenderID,
		"recipient": phone,
		"message":   message,
	})
	if err != nil {
		return fmt.Errorf("failed to encode message payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.config.GatewayURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.config.Token)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach WhatsApp gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("WhatsApp gateway returned status %d", resp.StatusCode)
	}

	return nil
}

// NoopNotifier is used when no gateway is configured; sends go nowhere.
type NoopNotifier struct{}

// NewNoopNotifier creates a notifier that silently drops every message
func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

// BillCleared implements Notifier
func (n *NoopNotifier) BillCleared(_ context.Context, _, _ string, _ money.Amount) error {
	return nil
}
