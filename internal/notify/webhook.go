package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/crestwatch/surfcast/pkg/config"
)

const defaultWebhookTimeout = 5 * time.Second

// Webhook posts notifications to an external gateway. The same gateway
// format serves both in-app and whatsapp delivery; the payload carries
// the method so the gateway can route it.
type Webhook struct {
	cfg    *config.WebhookData
	client *http.Client
}

// NewWebhook creates a webhook notifier
func NewWebhook(cfg *config.WebhookData) *Webhook {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	return &Webhook{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type webhookPayload struct {
	UserID      string `json:"user_id"`
	AlertID     string `json:"alert_id"`
	Method      string `json:"method"`
	ContactInfo string `json:"contact_info,omitempty"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

// Notify posts msg to the configured gateway endpoint
func (w *Webhook) Notify(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(webhookPayload{
		UserID:      msg.UserID,
		AlertID:     msg.AlertID,
		Method:      msg.Method,
		ContactInfo: msg.ContactInfo,
		Subject:     msg.Subject,
		Body:        msg.Body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if w.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+w.cfg.Token)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook gateway returned %s", resp.Status)
	}
	return nil
}
