// Package notify delivers alert notifications over the configured
// channels. Delivery is decoupled from notification-record creation:
// a failed send is reported to the caller but never undone.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Message is one notification to deliver
type Message struct {
	UserID      string
	AlertID     string
	Method      string // email, whatsapp, app
	ContactInfo string
	Subject     string
	Body        string
}

// Notifier delivers one notification message
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Dispatcher routes messages to the notifier registered for their
// delivery method
type Dispatcher struct {
	notifiers map[string]Notifier
	logger    *zap.SugaredLogger
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher(logger *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		notifiers: make(map[string]Notifier),
		logger:    logger,
	}
}

// Register binds a delivery method to a notifier
func (d *Dispatcher) Register(method string, n Notifier) {
	d.notifiers[method] = n
}

// Notify delivers msg via the notifier registered for its method
func (d *Dispatcher) Notify(ctx context.Context, msg Message) error {
	n, ok := d.notifiers[msg.Method]
	if !ok {
		return fmt.Errorf("no notifier registered for method %q", msg.Method)
	}
	if err := n.Notify(ctx, msg); err != nil {
		return fmt.Errorf("%s delivery failed for alert %s: %w", msg.Method, msg.AlertID, err)
	}
	d.logger.Debugw("notification delivered", "method", msg.Method, "alert_id", msg.AlertID)
	return nil
}
