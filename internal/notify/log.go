package notify

import (
	"context"

	"go.uber.org/zap"
)

// Log is a Notifier that only logs. It backs delivery methods with no
// configured transport so matched alerts still leave an operator trace.
type Log struct {
	logger *zap.SugaredLogger
}

// NewLog creates a logging notifier
func NewLog(logger *zap.SugaredLogger) *Log {
	return &Log{logger: logger}
}

// Notify logs the message
func (l *Log) Notify(_ context.Context, msg Message) error {
	l.logger.Infow("notification (log only)",
		"user_id", msg.UserID,
		"alert_id", msg.AlertID,
		"method", msg.Method,
		"subject", msg.Subject,
	)
	return nil
}
