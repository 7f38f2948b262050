package mailer

import (
	"context"

	"github.com/mikey/conf-reminder/internal/core"
	"go.uber.org/zap"
)

// LogMailer writes reminders to the log instead of sending them
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a new log mailer
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message and reports success
func (m *LogMailer) Send(ctx context.Context, msg *core.OutgoingMail) error {
	m.logger.Info("Reminder email (not sent)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.HTMLBody)))
	return nil
}
