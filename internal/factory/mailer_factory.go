package factory

import (
	"fmt"

	"github.com/mikey/conf-reminder/internal/adapters/mailer"
	"github.com/mikey/conf-reminder/internal/config"
	"github.com/mikey/conf-reminder/internal/core"
	"go.uber.org/zap"
)

// MailerFactory creates reminder transports based on configuration
type MailerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewMailerFactory creates a new mailer factory
func NewMailerFactory(cfg *config.Config, logger *zap.Logger) *MailerFactory {
	return &MailerFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailer creates a mailer based on the configuration
func (f *MailerFactory) CreateMailer() (core.Mailer, error) {
	transport := f.cfg.GetMail().Transport

	switch transport {
	case "smtp":
		smtpCfg := f.cfg.GetSMTP()
		if smtpCfg.Host == "" || smtpCfg.SenderEmail == "" {
			f.logger.Warn("SMTP host or sender is not set, reminders will not be delivered")
		}
		return mailer.NewSMTPMailer(mailer.Settings{
			Host:        smtpCfg.Host,
			Port:        smtpCfg.Port,
			Username:    smtpCfg.Username,
			Password:    smtpCfg.Password,
			SenderEmail: smtpCfg.SenderEmail,
			SenderName:  smtpCfg.SenderName,
			UseTLS:      smtpCfg.UseTLS,
			Timeout:     smtpCfg.Timeout,
		}, f.logger), nil
	case "log":
		return mailer.NewLogMailer(f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported mail transport: %s", transport)
	}
}
