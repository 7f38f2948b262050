package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/mail"
	"os"
	"strconv"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/mikey/conf-reminder/internal/core"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned when no SMTP host or sender address is set
var ErrNotConfigured = errors.New("smtp mailer is not configured")

// implicitTLSPort is the SMTPS port; connections to it start with TLS.
const implicitTLSPort = 465

// Settings holds the SMTP connection parameters
type Settings struct {
	Host        string
	Port        int
	Username    string
	Password    string
	SenderEmail string
	SenderName  string
	UseTLS      bool
	Timeout     time.Duration
	TLSConfig   *tls.Config
}

// SMTPMailer delivers reminders through an SMTP submission server
type SMTPMailer struct {
	settings Settings
	logger   *zap.Logger
	now      func() time.Time
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(settings Settings, logger *zap.Logger) *SMTPMailer {
	if settings.Timeout <= 0 {
		settings.Timeout = 10 * time.Second
	}
	if settings.TLSConfig == nil {
		settings.TLSConfig = &tls.Config{ServerName: settings.Host}
	}
	return &SMTPMailer{
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

// Send delivers one message. Port 465 connects with TLS directly; any other
// port connects in plain text and upgrades with STARTTLS when UseTLS is set.
func (m *SMTPMailer) Send(ctx context.Context, msg *core.OutgoingMail) error {
	s := m.settings
	if s.Host == "" || s.SenderEmail == "" {
		return ErrNotConfigured
	}

	data, err := buildMessage(mail.Address{Name: s.SenderName, Address: s.SenderEmail}, msg, m.now())
	if err != nil {
		return err
	}

	conn, err := m.dial(ctx)
	if err != nil {
		return err
	}

	deadline := time.Now().Add(3 * s.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if s.Port != implicitTLSPort && s.UseTLS {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return fmt.Errorf("server %s does not support STARTTLS", s.Host)
		}
		if err := c.StartTLS(s.TLSConfig); err != nil {
			return fmt.Errorf("STARTTLS failed: %w", err)
		}
	}

	if s.Username != "" {
		if err := c.Auth(sasl.NewPlainClient("", s.Username, s.Password)); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
	}

	if err := c.Mail(s.SenderEmail, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := c.Rcpt(msg.To, nil); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	// The message is accepted at this point.
	if err := c.Quit(); err != nil {
		m.logger.Warn("QUIT command failed", zap.Error(err))
	}

	m.logger.Debug("Delivered message",
		zap.String("to", msg.To),
		zap.String("server", s.Host))
	return nil
}

func (m *SMTPMailer) dial(ctx context.Context) (net.Conn, error) {
	s := m.settings
	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	dialer := &net.Dialer{Timeout: s.Timeout}

	if s.Port == implicitTLSPort {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: s.TLSConfig}
		conn, err := tlsDialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s over TLS: %w", addr, err)
		}
		return conn, nil
	}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return conn, nil
}
