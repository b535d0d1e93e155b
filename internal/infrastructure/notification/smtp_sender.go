package notification

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/travelport/order-approval/internal/application/port"
	"github.com/travelport/order-approval/pkg/utils"
)

// Config configuration for email delivery
type Config struct {
	SMTPHost    string
	SMTPPort    int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// SMTPSender implements port.Notifier over plain SMTP
type SMTPSender struct {
	config Config
	logger *zap.Logger
	// send is swappable in tests
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates a new SMTP notifier
func NewSMTPSender(config Config, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		config: config,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// Send delivers one plain-text message to one recipient
func (s *SMTPSender) Send(ctx context.Context, recipient, subject, body string) error {
	if err := utils.ValidateEmail(recipient); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}

	s.logger.Info("Sending email",
		zap.String("to", recipient),
		zap.String("subject", subject))

	msg := s.buildMessage(recipient, subject, body)

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPHost)
	}

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	if err := s.send(addr, auth, s.config.FromAddress, []string{recipient}, msg); err != nil {
		s.logger.Error("Failed to send email",
			zap.Error(err),
			zap.String("to", recipient))
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *SMTPSender) buildMessage(recipient, subject, body string) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.FromAddress))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", recipient))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)

	return buf.Bytes()
}

// Verify interface compliance
var _ port.Notifier = (*SMTPSender)(nil)
