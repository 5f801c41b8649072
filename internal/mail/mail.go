// Package mail provides email sending adapters for invitation delivery.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers email messages. The invitation service depends on this
// interface; production uses SMTPSender, tests use a capture fake.
type Sender interface {
	Send(msg Message) error
}

// SMTPConfig holds SMTP server configuration.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// SMTPSender implements Sender over plain SMTP.
type SMTPSender struct {
	config SMTPConfig
}

// NewSMTPSender creates an SMTP sender with the given configuration.
func NewSMTPSender(config SMTPConfig) *SMTPSender {
	return &SMTPSender{config: config}
}

// Send delivers the message through the configured SMTP server.
func (s *SMTPSender) Send(msg Message) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var buf strings.Builder
	fmt.Fprintf(&buf, "From: %s <%s>\r\n", s.config.FromName, s.config.From)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(msg.Body)

	var a smtp.Auth
	if s.config.Username != "" {
		a = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}
	if err := smtp.SendMail(addr, a, s.config.From, []string{msg.To}, []byte(buf.String())); err != nil {
		return fmt.Errorf("sending mail to %s: %w", msg.To, err)
	}
	return nil
}
