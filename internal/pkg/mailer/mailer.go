package mailer

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Sender delivers outbound mail. Delivery is best-effort everywhere it is
// used: callers log failures and move on, they never roll back store
// mutations because a message did not go out.
type Sender interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// SMTPSender sends through a plain SMTP relay.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPSender(addr, from, username, password string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		host := addr
		if i := strings.IndexByte(addr, ':'); i >= 0 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{addr: addr, from: from, auth: auth}
}

func (s *SMTPSender) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.from, strings.Join(to, ", "), subject, body)
	return smtp.SendMail(s.addr, s.auth, s.from, to, []byte(msg))
}

// LogSender writes messages to the process log instead of delivering them.
// Used when SMTP_ADDR is unset (local development) and in tests.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to []string, subject, _ string) error {
	log.Printf("mail (not sent) to=%s subject=%q", strings.Join(to, ","), subject)
	return nil
}
