package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogSender_NeverFails(t *testing.T) {
	s := LogSender{}
	err := s.Send(context.Background(), []string{"a@example.org"}, "subject", "body")
	assert.NoError(t, err)
}

func TestSMTPSender_NoRecipientsIsNoop(t *testing.T) {
	s := NewSMTPSender("mail.example.org:25", "noreply@example.org", "", "")
	err := s.Send(context.Background(), nil, "subject", "body")
	assert.NoError(t, err)
}

func TestSMTPSender_HonoursCancelledContext(t *testing.T) {
	s := NewSMTPSender("mail.example.org:25", "noreply@example.org", "user", "pass")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, []string{"a@example.org"}, "subject", "body")
	assert.ErrorIs(t, err, context.Canceled)
}
