package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitstop/sync/config"
)

func TestNewSenderSelection(t *testing.T) {
	assert.IsType(t, &logSender{}, NewSender(config.MailConfig{Mode: "log"}))
	assert.IsType(t, &logSender{}, NewSender(config.MailConfig{}))
	assert.IsType(t, &smtpSender{}, NewSender(config.MailConfig{Mode: "smtp", Host: "localhost", Port: 25}))
}

func TestLogSenderNeverFails(t *testing.T) {
	s := NewSender(config.MailConfig{Mode: "log"})
	err := s.Send(context.Background(), Message{Recipient: "x@example.com", Subject: "hi", Body: "body"})
	assert.NoError(t, err)
}
