// Package mail is the outbound mail collaborator. The sync core knows it
// only through the Sender interface; delivery failures never propagate
// back into the protocol.
package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/pitstop/sync/config"
	syncerrors "github.com/pitstop/sync/errors"
	"github.com/pitstop/sync/logging"
)

// Message is one outbound mail.
type Message struct {
	Recipient string
	Subject   string
	Body      string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender builds a Sender from the mail configuration.
func NewSender(cfg config.MailConfig) Sender {
	if cfg.Mode == "smtp" {
		return &smtpSender{cfg: cfg, logger: logging.NewLogger("mail")}
	}
	return &logSender{logger: logging.NewLogger("mail")}
}

// logSender writes mails to the log. Default in development.
type logSender struct {
	logger *logrus.Entry
}

func (s *logSender) Send(_ context.Context, msg Message) error {
	s.logger.WithFields(logrus.Fields{
		"recipient": msg.Recipient,
		"subject":   msg.Subject,
	}).Info("Mail (log mode)")
	s.logger.Debug(msg.Body)
	return nil
}

// smtpSender delivers over plain SMTP with optional auth. No mail
// library shows up anywhere in our dependency set, and net/smtp covers
// the single template this system sends.
type smtpSender struct {
	cfg    config.MailConfig
	logger *logrus.Entry
}

func (s *smtpSender) Send(_ context.Context, msg Message) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.cfg.From, msg.Recipient, msg.Subject, msg.Body)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{msg.Recipient}, []byte(body)); err != nil {
		return syncerrors.MailSend(msg.Recipient, err)
	}
	s.logger.WithField("recipient", msg.Recipient).Info("Mail sent")
	return nil
}
