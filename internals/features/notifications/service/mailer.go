package service

import (
	"context"

	"desaku_backend/internals/configs"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer: kolaborator pengiriman. Dispatcher tidak peduli SMTP atau antrean.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg configs.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.MailFrom,
	}
}

func (s *SMTPMailer) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/html", m.HTML)
	return s.dialer.DialAndSend(msg)
}

// LogMailer dipakai saat SMTP belum dikonfigurasi (dev/lokal).
type LogMailer struct {
	Log *zap.Logger
}

func (l LogMailer) Send(_ context.Context, m Message) error {
	l.Log.Info("mail (log only)",
		zap.String("to", m.To),
		zap.String("subject", m.Subject),
		zap.Int("html_len", len(m.HTML)),
	)
	return nil
}

// NewMailer memilih SMTP bila SMTP_HOST terisi.
func NewMailer(cfg configs.Config, log *zap.Logger) Mailer {
	if cfg.SMTPEnabled() {
		return NewSMTPMailer(cfg)
	}
	return LogMailer{Log: log.Named("mail")}
}
