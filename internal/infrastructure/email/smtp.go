// Package email delivers mail through SMTP and composes ticket notifications.
package email

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/techdesk-io/techdesk/internal/shared/config"
	"github.com/techdesk-io/techdesk/internal/shared/goroutine"
	"github.com/techdesk-io/techdesk/internal/shared/logger"
)

const defaultSendTimeout = 30 * time.Second

var (
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrSendTimeout               = errors.New("email send timed out")
)

// Attachment is streamed into the message when it is written, so Open is
// called once per send.
type Attachment struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

type Message struct {
	To          string
	Subject     string
	PlainBody   string
	HTMLBody    string
	Attachments []Attachment
}

type SMTPEmailService struct {
	config  config.EmailConfig
	send    func(m *gomail.Message) error
	timeout time.Duration
	logger  logger.Interface
}

func NewSMTPEmailService(cfg config.EmailConfig, log logger.Interface) *SMTPEmailService {
	s := &SMTPEmailService{
		config:  cfg,
		timeout: cfg.SendTimeout(),
		logger:  log.With("component", "email.smtp"),
	}
	if s.timeout <= 0 {
		s.timeout = defaultSendTimeout
	}

	if cfg.SMTPHost != "" {
		dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
		dialer.SSL = cfg.SMTPSSL
		s.send = func(m *gomail.Message) error {
			return dialer.DialAndSend(m)
		}
	}
	return s
}

func (s *SMTPEmailService) IsConfigured() bool {
	return s.send != nil
}

// DefaultRecipient is the configured notification mailbox.
func (s *SMTPEmailService) DefaultRecipient() string {
	return s.config.Recipient()
}

// Send makes one delivery attempt bounded by the configured send timeout.
// gomail has no deadline of its own, so the attempt runs in a goroutine that
// is abandoned on timeout.
func (s *SMTPEmailService) Send(ctx context.Context, msg Message) error {
	if !s.IsConfigured() {
		return ErrEmailServiceNotConfigured
	}

	m := s.buildMessage(msg)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	goroutine.SafeGo(s.logger, "smtp-send", func() {
		done <- s.send(m)
	})

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrSendTimeout, s.timeout)
		}
		return ctx.Err()
	}
}

func (s *SMTPEmailService) buildMessage(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	if s.config.FromName != "" {
		m.SetAddressHeader("From", s.config.Sender(), s.config.FromName)
	} else {
		m.SetHeader("From", s.config.Sender())
	}
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.PlainBody)
	if msg.HTMLBody != "" {
		m.AddAlternative("text/html", msg.HTMLBody)
	}

	for _, a := range msg.Attachments {
		open := a.Open
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				r, err := open()
				if err != nil {
					return err
				}
				defer r.Close()
				_, err = io.Copy(w, r)
				return err
			}),
		}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {a.ContentType},
			}))
		}
		m.Attach(a.Filename, settings...)
	}

	return m
}
