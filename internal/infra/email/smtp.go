package email

import (
	"context"
	"fmt"
	"time"

	"reportify_notifier/internal/domain/delivery"

	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"
)

// SMTPConfig configures the SMTP account used for fallback delivery.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	FromName   string
	SchoolName string
	Timeout    time.Duration
}

type mailClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPSender implements delivery.Channel over an SMTP account.
type SMTPSender struct {
	client mailClient
	cfg    SMTPConfig
	logger *logrus.Entry
}

var _ delivery.Channel = (*SMTPSender)(nil)

func NewSMTPSender(cfg SMTPConfig, logger *logrus.Entry) (*SMTPSender, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.Timeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return newSMTPSender(client, cfg, logger), nil
}

func newSMTPSender(client mailClient, cfg SMTPConfig, logger *logrus.Entry) *SMTPSender {
	return &SMTPSender{client: client, cfg: cfg, logger: logger}
}

func (s *SMTPSender) Name() delivery.ChannelName { return delivery.ChannelEmail }

// Send delivers msg to the address `to`. All failures are returned as a failed Result.
func (s *SMTPSender) Send(ctx context.Context, to string, msg delivery.Message) delivery.Result {
	addr, err := parseRecipient(to)
	if err != nil {
		return delivery.Failed(err)
	}
	subject := subjectOf(msg)
	html, err := RenderHTML(subject, msg.Text, s.cfg.SchoolName)
	if err != nil {
		return delivery.Failed(err)
	}

	m := mail.NewMsg()
	if err := m.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
		return delivery.Failed(fmt.Errorf("invalid sender address: %w", err))
	}
	if err := m.To(addr); err != nil {
		return delivery.Failed(fmt.Errorf("%w: %v", delivery.ErrInvalidRecipient, err))
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(mail.TypeTextHTML, html)

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		s.logger.WithError(err).WithField("to", addr).Warn("Email send failed")
		return delivery.Failed(fmt.Errorf("smtp send: %w", err))
	}
	s.logger.WithField("to", addr).Debug("Email sent")
	return delivery.Delivered(fmt.Sprintf("accepted by %s", s.cfg.Host))
}
