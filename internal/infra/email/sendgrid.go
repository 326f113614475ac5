package email

import (
	"context"
	"fmt"
	"time"

	"reportify_notifier/internal/domain/delivery"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// sendgridTimeout bounds one API call; the SendGrid client sets none itself.
const sendgridTimeout = 15 * time.Second

type sendgridClient interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// SendgridSender implements delivery.Channel over the SendGrid v3 API.
type SendgridSender struct {
	client     sendgridClient
	from       *sgmail.Email
	schoolName string
	timeout    time.Duration
	logger     *logrus.Entry
}

var _ delivery.Channel = (*SendgridSender)(nil)

func NewSendgridSender(apiKey, from, fromName, schoolName string, logger *logrus.Entry) *SendgridSender {
	return newSendgridSender(sendgrid.NewSendClient(apiKey), from, fromName, schoolName, logger)
}

func newSendgridSender(client sendgridClient, from, fromName, schoolName string, logger *logrus.Entry) *SendgridSender {
	return &SendgridSender{
		client:     client,
		from:       sgmail.NewEmail(fromName, from),
		schoolName: schoolName,
		timeout:    sendgridTimeout,
		logger:     logger,
	}
}

func (s *SendgridSender) Name() delivery.ChannelName { return delivery.ChannelEmail }

// Send delivers msg to the address `to`. Each call is bounded by the sender timeout.
func (s *SendgridSender) Send(ctx context.Context, to string, msg delivery.Message) delivery.Result {
	addr, err := parseRecipient(to)
	if err != nil {
		return delivery.Failed(err)
	}
	if err := ctx.Err(); err != nil {
		return delivery.Failed(err)
	}
	subject := subjectOf(msg)
	html, err := RenderHTML(subject, msg.Text, s.schoolName)
	if err != nil {
		return delivery.Failed(err)
	}

	message := sgmail.NewSingleEmail(s.from, subject, sgmail.NewEmail("", addr), msg.Text, html)
	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	resp, err := s.client.SendWithContext(sendCtx, message)
	if err != nil {
		s.logger.WithError(err).WithField("to", addr).Warn("SendGrid send failed")
		return delivery.Failed(fmt.Errorf("sendgrid send: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.WithField("to", addr).WithField("status", resp.StatusCode).Warn("SendGrid rejected message")
		return delivery.Failed(fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, resp.Body))
	}
	s.logger.WithField("to", addr).Debug("Email sent via SendGrid")
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		return delivery.Delivered(ids[0])
	}
	return delivery.Delivered(fmt.Sprintf("status %d", resp.StatusCode))
}
