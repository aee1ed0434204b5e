package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/wolfman30/practice-comms-hub/internal/channels"
	"github.com/wolfman30/practice-comms-hub/pkg/logging"
)

const sendgridProvider = "sendgrid"

// SendGridSender delivers email via the SendGrid API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewSendGridSender creates a SendGrid email sender, or nil when no API key
// is configured.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "Practice Comms"
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

var _ channels.Sender = (*SendGridSender)(nil)

// Send delivers one email and returns the vendor message id.
func (s *SendGridSender) Send(ctx context.Context, msg channels.OutboundMessage) (channels.Result, error) {
	if err := validate(msg); err != nil {
		return channels.Result{}, err
	}
	if s == nil || s.client == nil {
		return channels.Result{}, &channels.ProviderError{Provider: sendgridProvider, Message: "client not configured"}
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail("", msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, msg.Body)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		s.logger.Error("sendgrid send failed", "error", err, "to", msg.To)
		return channels.Result{}, &channels.ProviderError{Provider: sendgridProvider, Message: err.Error()}
	}
	if response.StatusCode >= 400 {
		s.logger.Error("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", msg.To)
		return channels.Result{}, &channels.ProviderError{
			Provider:   sendgridProvider,
			StatusCode: response.StatusCode,
			Message:    fmt.Sprintf("send rejected: %s", response.Body),
		}
	}

	messageID := ""
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}
	s.logger.Info("email sent via sendgrid", "to", msg.To, "subject", msg.Subject, "status", response.StatusCode)
	return channels.Result{
		Provider:  sendgridProvider,
		MessageID: messageID,
		Status:    "sent",
		Details:   map[string]any{"vendor_status_code": response.StatusCode},
	}, nil
}
