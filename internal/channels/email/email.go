// Package email adapts transactional-email vendors to the channels.Sender
// contract. Implementations can be swapped (SendGrid, SES) without changing
// callers.
package email

import (
	"strings"

	"github.com/wolfman30/practice-comms-hub/internal/channels"
)

// validate enforces the email-specific gate: a recipient and a non-empty
// subject are required before any vendor call.
func validate(msg channels.OutboundMessage) error {
	if strings.TrimSpace(msg.To) == "" {
		return channels.NewValidationError("email recipient required")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return channels.NewValidationError("email subject required")
	}
	if strings.TrimSpace(msg.Body) == "" {
		return channels.NewValidationError("email body required")
	}
	return nil
}
