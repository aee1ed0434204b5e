// Package voice holds the outbound-call adapter. The current implementation
// is a stand-in: no voice vendor is integrated yet, so it logs the script and
// reports a synthesized "initiated" result. A real implementation must place
// the call through a vendor API and treat "initiated" as non-terminal,
// resolving it via a status callback.
package voice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/wolfman30/practice-comms-hub/internal/channels"
	"github.com/wolfman30/practice-comms-hub/internal/channels/sms"
	"github.com/wolfman30/practice-comms-hub/pkg/logging"
)

const providerName = "voice-stub"

// Sender accepts a recipient and call script.
type Sender struct {
	from   string
	logger *logging.Logger
}

// NewSender builds the stand-in voice sender.
func NewSender(fromNumber string, logger *logging.Logger) *Sender {
	if logger == nil {
		logger = logging.Default()
	}
	return &Sender{from: fromNumber, logger: logger}
}

var _ channels.Sender = (*Sender)(nil)

// Send validates the request, logs the would-be call, and returns an
// "initiated" result with a synthesized call id.
func (s *Sender) Send(ctx context.Context, msg channels.OutboundMessage) (channels.Result, error) {
	if strings.TrimSpace(msg.Body) == "" {
		return channels.Result{}, channels.NewValidationError("voice script required")
	}
	to, err := sms.NormalizePhone(msg.To)
	if err != nil {
		return channels.Result{}, err
	}

	callID := "call_" + uuid.NewString()
	s.logger.Info("voice call initiated (stub, no vendor integration)",
		"to", to,
		"from", s.from,
		"call_id", callID,
		"script_chars", len(msg.Body),
	)
	return channels.Result{
		Provider:  providerName,
		MessageID: callID,
		Status:    "initiated",
		Details: map[string]any{
			"to_normalized": to,
			"simulated":     true,
		},
	}, nil
}
