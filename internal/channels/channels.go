// Package channels defines the shared contract every delivery adapter
// (email, SMS, voice) implements, plus the error taxonomy the dispatcher
// sorts failures into.
package channels

import "context"

// Channel identifies a delivery mechanism.
type Channel string

const (
	Email Channel = "email"
	SMS   Channel = "sms"
	Voice Channel = "voice"
)

// Valid reports whether the channel is one of the supported values.
func (c Channel) Valid() bool {
	switch c {
	case Email, SMS, Voice:
		return true
	}
	return false
}

// OutboundMessage is one rendered message ready for vendor delivery.
type OutboundMessage struct {
	To      string
	Subject string
	Body    string
	// Meta carries request context (practice id, patient id, source) for
	// vendor-side tagging and structured logs; adapters never require it.
	Meta map[string]string
}

// Result normalizes the vendor response shape across adapters.
type Result struct {
	Provider  string
	MessageID string
	// Status is the adapter's terminal state: "sent" for email/SMS,
	// "initiated" (non-terminal) for the voice stand-in.
	Status string
	// Details holds advisory vendor-specific values (segment counts,
	// estimated cost, raw status) for caller-side display.
	Details map[string]any
}

// Sender is implemented by each channel adapter.
type Sender interface {
	Send(ctx context.Context, msg OutboundMessage) (Result, error)
}
