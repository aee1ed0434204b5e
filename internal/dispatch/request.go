package dispatch

import "github.com/wolfman30/practice-comms-hub/internal/channels"

// Meta is free-form request context echoed into the audit log. The
// dispatcher trusts these values as passed; authorization happens upstream.
type Meta struct {
	UserID        string `json:"userId,omitempty"`
	PracticeID    string `json:"practiceId,omitempty"`
	Source        string `json:"source,omitempty"`
	Direction     string `json:"direction,omitempty"`
	PatientID     string `json:"patientId,omitempty"`
	AppointmentID string `json:"appointmentId,omitempty"`
}

func (m Meta) asMap() map[string]any {
	out := map[string]any{}
	if m.UserID != "" {
		out["userId"] = m.UserID
	}
	if m.PracticeID != "" {
		out["practiceId"] = m.PracticeID
	}
	if m.Source != "" {
		out["source"] = m.Source
	}
	if m.Direction != "" {
		out["direction"] = m.Direction
	}
	if m.PatientID != "" {
		out["patientId"] = m.PatientID
	}
	if m.AppointmentID != "" {
		out["appointmentId"] = m.AppointmentID
	}
	return out
}

// Request describes one send. Exactly one of Template or CustomMessage must
// be supplied; when both are present the template wins.
type Request struct {
	Channel       channels.Channel  `json:"channel"`
	Recipient     string            `json:"recipient"`
	Template      string            `json:"template,omitempty"`
	Data          map[string]string `json:"data,omitempty"`
	CustomMessage string            `json:"customMessage,omitempty"`
	Subject       string            `json:"subject,omitempty"`
	Meta          Meta              `json:"meta,omitempty"`
}

// Response is the success payload returned to callers.
type Response struct {
	Success   bool             `json:"success"`
	Channel   channels.Channel `json:"channel"`
	Recipient string           `json:"recipient"`
	MessageID string           `json:"messageId,omitempty"`
	Status    string           `json:"status"`
	Details   map[string]any   `json:"details,omitempty"`
}

// ErrorResponse is the failure payload returned to callers.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
