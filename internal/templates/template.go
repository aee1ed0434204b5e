package templates

import "errors"

// Channel values a template can target.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelVoice = "voice"
)

// ErrNotFound is returned when neither a persisted row nor a builtin
// template matches the requested (id, channel) pair.
var ErrNotFound = errors.New("templates: template not found")

// Template is a reusable message skeleton with named placeholders.
// Rows are authored by operators and read-only at dispatch time.
type Template struct {
	ID        string   `json:"id"`
	Channel   string   `json:"channel"`
	Subject   string   `json:"subject,omitempty"`
	Content   string   `json:"content"`
	Variables []string `json:"variables,omitempty"`
}
