package sms

import (
	"strings"

	"github.com/wolfman30/practice-comms-hub/internal/channels"
)

// NormalizePhone converts a free-form phone number into E.164-like form.
// Non-digits are stripped; a bare 10-digit number is assumed US and gets a
// +1 prefix; an 11-digit number already starting with 1 passes through.
// Normalizing an already-normalized number is a no-op.
func NormalizePhone(value string) (string, error) {
	digits := stripNonDigits(value)
	if len(digits) == 10 {
		return "+1" + digits, nil
	}
	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		return "+" + digits, nil
	}
	if len(digits) < 10 || len(digits) > 15 {
		return "", channels.NewValidationError("phone number %q has %d digits, expected 10-15", value, len(digits))
	}
	return "+" + digits, nil
}

func stripNonDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
