package sms

import (
	"testing"

	"github.com/wolfman30/practice-comms-hub/internal/channels"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"555-123-4567", "+15551234567"},
		{"(555) 123-4567", "+15551234567"},
		{"15551234567", "+15551234567"},
		{"+15551234567", "+15551234567"},
		{"+44 20 7946 0958", "+442079460958"},
	}
	for _, tc := range cases {
		got, err := NormalizePhone(tc.in)
		if err != nil {
			t.Fatalf("normalize %q: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("normalize %q = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	once, err := NormalizePhone("555-987-6543")
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	twice, err := NormalizePhone(once)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if once != twice {
		t.Fatalf("normalization not idempotent: %q then %q", once, twice)
	}
}

func TestNormalizePhoneRejectsBadLengths(t *testing.T) {
	for _, in := range []string{"", "12345", "555-1234", "12345678901234567890"} {
		if _, err := NormalizePhone(in); !channels.IsValidation(err) {
			t.Errorf("expected validation error for %q, got %v", in, err)
		}
	}
}

func TestSegments(t *testing.T) {
	if got := Segments(""); got != 0 {
		t.Errorf("empty body segments = %d, want 0", got)
	}
	if got := Segments("short"); got != 1 {
		t.Errorf("short body segments = %d, want 1", got)
	}
	long := make([]byte, 161)
	for i := range long {
		long[i] = 'a'
	}
	if got := Segments(string(long)); got != 2 {
		t.Errorf("161-char body segments = %d, want 2", got)
	}
	if got := EstimatedCostCents(string(long), 2); got != 4 {
		t.Errorf("estimated cost = %d, want 4", got)
	}
}
