package sms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wolfman30/practice-comms-hub/internal/channels"
)

func newTestSender(t *testing.T, handler http.HandlerFunc) (*Sender, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sender := NewSender(Config{
		AccountSID:       "AC123",
		AuthToken:        "secret",
		FromNumber:       "+15550001111",
		BaseURL:          srv.URL,
		SegmentRateCents: 1,
	}, nil)
	return sender, srv
}

func TestSendSuccess(t *testing.T) {
	var gotTo, gotUser string
	sender, _ := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotTo = r.PostFormValue("To")
		gotUser, _, _ = r.BasicAuth()
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"sid": "SM123", "status": "queued"})
	})

	res, err := sender.Send(context.Background(), channels.OutboundMessage{
		To:   "555-987-6543",
		Body: "Appt tomorrow 2pm",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotTo != "+15559876543" {
		t.Errorf("vendor received To=%q, want normalized +15559876543", gotTo)
	}
	if gotUser != "AC123" {
		t.Errorf("expected basic auth user AC123, got %q", gotUser)
	}
	if res.MessageID != "SM123" || res.Status != "sent" || res.Provider != "twilio" {
		t.Errorf("unexpected result %+v", res)
	}
	if res.Details["segments"] != 1 {
		t.Errorf("expected 1 segment, got %v", res.Details["segments"])
	}
}

func TestSendVendorErrorSurfacesMessage(t *testing.T) {
	sender, _ := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 21211, "message": "Invalid 'To' number"})
	})

	_, err := sender.Send(context.Background(), channels.OutboundMessage{
		To:   "555-987-6543",
		Body: "hello",
	})
	var pe *channels.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if pe.StatusCode != http.StatusBadRequest || pe.Message != "code 21211: Invalid 'To' number" {
		t.Errorf("unexpected provider error %+v", pe)
	}
}

func TestSendValidationBeforeVendorCall(t *testing.T) {
	calls := 0
	sender, _ := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	})

	if _, err := sender.Send(context.Background(), channels.OutboundMessage{To: "123", Body: "hi"}); !channels.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := sender.Send(context.Background(), channels.OutboundMessage{To: "555-987-6543"}); !channels.IsValidation(err) {
		t.Fatalf("expected validation error for empty body, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("vendor called %d times during validation failures", calls)
	}
}

func TestSendMissingCredentials(t *testing.T) {
	sender := NewSender(Config{}, nil)
	_, err := sender.Send(context.Background(), channels.OutboundMessage{To: "555-987-6543", Body: "hi"})
	if !channels.IsProvider(err) {
		t.Fatalf("missing credentials should be a provider error, got %v", err)
	}
}
