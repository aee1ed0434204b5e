package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/practice-comms-hub/internal/channels"
	"github.com/wolfman30/practice-comms-hub/pkg/logging"
)

var smsTracer = otel.Tracer("commshub.internal.channels.sms")

const providerName = "twilio"

// Sender posts SMS messages to the Twilio REST API over HTTP Basic auth.
// Exactly one attempt per call: retry policy belongs to the caller, not the
// dispatch path.
type Sender struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	rateCents  int
	httpClient *http.Client
	logger     *logging.Logger
}

// Config holds Twilio credentials and advisory pricing.
type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	// BaseURL overrides the Twilio API host, for tests.
	BaseURL          string
	SegmentRateCents int
}

// NewSender builds a sender with sane defaults.
func NewSender(cfg Config, logger *logging.Logger) *Sender {
	if logger == nil {
		logger = logging.Default()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.twilio.com"
	}
	rate := cfg.SegmentRateCents
	if rate <= 0 {
		rate = 1
	}
	return &Sender{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.FromNumber,
		baseURL:    baseURL,
		rateCents:  rate,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

var _ channels.Sender = (*Sender)(nil)

// Send normalizes the recipient, posts one message, and maps any non-2xx
// vendor response to a ProviderError carrying the vendor's message.
func (s *Sender) Send(ctx context.Context, msg channels.OutboundMessage) (channels.Result, error) {
	if strings.TrimSpace(msg.Body) == "" {
		return channels.Result{}, channels.NewValidationError("sms body required")
	}
	to, err := NormalizePhone(msg.To)
	if err != nil {
		return channels.Result{}, err
	}
	if s.accountSID == "" || s.authToken == "" {
		return channels.Result{}, &channels.ProviderError{Provider: providerName, Message: "credentials missing"}
	}
	if s.from == "" {
		return channels.Result{}, &channels.ProviderError{Provider: providerName, Message: "from number missing"}
	}

	ctx, span := smsTracer.Start(ctx, "channels.sms.send")
	defer span.End()
	span.SetAttributes(
		attribute.String("comms.to", to),
		attribute.String("comms.practice_id", msg.Meta["practiceId"]),
	)

	payload := url.Values{}
	payload.Set("To", to)
	payload.Set("From", s.from)
	payload.Set("Body", msg.Body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
	if err != nil {
		return channels.Result{}, fmt.Errorf("sms: build request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return channels.Result{}, &channels.ProviderError{Provider: providerName, Message: err.Error()}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		provErr := &channels.ProviderError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Message:    parseErrorBody(body),
		}
		span.RecordError(provErr)
		return channels.Result{}, provErr
	}

	var parsed struct {
		SID    string `json:"sid"`
		Status string `json:"status"`
	}
	_ = json.Unmarshal(body, &parsed)

	segments := Segments(msg.Body)
	s.logger.Info("sms sent",
		"to", to,
		"message_sid", parsed.SID,
		"segments", segments,
	)
	return channels.Result{
		Provider:  providerName,
		MessageID: parsed.SID,
		Status:    "sent",
		Details: map[string]any{
			"to_normalized":        to,
			"segments":             segments,
			"estimated_cost_cents": EstimatedCostCents(msg.Body, s.rateCents),
			"provider_status":      parsed.Status,
		},
	}, nil
}

type apiError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
}

func parseErrorBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "empty response body"
	}
	var parsed apiError
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		if parsed.Code != 0 {
			return fmt.Sprintf("code %d: %s", parsed.Code, parsed.Message)
		}
		return parsed.Message
	}
	// Fallback: return raw body (truncated by the read limit).
	return trimmed
}
