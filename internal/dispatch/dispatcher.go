// Package dispatch turns one Dispatch Request into exactly one vendor call
// plus one audit log entry. There is no retry, no queuing, and no
// idempotency key: a request either succeeds or fails synchronously.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/practice-comms-hub/internal/channels"
	"github.com/wolfman30/practice-comms-hub/internal/commlog"
	"github.com/wolfman30/practice-comms-hub/internal/observability/metrics"
	"github.com/wolfman30/practice-comms-hub/internal/templates"
	"github.com/wolfman30/practice-comms-hub/pkg/logging"
)

// TemplateSource resolves templates with persisted-first precedence.
type TemplateSource interface {
	Get(ctx context.Context, id, channel string) (templates.Template, error)
}

// Dispatcher is the unified entry point for all outbound communications.
type Dispatcher struct {
	templates TemplateSource
	senders   map[channels.Channel]channels.Sender
	recorder  *commlog.Recorder
	metrics   *metrics.DispatchMetrics
	logger    *logging.Logger
}

// NewDispatcher wires the dispatcher. templates may be nil only when no
// request will carry a template id; senders must cover every channel the
// deployment accepts.
func NewDispatcher(ts TemplateSource, senders map[channels.Channel]channels.Sender, recorder *commlog.Recorder, m *metrics.DispatchMetrics, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		templates: ts,
		senders:   senders,
		recorder:  recorder,
		metrics:   m,
		logger:    logger,
	}
}

// Dispatch runs the per-request state machine: validate, resolve content,
// send, log, respond. Validation and template-resolution failures abort
// before any vendor call and are not logged; vendor failures are always
// recorded as a failed entry with the vendor's message preserved.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Response, error) {
	if err := d.validate(req); err != nil {
		d.metrics.ObserveDispatch(string(req.Channel), "rejected")
		return Response{}, err
	}

	subject, content, err := d.resolveContent(ctx, req)
	if err != nil {
		d.metrics.ObserveDispatch(string(req.Channel), "rejected")
		return Response{}, err
	}

	// The email subject gate runs here so a bad request never reaches the
	// vendor adapter.
	if req.Channel == channels.Email && strings.TrimSpace(subject) == "" {
		d.metrics.ObserveDispatch(string(req.Channel), "rejected")
		return Response{}, channels.NewValidationError("email requires a subject, none supplied or resolvable from template")
	}

	sender, ok := d.senders[req.Channel]
	if !ok || sender == nil {
		err := &channels.ProviderError{Provider: string(req.Channel), Message: "no sender configured for channel"}
		d.record(ctx, req, subject, content, commlog.StatusFailed, nil, channels.Result{}, err)
		d.metrics.ObserveDispatch(string(req.Channel), "failed")
		return Response{}, err
	}

	started := time.Now()
	result, err := sender.Send(ctx, channels.OutboundMessage{
		To:      req.Recipient,
		Subject: subject,
		Body:    content,
		Meta:    metaStrings(req.Meta),
	})
	d.metrics.ObserveProviderLatency(string(req.Channel), time.Since(started).Seconds())

	if err != nil {
		d.logger.Error("dispatch failed",
			"channel", req.Channel,
			"recipient", req.Recipient,
			"error", err,
		)
		d.record(ctx, req, subject, content, commlog.StatusFailed, nil, result, err)
		d.metrics.ObserveDispatch(string(req.Channel), "failed")
		return Response{}, fmt.Errorf("dispatch: %s: %w", req.Channel, err)
	}

	recipient := req.Recipient
	if normalized, ok := result.Details["to_normalized"].(string); ok && normalized != "" {
		recipient = normalized
	}

	// Voice's "initiated" is non-terminal: the entry stays pending until a
	// status callback resolves it.
	logStatus := commlog.StatusSent
	var sentAt *time.Time
	if result.Status == "initiated" {
		logStatus = commlog.StatusPending
	} else {
		now := time.Now().UTC()
		sentAt = &now
	}
	d.record(ctx, req, subject, content, logStatus, sentAt, result, nil)
	d.metrics.ObserveDispatch(string(req.Channel), result.Status)

	d.logger.Info("dispatch succeeded",
		"channel", req.Channel,
		"recipient", recipient,
		"provider", result.Provider,
		"message_id", result.MessageID,
		"status", result.Status,
	)
	return Response{
		Success:   true,
		Channel:   req.Channel,
		Recipient: recipient,
		MessageID: result.MessageID,
		Status:    result.Status,
		Details:   result.Details,
	}, nil
}

func (d *Dispatcher) validate(req Request) error {
	if req.Channel == "" {
		return channels.NewValidationError("channel is required")
	}
	if !req.Channel.Valid() {
		return channels.NewValidationError("unknown channel %q", req.Channel)
	}
	if strings.TrimSpace(req.Recipient) == "" {
		return channels.NewValidationError("recipient is required")
	}
	if req.Template == "" && strings.TrimSpace(req.CustomMessage) == "" {
		return channels.NewValidationError("either template or customMessage is required")
	}
	return nil
}

// resolveContent prefers the template over customMessage when both are set.
// A template-provided subject wins over the request's subject.
func (d *Dispatcher) resolveContent(ctx context.Context, req Request) (subject, content string, err error) {
	if req.Template != "" {
		if d.templates == nil {
			return "", "", fmt.Errorf("dispatch: template %q requested: %w", req.Template, templates.ErrNotFound)
		}
		tmpl, err := d.templates.Get(ctx, req.Template, string(req.Channel))
		if err != nil {
			return "", "", fmt.Errorf("dispatch: resolve template %q: %w", req.Template, err)
		}
		rendered := templates.Render(tmpl, req.Data)
		subject = rendered.Subject
		if subject == "" {
			subject = req.Subject
		}
		return subject, rendered.Content, nil
	}
	return req.Subject, req.CustomMessage, nil
}

func (d *Dispatcher) record(ctx context.Context, req Request, subject, content, status string, sentAt *time.Time, result channels.Result, sendErr error) {
	metadata := req.Meta.asMap()
	if result.Provider != "" {
		metadata["provider"] = result.Provider
	}
	if len(result.Details) > 0 {
		metadata["provider_response"] = result.Details
	}
	entry := commlog.Entry{
		PracticeID: req.Meta.PracticeID,
		Type:       string(req.Channel),
		Recipient:  req.Recipient,
		Subject:    subject,
		Message:    content,
		TemplateID: req.Template,
		Status:     status,
		SentAt:     sentAt,
		Metadata:   metadata,
	}
	if sendErr != nil {
		entry.ErrorMessage = sendErr.Error()
	}
	d.recorder.Record(ctx, entry)
}

func metaStrings(m Meta) map[string]string {
	out := map[string]string{}
	for k, v := range m.asMap() {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
