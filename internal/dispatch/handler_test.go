package dispatch

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/wolfman30/practice-comms-hub/internal/channels"
	"github.com/wolfman30/practice-comms-hub/internal/channels/sms"
	"github.com/wolfman30/practice-comms-hub/internal/commlog"
	"github.com/wolfman30/practice-comms-hub/internal/templates"
	"github.com/wolfman30/practice-comms-hub/internal/tenancy"
)

func TestSendEndToEndSMS(t *testing.T) {
	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"sid": "SM777", "status": "queued"})
	}))
	defer vendor.Close()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	mock.ExpectQuery("INSERT INTO communication_logs").
		WithArgs(pgxmock.AnyArg(), "7b0a4fd2-30c2-4e1f-9df6-30a34cafd811", "sms", "555-987-6543",
			"", "Appt tomorrow 2pm", "", commlog.StatusSent, pgxmock.AnyArg(), "", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(uuid.New()))

	smsSender := sms.NewSender(sms.Config{
		AccountSID: "AC1",
		AuthToken:  "token",
		FromNumber: "+15550001111",
		BaseURL:    vendor.URL,
	}, nil)
	dispatcher := NewDispatcher(nil, map[channels.Channel]channels.Sender{channels.SMS: smsSender},
		commlog.NewRecorder(commlog.NewStore(mock), nil, nil), nil, nil)
	handler := NewHandler(dispatcher, nil)

	body := `{"channel":"sms","recipient":"555-987-6543","customMessage":"Appt tomorrow 2pm"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/communications:send", strings.NewReader(body))
	req = req.WithContext(tenancy.WithPracticeID(req.Context(), "7b0a4fd2-30c2-4e1f-9df6-30a34cafd811"))
	rec := httptest.NewRecorder()

	handler.Send(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Channel != channels.SMS || resp.Status != "sent" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Recipient != "+15559876543" {
		t.Fatalf("expected normalized recipient, got %q", resp.Recipient)
	}
	if resp.MessageID != "SM777" {
		t.Fatalf("expected vendor message id, got %q", resp.MessageID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected one sent log row: %v", err)
	}
}

func TestSendValidationFailureReturns400(t *testing.T) {
	dispatcher := NewDispatcher(nil, map[channels.Channel]channels.Sender{}, nil, nil, nil)
	handler := NewHandler(dispatcher, nil)

	body := `{"channel":"email","recipient":"p@x.com"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/communications:send", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Send(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success || resp.Error == "" {
		t.Fatalf("unexpected error payload %+v", resp)
	}
}

func TestSendTemplateNotFoundReturns404(t *testing.T) {
	ts := &fakeTemplates{byKey: map[string]templates.Template{}}
	sender := &fakeSender{result: channels.Result{Status: "sent"}}
	dispatcher := NewDispatcher(ts, map[channels.Channel]channels.Sender{channels.SMS: sender}, nil, nil, nil)
	handler := NewHandler(dispatcher, nil)

	body := `{"channel":"sms","recipient":"555-987-6543","template":"nope"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/communications:send", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Send(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown template, got %d", rec.Code)
	}
	if sender.calls != 0 {
		t.Fatalf("vendor must not be called, got %d calls", sender.calls)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success || resp.Error == "" {
		t.Fatalf("unexpected error payload %+v", resp)
	}
}

func TestSendProviderFailureReturns500(t *testing.T) {
	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 20500, "message": "gateway down"})
	}))
	defer vendor.Close()

	smsSender := sms.NewSender(sms.Config{
		AccountSID: "AC1",
		AuthToken:  "token",
		FromNumber: "+15550001111",
		BaseURL:    vendor.URL,
	}, nil)
	dispatcher := NewDispatcher(nil, map[channels.Channel]channels.Sender{channels.SMS: smsSender}, nil, nil, nil)
	handler := NewHandler(dispatcher, nil)

	body := `{"channel":"sms","recipient":"555-987-6543","customMessage":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/communications:send", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Send(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(resp.Error, "gateway down") {
		t.Fatalf("vendor message should surface to the operator, got %q", resp.Error)
	}
}

func TestSendBadJSON(t *testing.T) {
	dispatcher := NewDispatcher(nil, nil, nil, nil, nil)
	handler := NewHandler(dispatcher, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/communications:send", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	handler.Send(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
