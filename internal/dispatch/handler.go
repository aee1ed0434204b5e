package dispatch

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/practice-comms-hub/internal/channels"
	"github.com/wolfman30/practice-comms-hub/internal/templates"
	"github.com/wolfman30/practice-comms-hub/internal/tenancy"
	"github.com/wolfman30/practice-comms-hub/pkg/logging"
)

var dispatchTracer = otel.Tracer("commshub.internal.dispatch")

// Handler exposes the dispatcher over HTTP.
type Handler struct {
	dispatcher *Dispatcher
	logger     *logging.Logger
}

// NewHandler creates the dispatch HTTP handler.
func NewHandler(dispatcher *Dispatcher, logger *logging.Logger) *Handler {
	if dispatcher == nil {
		panic("dispatch: dispatcher cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{dispatcher: dispatcher, logger: logger}
}

// Send handles POST /v1/communications:send.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	ctx, span := dispatchTracer.Start(r.Context(), "dispatch.send")
	defer span.End()

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The tenant header backs meta.practiceId when the caller didn't set it.
	if req.Meta.PracticeID == "" {
		if practiceID, ok := tenancy.PracticeIDFromContext(ctx); ok {
			req.Meta.PracticeID = practiceID
		}
	}

	span.SetAttributes(
		attribute.String("comms.channel", string(req.Channel)),
		attribute.String("comms.practice_id", req.Meta.PracticeID),
		attribute.String("comms.template", req.Template),
	)

	resp, err := h.dispatcher.Dispatch(ctx, req)
	if err != nil {
		span.RecordError(err)
		switch {
		case channels.IsValidation(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, templates.ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Success: false, Error: message})
}
