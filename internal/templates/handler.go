package templates

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/practice-comms-hub/pkg/logging"
)

// Handler serves operator-facing template reads (preview before send).
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a template handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// Get handles GET /v1/templates/{templateID}?channel=sms.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	channel := r.URL.Query().Get("channel")
	if templateID == "" || channel == "" {
		http.Error(w, "template id and channel required", http.StatusBadRequest)
		return
	}

	tmpl, err := h.store.Get(r.Context(), templateID, channel)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to resolve template", "error", err, "template_id", templateID, "channel", channel)
		http.Error(w, "failed to resolve template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tmpl)
}

// List handles GET /v1/templates?channel=sms (persisted rows only).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.List(r.Context(), r.URL.Query().Get("channel"))
	if err != nil {
		h.logger.Error("failed to list templates", "error", err)
		http.Error(w, "failed to list templates", http.StatusInternalServerError)
		return
	}
	if out == nil {
		out = []Template{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"templates": out, "count": len(out)})
}
