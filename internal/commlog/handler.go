package commlog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/wolfman30/practice-comms-hub/internal/tenancy"
	"github.com/wolfman30/practice-comms-hub/pkg/logging"
)

// Handler serves the tenant-scoped communication history.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a history handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// List handles GET /v1/communications.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	practiceID, ok := tenancy.PracticeIDFromContext(r.Context())
	if !ok {
		http.Error(w, "practice id required", http.StatusBadRequest)
		return
	}
	if h.store == nil {
		http.Error(w, "history unavailable", http.StatusServiceUnavailable)
		return
	}

	filter := ListFilter{
		Channel: r.URL.Query().Get("channel"),
		Status:  r.URL.Query().Get("status"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	entries, err := h.store.List(r.Context(), practiceID, filter)
	if err != nil {
		h.logger.Error("failed to list communication history", "error", err, "practice_id", practiceID)
		http.Error(w, "failed to list communications", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"communications": entries,
		"count":          len(entries),
	})
}
