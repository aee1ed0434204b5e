package router

import (
	"net/http"
	"strings"

	"github.com/wolfman30/practice-comms-hub/internal/tenancy"
)

const practiceHeader = "X-Practice-ID"

// requirePracticeID rejects tenant-scoped requests without a practice id and
// stores the id in context for downstream handlers.
func requirePracticeID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		practiceID := strings.TrimSpace(r.Header.Get(practiceHeader))
		if practiceID == "" {
			http.Error(w, "X-Practice-ID header required", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r.WithContext(tenancy.WithPracticeID(r.Context(), practiceID)))
	})
}
