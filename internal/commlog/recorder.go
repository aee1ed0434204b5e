package commlog

import (
	"context"

	"github.com/wolfman30/practice-comms-hub/internal/observability/metrics"
	"github.com/wolfman30/practice-comms-hub/pkg/logging"
)

// Recorder wraps the store with best-effort semantics: a failed audit write
// is logged, counted, and swallowed so it can never mask the send outcome it
// records.
type Recorder struct {
	store   *Store
	metrics *metrics.DispatchMetrics
	logger  *logging.Logger
}

// NewRecorder builds a best-effort recorder. store may be nil; Record then
// only emits a structured log line. m may be nil.
func NewRecorder(store *Store, m *metrics.DispatchMetrics, logger *logging.Logger) *Recorder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Recorder{store: store, metrics: m, logger: logger}
}

// Record persists one entry, returning nothing. Failures are not propagated.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if r == nil {
		return
	}
	if r.store == nil {
		r.logger.Info("communication attempt (no log store configured)",
			"channel", e.Type, "recipient", e.Recipient, "status", e.Status)
		return
	}
	if _, err := r.store.Insert(ctx, e); err != nil {
		r.metrics.ObserveLogWriteError()
		r.logger.Error("failed to persist communication log entry",
			"error", err,
			"channel", e.Type,
			"recipient", e.Recipient,
			"status", e.Status,
		)
	}
}
