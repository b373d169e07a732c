package handler

import (
	"fmt"
	"net/http"

	"github.com/petcommunity/petcommunity/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns counters in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "petcommunity_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "petcommunity_logins_total{status=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "petcommunity_logins_total{status=\"failed\"} %d\n", snap.LoginsFailed)

	writeMetric(w, "petcommunity_user_cache_hits_total %d\n", snap.UserCacheHits)
	writeMetric(w, "petcommunity_user_cache_misses_total %d\n", snap.UserCacheMisses)

	writeMetric(w, "petcommunity_pets_created_total %d\n", snap.PetsCreated)
	writeMetric(w, "petcommunity_pets_updated_total %d\n", snap.PetsUpdated)
	writeMetric(w, "petcommunity_pets_deleted_total %d\n", snap.PetsDeleted)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
