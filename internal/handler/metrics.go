package handler

import (
	"fmt"
	"net/http"

	"github.com/gridboard/gridboard/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "gridboard_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "gridboard_users_signed_in_total %d\n", snap.UsersSignedIn)
	writeMetric(w, "gridboard_users_signed_out_total %d\n", snap.UsersSignedOut)

	writeMetric(w, "gridboard_layouts_loaded_total{source=\"stored\"} %d\n", snap.LayoutsLoadedStored)
	writeMetric(w, "gridboard_layouts_loaded_total{source=\"default\"} %d\n", snap.LayoutsLoadedDefault)
	writeMetric(w, "gridboard_layouts_loaded_total{source=\"fallback\"} %d\n", snap.LayoutsLoadedFallback)
	writeMetric(w, "gridboard_layouts_persisted_total %d\n", snap.LayoutsPersisted)

	writeMetric(w, "gridboard_widgets_toggled_total{state=\"enabled\"} %d\n", snap.WidgetsEnabled)
	writeMetric(w, "gridboard_widgets_toggled_total{state=\"disabled\"} %d\n", snap.WidgetsDisabled)
	writeMetric(w, "gridboard_quota_rejections_total %d\n", snap.QuotaRejections)
	writeMetric(w, "gridboard_reorder_rejections_total %d\n", snap.ReorderRejections)

	writeMetric(w, "gridboard_layout_persist_duration_seconds_count %d\n", snap.PersistDurationCount)
	writeMetric(w, "gridboard_layout_persist_duration_seconds_sum %.6f\n", float64(snap.PersistDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
