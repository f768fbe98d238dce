package api

import (
	"encoding/json"
	"net/http"

	"github.com/heysubinoy/pyazdict/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler returns current per-dictionary metrics as JSON.
func MetricsHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		response := make(map[string]any)
		for _, snap := range sess.Metrics() {
			operations := make(map[string]uint64, len(snap.Operations))
			failures := make(map[string]uint64, len(snap.Operations))
			latency := make(map[string]string, len(snap.Operations))
			for op, m := range snap.Operations {
				operations[op] = m.Count
				failures[op] = m.Failures
				latency[op] = m.AvgLatency.String()
			}
			response[snap.Dictionary] = map[string]any{
				"operations":  operations,
				"failures":    failures,
				"avg_latency": latency,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

// RegisterMetrics mounts the JSON snapshot at /metrics and the Prometheus
// exposition for gatherer at /metrics/prometheus.
func RegisterMetrics(mux *http.ServeMux, sess *session.Session, gatherer prometheus.Gatherer) {
	mux.Handle("/metrics", MetricsHandler(sess))
	mux.Handle("/metrics/prometheus", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
