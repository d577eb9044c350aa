package http

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// handleMetrics writes request, security and cache counters in the
// Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	traceMetrics := s.tracer.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	writeMetric(w, "http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	writeMetric(w, "http_response_time_avg_microseconds", "gauge", "Average response time", traceMetrics.AverageResponseTime)
	writeMetric(w, "transactions_recorded_total", "counter", "Transactions recorded since start", s.recorded.Load())
	writeMetric(w, "rate_limit_rejected_total", "counter", "Requests rejected by the rate limiter", rateLimitMetrics.Rejected)
	writeMetric(w, "active_rate_limit_clients", "gauge", "Currently tracked rate limit clients", rateLimitMetrics.ClientCount)
	writeMetric(w, "suspicious_requests_total", "counter", "Requests blocked as suspicious", s.detector.SuspiciousRequests())

	if s.deps.Dashboard != nil {
		if stats, ok := s.deps.Dashboard.CacheStats(); ok {
			writeMetric(w, "dashboard_cache_hits_total", "counter", "Dashboard cache hits", stats.Hits)
			writeMetric(w, "dashboard_cache_misses_total", "counter", "Dashboard cache misses", stats.Misses)
			writeMetric(w, "dashboard_cache_entries", "gauge", "Dashboard cache entries", stats.Size)
		}
	}

	writeMetric(w, "uptime_seconds", "gauge", "Application uptime in seconds", int64(time.Since(s.started).Seconds()))
}

func writeMetric[N int | int64 | uint64](w io.Writer, name, typ, help string, v N) {
	fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(w, "# TYPE %s %s\n", name, typ)
	fmt.Fprintf(w, "%s %d\n\n", name, v)
}
