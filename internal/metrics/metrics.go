// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hotel_admin"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	StatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "hotel_status_transitions_total", Help: "Hotel status transitions."},
		[]string{"from", "to"},
	)
	AuditBacklog = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: namespace, Name: "hotel_audit_backlog", Help: "Hotels waiting for audit."},
	)
	OldestPendingAge = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: namespace, Name: "hotel_oldest_pending_seconds", Help: "Age of the oldest pending hotel."},
	)
	UploadedImages = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "uploaded_images_total", Help: "Accepted or rejected image uploads."},
		[]string{"entity", "result"}, // entity: hotel|room, result: stored|rejected
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"},
	)
	WebsocketSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: namespace, Name: "websocket_sessions", Help: "Open websocket sessions."},
	)
)

// InitRegistry registers every collector on a fresh registry
func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		HTTPRequests, HTTPLatency,
		StatusTransitions, AuditBacklog, OldestPendingAge,
		UploadedImages, CacheEvents, WebsocketSessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveTransition(from, to string) {
	StatusTransitions.WithLabelValues(from, to).Inc()
}

func ObserveUpload(entity, result string) {
	UploadedImages.WithLabelValues(entity, result).Inc()
}

// CacheObserver returns a callback that counts events for the named cache
func CacheObserver(cache string) func(event string) {
	return func(event string) {
		CacheEvents.WithLabelValues(cache, event).Inc()
	}
}
