package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spec-kit/admin-service/internal/config"
)

// Metrics exposes Prometheus collectors for the auth flow.
type Metrics struct {
	registry *prometheus.Registry

	authAttempts *prometheus.CounterVec
	rateLimited  prometheus.Counter
	cacheLookups *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
}

// NewMetrics registers collectors on a private registry.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "rate_limited_total",
			Help:      "Logins rejected by the rate limiter.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Snapshot cache lookups by result.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by path, method and status.",
		}, []string{"path", "method", "status"}),
	}

	registry.MustRegister(m.authAttempts, m.rateLimited, m.cacheLookups, m.httpRequests)
	return m
}

// RecordAuthAttempt counts a login attempt outcome
// (success, invalid_credentials, user_disabled, user_not_found, error).
func (m *Metrics) RecordAuthAttempt(outcome string) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(outcome).Inc()
}

// RecordRateLimited counts a rate-limited login.
func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// RecordCacheLookup counts a snapshot cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// RecordRequest counts a completed HTTP request.
func (m *Metrics) RecordRequest(path, method, status string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(path, method, status).Inc()
}

// ServeMetrics starts a side listener exposing /metrics. It returns the
// server so the caller can shut it down.
func ServeMetrics(cfg config.MetricsConfig, m *Metrics, logger *zap.Logger) *http.Server {
	if !cfg.Enabled || m == nil {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics listener stopped", zap.Error(err))
		}
	}()
	logger.Info("metrics listening", zap.String("addr", cfg.Addr))
	return srv
}
