package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics holds the bot's Prometheus collectors on a private registry.
//
// A nil *Metrics is valid and records nothing, so tests and callers that do
// not care about metrics can pass nil.
type Metrics struct {
	registry *prometheus.Registry

	// Dispatch counts which handler consumed a message.
	// Labels: handler (admin|help|lookup|ignored)
	Dispatch *prometheus.CounterVec

	// StoreWrites counts persistence attempts of the store document.
	// Labels: result (ok|error)
	StoreWrites *prometheus.CounterVec

	// Reconnects counts connection attempts after the first one.
	// Labels: platform (discord|irc)
	Reconnects *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Dispatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpbot_dispatch_total",
			Help: "Messages dispatched, by the handler that consumed them.",
		}, []string{"handler"}),
		StoreWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpbot_store_writes_total",
			Help: "Store document writes, by result.",
		}, []string{"result"}),
		Reconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpbot_reconnects_total",
			Help: "Reconnect attempts, by platform.",
		}, []string{"platform"}),
	}
	m.registry.MustRegister(m.Dispatch, m.StoreWrites, m.Reconnects)
	return m
}

func (m *Metrics) Dispatched(handler string) {
	if m == nil {
		return
	}
	m.Dispatch.WithLabelValues(handler).Inc()
}

func (m *Metrics) StoreWritten(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.StoreWrites.WithLabelValues(result).Inc()
}

func (m *Metrics) Reconnected(platform string) {
	if m == nil {
		return
	}
	m.Reconnects.WithLabelValues(platform).Inc()
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.S().Warnw("metrics_shutdown_failed", "error", err)
		}
	}()

	zap.S().Infow("Serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
