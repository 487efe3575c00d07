// Package metrics exposes simulation activity as prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements mapengine.Recorder.
type Collector struct {
	registry *prometheus.Registry

	created   *prometheus.CounterVec
	completed prometheus.Counter
	active    prometheus.Gauge
	logs      prometheus.Gauge
}

func NewCollector() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}
	c.created = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "threatmap",
		Name:      "events_created_total",
		Help:      "Attack events created, by trigger source",
	}, []string{"source"})
	c.completed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "threatmap",
		Name:      "events_completed_total",
		Help:      "Attack events that reached their destination",
	})
	c.active = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "threatmap",
		Name:      "active_events",
		Help:      "Attack events currently in flight",
	})
	c.logs = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "threatmap",
		Name:      "log_entries",
		Help:      "Lines currently held by the log feed",
	})
	c.registry.MustRegister(c.created, c.completed, c.active, c.logs)
	return c
}

func (c *Collector) EventCreated(source string) { c.created.WithLabelValues(source).Inc() }
func (c *Collector) EventsCompleted(n int)      { c.completed.Add(float64(n)) }

func (c *Collector) Observe(activeEvents, logEntries int) {
	c.active.Set(float64(activeEvents))
	c.logs.Set(float64(logEntries))
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	slog.Info("Metrics listening", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
