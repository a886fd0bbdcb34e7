package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// AnnouncerMetrics holds the metrics of a single announce run. Each run
// owns its registry so metrics never leak between runs.
type AnnouncerMetrics struct {
	registry *prometheus.Registry

	transactions   *prometheus.CounterVec
	accounts       *prometheus.CounterVec
	endpointHeight prometheus.Gauge
	probes         *prometheus.CounterVec
}

func NewAnnouncerMetrics() *AnnouncerMetrics {
	registry := prometheus.NewRegistry()

	m := &AnnouncerMetrics{
		registry: registry,
		transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "announcer_transactions_total",
				Help: "The number of transactions processed, by kind and result",
			},
			[]string{"kind", "result"},
		),
		accounts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "announcer_accounts_total",
				Help: "The number of accounts processed, by terminal state",
			},
			[]string{"state"},
		),
		endpointHeight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "announcer_endpoint_height",
				Help: "The chain height reported by the selected endpoint",
			},
		),
		probes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "announcer_endpoint_probes_total",
				Help: "The number of endpoint probes, by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(m.transactions, m.accounts, m.endpointHeight, m.probes)

	return m
}

func (m *AnnouncerMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordTransaction records the result of one transaction: confirmed,
// partial, declined or failed.
func (m *AnnouncerMetrics) RecordTransaction(kind, result string) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(kind, result).Inc()
}

func (m *AnnouncerMetrics) RecordAccount(state string) {
	if m == nil {
		return
	}
	m.accounts.WithLabelValues(state).Inc()
}

func (m *AnnouncerMetrics) RecordEndpointHeight(height uint64) {
	if m == nil {
		return
	}
	m.endpointHeight.Set(float64(height))
}

func (m *AnnouncerMetrics) RecordProbe(healthy bool) {
	if m == nil {
		return
	}
	result := "failed"
	if healthy {
		result = "healthy"
	}
	m.probes.WithLabelValues(result).Inc()
}

// Push sends the collected metrics to the configured Pushgateway.
func (m *AnnouncerMetrics) Push(ctx context.Context, cfg *Config) error {
	if m == nil || cfg == nil || !cfg.Enabled() {
		return nil
	}

	return push.New(cfg.PushGatewayURL, cfg.JobName).
		Gatherer(m.registry).
		PushContext(ctx)
}
