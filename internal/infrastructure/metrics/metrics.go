package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
)

// Metrics 一次回放的指标，使用独立的 Registry，不注册到全局
type Metrics struct {
	registry *prometheus.Registry

	recordsTotal    *prometheus.CounterVec
	rejectionsTotal *prometheus.CounterVec
	accounts        prometheus.Gauge
	lockedAccounts  prometheus.Gauge
	replayDuration  prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		recordsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_records_total",
			Help: "Total records processed, labeled by action and outcome",
		}, []string{"action", "outcome"}),
		rejectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_rejections_total",
			Help: "Rejected records, labeled by action and reason",
		}, []string{"action", "reason"}),
		accounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_accounts",
			Help: "Number of client accounts after the replay",
		}),
		lockedAccounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_locked_accounts",
			Help: "Number of locked client accounts after the replay",
		}),
		replayDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_replay_duration_seconds",
			Help: "Wall time of the last replay",
		}),
	}
}

func (m *Metrics) ObserveApplied(action string) {
	m.recordsTotal.WithLabelValues(action, OutcomeApplied).Inc()
}

func (m *Metrics) ObserveRejected(action, reason string) {
	m.recordsTotal.WithLabelValues(action, OutcomeRejected).Inc()
	m.rejectionsTotal.WithLabelValues(action, reason).Inc()
}

func (m *Metrics) SetAccounts(total, locked int) {
	m.accounts.Set(float64(total))
	m.lockedAccounts.Set(float64(locked))
}

func (m *Metrics) ObserveDuration(d time.Duration) {
	m.replayDuration.Set(d.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteToTextfile 以 node_exporter textfile collector 的格式写出（原子替换）
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
