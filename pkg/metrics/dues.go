package metrics

import (
	"errors"
	"time"

	"github.com/fatflowers/duesledger/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

const duesSubsystem = "dues"

var MetricsStatusTransitions = &Metric{
	ID:          "statusTransitions",
	Name:        "status_transitions_total",
	Description: "Member payment status transitions that fired a status change event.",
	Type:        "counter_vec",
	Args:        []string{"from", "to"},
}

var MetricsReconcileRecords = &Metric{
	ID:          "reconcileRecords",
	Name:        "reconcile_records_total",
	Description: "Members processed by reconciliation passes, partitioned by result.",
	Type:        "counter_vec",
	Args:        []string{"result"},
}

var MetricsReconcilePass = &Metric{
	ID:          "reconcilePass",
	Name:        "reconcile_pass_ms",
	Description: "Reconciliation pass latency in milliseconds.",
	Type:        "histogram",
	Buckets:     PassBuckets,
}

// Reconcile record results.
const (
	ReconcileResultOK      = "ok"
	ReconcileResultFailed  = "failed"
	ReconcileResultSkipped = "skipped"
)

// DuesMetrics holds the dues engine collectors. A nil *DuesMetrics records
// nothing.
type DuesMetrics struct {
	transitions   *prometheus.CounterVec
	records       *prometheus.CounterVec
	reconcilePass prometheus.Histogram
}

// NewDuesMetrics registers the dues collectors on reg. Collectors already
// registered by an earlier call are reused.
func NewDuesMetrics(reg prometheus.Registerer) (*DuesMetrics, error) {
	transitions, err := register(reg, NewMetric(MetricsStatusTransitions, duesSubsystem))
	if err != nil {
		return nil, err
	}
	records, err := register(reg, NewMetric(MetricsReconcileRecords, duesSubsystem))
	if err != nil {
		return nil, err
	}
	pass, err := register(reg, NewMetric(MetricsReconcilePass, duesSubsystem))
	if err != nil {
		return nil, err
	}
	return &DuesMetrics{
		transitions:   transitions.(*prometheus.CounterVec),
		records:       records.(*prometheus.CounterVec),
		reconcilePass: pass.(prometheus.Histogram),
	}, nil
}

func register(reg prometheus.Registerer, c prometheus.Collector) (prometheus.Collector, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector, nil
		}
		return nil, err
	}
	return c, nil
}

func (m *DuesMetrics) StatusTransition(from, to types.PaymentStatus) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(from), string(to)).Inc()
}

func (m *DuesMetrics) ReconcileRecord(result string) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(result).Inc()
}

func (m *DuesMetrics) ObserveReconcilePass(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.reconcilePass.Observe(float64(elapsed.Milliseconds()))
}

var Module = fx.Options(
	fx.Provide(func() (*DuesMetrics, error) { return NewDuesMetrics(prometheus.DefaultRegisterer) }),
)
