package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RequestBuckets cover HTTP request latencies in milliseconds.
var RequestBuckets = []float64{
	5, 10, 25, 50, 75, 100, 150, 200, 300, 500,
	750, 1000, 1500, 2000, 3000, 5000, 10000,
}

// PassBuckets cover reconciliation passes in milliseconds. A pass normally
// ends near dues.max_batch_seconds, so the upper buckets are dense around
// the 30s default.
var PassBuckets = []float64{
	10, 50, 100, 250, 500, 1000, 2500, 5000,
	10000, 20000, 25000, 30000, 35000, 45000, 60000, 120000,
}

// Metric is a definition for the name, description, type, ID, and
// prometheus.Collector type (i.e. CounterVec, Summary, etc) of each metric
type Metric struct {
	MetricCollector prometheus.Collector
	ID              string
	Name            string
	Description     string
	Type            string
	Args            []string
	// Buckets applies to histogram types; nil uses RequestBuckets.
	Buckets []float64
}

func (m *Metric) buckets() []float64 {
	if len(m.Buckets) > 0 {
		return m.Buckets
	}
	return RequestBuckets
}

// NewMetric associates prometheus.Collector based on Metric.Type. Unknown
// types yield nil.
func NewMetric(m *Metric, subsystem string) prometheus.Collector {
	var metric prometheus.Collector
	switch m.Type {
	case "counter_vec":
		metric = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
			m.Args,
		)
	case "counter":
		metric = prometheus.NewCounter(
			prometheus.CounterOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
		)
	case "histogram_vec":
		metric = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
				Buckets:   m.buckets(),
			},
			m.Args,
		)
	case "histogram":
		metric = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
				Buckets:   m.buckets(),
			},
		)
	case "summary_vec":
		metric = prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
			m.Args,
		)
	}
	return metric
}

const (
	RefererKey = "X-Referer"
)
