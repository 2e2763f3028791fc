// Package metrics exposes intake pipeline counters in Prometheus format on a
// registry owned by the process rather than the global default.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "techdesk"

type IntakeMetrics struct {
	registry      *prometheus.Registry
	submissions   *prometheus.CounterVec
	attachments   prometheus.Counter
	notifications *prometheus.CounterVec
	orphans       prometheus.Gauge
	duration      prometheus.Histogram
}

func NewIntakeMetrics() *IntakeMetrics {
	m := &IntakeMetrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticket_submissions_total",
			Help:      "Ticket submissions by final result.",
		}, []string{"result"}),
		attachments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attachments_staged_total",
			Help:      "Attachment files written to the upload directory.",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Ticket notification attempts by delivery result.",
		}, []string{"delivered"}),
		orphans: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "orphaned_attachments",
			Help:      "Files in the upload directory referenced by no ticket, as of the last audit.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "intake_duration_seconds",
			Help:      "Time from receiving a submission to producing its response.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.submissions,
		m.attachments,
		m.notifications,
		m.orphans,
		m.duration,
	)
	return m
}

func (m *IntakeMetrics) ObserveSubmission(result string, elapsed time.Duration) {
	m.submissions.WithLabelValues(result).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *IntakeMetrics) AddStagedAttachments(n int) {
	m.attachments.Add(float64(n))
}

func (m *IntakeMetrics) ObserveNotification(delivered bool) {
	m.notifications.WithLabelValues(strconv.FormatBool(delivered)).Inc()
}

func (m *IntakeMetrics) SetOrphanedAttachments(n int) {
	m.orphans.Set(float64(n))
}

func (m *IntakeMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *IntakeMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
