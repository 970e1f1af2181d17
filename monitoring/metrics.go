package monitoring

import (
	"context"
	"log/slog"
	"time"

	"clinic-queue/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queueWaiting = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "clinic_queue_waiting",
			Help: "Current number of WAITING patients per specialty",
		},
		[]string{"specialty"},
	)

	queueOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_queue_operations_total",
			Help: "Total queue operations",
		},
		[]string{"operation", "specialty", "result"},
	)

	queueWaitSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clinic_queue_wait_seconds",
			Help:    "Time from joining the queue to being called",
			Buckets: prometheus.ExponentialBuckets(30, 2, 10),
		},
		[]string{"specialty"},
	)
)

// WaitingSource reports WAITING counts per specialty.
type WaitingSource interface {
	WaitingSummaries(ctx context.Context) ([]models.QueueStatusSummary, error)
}

// Monitor records queue metrics. A nil Monitor records nothing.
type Monitor struct {
	source   WaitingSource
	interval time.Duration
}

func NewMonitor(source WaitingSource, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{source: source, interval: interval}
}

// Run refreshes the waiting gauge until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.CollectQueueMetrics(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CollectQueueMetrics(ctx)
		}
	}
}

// CollectQueueMetrics sets the waiting gauge for every specialty. Specialties
// with nobody waiting are reported as zero.
func (m *Monitor) CollectQueueMetrics(ctx context.Context) {
	rows, err := m.source.WaitingSummaries(ctx)
	if err != nil {
		slog.Warn("Failed to collect queue metrics", "error", err)
		return
	}

	waiting := make(map[models.Specialty]int, len(rows))
	for _, row := range rows {
		waiting[row.Specialty] = row.TotalWaiting
	}
	for _, sp := range models.Specialties {
		queueWaiting.WithLabelValues(string(sp)).Set(float64(waiting[sp]))
	}
}

// TrackQueueOperation counts one operation, labelled by its outcome.
func (m *Monitor) TrackQueueOperation(operation, specialty string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	queueOperations.WithLabelValues(operation, specialty, result).Inc()
}

// ObserveWait records how long a patient waited before being called.
func (m *Monitor) ObserveWait(specialty string, waited time.Duration) {
	if m == nil {
		return
	}
	queueWaitSeconds.WithLabelValues(specialty).Observe(waited.Seconds())
}
