package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-queue/models"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
)

func metricValue(m prometheus.Metric) float64 {
	var pb dto.Metric
	if err := m.Write(&pb); err != nil {
		return -1
	}
	if pb.Gauge != nil {
		return pb.Gauge.GetValue()
	}
	return pb.Counter.GetValue()
}

type fakeSource struct {
	rows []models.QueueStatusSummary
	err  error
}

func (f fakeSource) WaitingSummaries(context.Context) ([]models.QueueStatusSummary, error) {
	return f.rows, f.err
}

func TestCollectQueueMetrics(t *testing.T) {
	m := NewMonitor(fakeSource{rows: []models.QueueStatusSummary{
		{Specialty: models.Cardiology, TotalWaiting: 3, CurrentQueueNumber: 7},
	}}, time.Second)

	m.CollectQueueMetrics(context.Background())

	assert.Equal(t, 3.0, metricValue(queueWaiting.WithLabelValues(string(models.Cardiology))))
	assert.Equal(t, 0.0, metricValue(queueWaiting.WithLabelValues(string(models.ENT))))
}

func TestCollectQueueMetrics_SourceErrorKeepsGauge(t *testing.T) {
	queueWaiting.WithLabelValues(string(models.Neurology)).Set(5)

	m := NewMonitor(fakeSource{err: errors.New("db down")}, time.Second)
	m.CollectQueueMetrics(context.Background())

	assert.Equal(t, 5.0, metricValue(queueWaiting.WithLabelValues(string(models.Neurology))))
}

func TestTrackQueueOperation(t *testing.T) {
	m := NewMonitor(fakeSource{}, time.Second)

	okCounter := queueOperations.WithLabelValues("join", "PEDIATRICS", "ok")
	errCounter := queueOperations.WithLabelValues("join", "PEDIATRICS", "error")
	beforeOK := metricValue(okCounter)
	beforeErr := metricValue(errCounter)

	m.TrackQueueOperation("join", "PEDIATRICS", nil)
	m.TrackQueueOperation("join", "PEDIATRICS", errors.New("boom"))
	m.TrackQueueOperation("join", "PEDIATRICS", nil)

	assert.Equal(t, beforeOK+2, metricValue(okCounter))
	assert.Equal(t, beforeErr+1, metricValue(errCounter))
}

func TestNilMonitorIsSafe(t *testing.T) {
	var m *Monitor
	assert.NotPanics(t, func() {
		m.TrackQueueOperation("join", "ENT", nil)
		m.ObserveWait("ENT", time.Minute)
	})
}
